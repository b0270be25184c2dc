package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/random"
	"github.com/mmeshcher/lunch-app/internal/service"
)

// GetOverview возвращает настройки текущего пользователя.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Overview(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "get overview")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type reminderRequest struct {
	IWantDailyReminder bool `json:"i_want_daily_reminder"`
}

// UpdateOverview включает или отключает ежедневное напоминание.
func (h *Handler) UpdateOverview(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err, "update overview")
		return
	}

	id := identity(r)
	if err := h.service.SetDailyReminder(r.Context(), id, req.IWantDailyReminder); err != nil {
		h.writeError(w, err, "update overview")
		return
	}

	res, err := h.service.Overview(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get overview")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// GetOrderForm возвращает компании и блюда, доступные сегодня.
func (h *Handler) GetOrderForm(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.OrderForm(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "get order form")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// PlaceOrder создаёт заказ текущего пользователя.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in service.OrderInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err, "place order")
		return
	}

	o, err := h.service.PlaceOrder(r.Context(), identity(r), in)
	if err != nil {
		h.writeError(w, err, "place order")
		return
	}
	h.writeJSON(w, http.StatusCreated, o)
}

// MyOrders возвращает все заказы текущего пользователя.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.MyOrders(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "my orders")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// OrderDetails возвращает заказ по идентификатору.
func (h *Handler) OrderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, err, "order details")
		return
	}

	o, err := h.service.OrderDetails(r.Context(), identity(r), orderID)
	if err != nil {
		h.writeError(w, err, "order details")
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// Info возвращает строки информационной страницы.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"info": h.service.Info(r.Context())})
}

// UserYear возвращает помесячную сводку заказов пользователя за год.
func (h *Handler) UserYear(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userID")
	if err != nil {
		h.writeError(w, err, "user year")
		return
	}
	year, err := calendar.ParseYear(chi.URLParam(r, "year"))
	if err != nil {
		h.writeError(w, err, "user year")
		return
	}

	res, err := h.service.UserYear(r.Context(), identity(r), userID, year)
	if err != nil {
		h.writeError(w, err, "user year")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// UserMonth возвращает заказы пользователя за месяц.
func (h *Handler) UserMonth(w http.ResponseWriter, r *http.Request) {
	userID, err := pathInt64(r, "userID")
	if err != nil {
		h.writeError(w, err, "user month")
		return
	}
	year, month, err := calendar.ParseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		h.writeError(w, err, "user month")
		return
	}

	res, err := h.service.UserMonth(r.Context(), identity(r), userID, year, month)
	if err != nil {
		h.writeError(w, err, "user month")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// RandomMeal предлагает случайное блюдо или сразу заказывает его.
// После заказа клиент перенаправляется на страницу заказа.
func (h *Handler) RandomMeal(w http.ResponseWriter, r *http.Request) {
	courage, err := random.ParseCourage(chi.URLParam(r, "courage"))
	if err != nil {
		h.writeError(w, err, "random meal")
		return
	}

	res, err := h.service.RandomMeal(r.Context(), identity(r), courage)
	if err != nil {
		h.writeError(w, err, "random meal")
		return
	}

	if res.Order != nil {
		http.Redirect(w, r, "/api/order", http.StatusSeeOther)
		return
	}
	h.writeJSON(w, http.StatusOK, res.Candidate)
}

// RateChoices возвращает блюда, которые текущий пользователь может оценить.
func (h *Handler) RateChoices(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RateChoices(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "rate choices")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type rateRequest struct {
	FoodID int64 `json:"food_id"`
	Rate   int   `json:"rate"`
}

// RateFood сохраняет оценку блюда.
func (h *Handler) RateFood(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err, "rate food")
		return
	}

	rating, err := h.service.RateFood(r.Context(), identity(r), req.FoodID, req.Rate)
	if err != nil {
		h.writeError(w, err, "rate food")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"food_id": req.FoodID, "rating": rating})
}

// SendDailyReminder рассылает ежедневное напоминание о заказе.
func (h *Handler) SendDailyReminder(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.SendDailyReminder(r.Context())
	if err != nil {
		h.writeError(w, err, "send daily reminder")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"recipients": n})
}
