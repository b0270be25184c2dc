package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/finance"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/service"
)

// AddFood добавляет блюдо или пакет блюд.
func (h *Handler) AddFood(w http.ResponseWriter, r *http.Request) {
	var in service.FoodInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err, "add food")
		return
	}

	n, err := h.service.AddFood(r.Context(), identity(r), in)
	if err != nil {
		h.writeError(w, err, "add food")
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int{"added": n})
}

// DaySummary возвращает сегодняшние заказы по компаниям и слотам доставки.
func (h *Handler) DaySummary(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.DaySummary(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "day summary")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// EditOrder исправляет заказ.
func (h *Handler) EditOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, err, "edit order")
		return
	}
	var in service.OrderInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err, "edit order")
		return
	}

	o, err := h.service.EditOrder(r.Context(), identity(r), orderID, in)
	if err != nil {
		h.writeError(w, err, "edit order")
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// DeleteOrder удаляет заказ.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt64(r, "id")
	if err != nil {
		h.writeError(w, err, "delete order")
		return
	}

	if err := h.service.DeleteOrder(r.Context(), identity(r), orderID); err != nil {
		h.writeError(w, err, "delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompanySummary возвращает стоимость заказов по компаниям за месяц.
func (h *Handler) CompanySummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := calendar.ParseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		h.writeError(w, err, "company summary")
		return
	}

	res, err := h.service.CompanySummary(r.Context(), identity(r), year, month)
	if err != nil {
		h.writeError(w, err, "company summary")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func financeParams(r *http.Request) (int, int, finance.Mode, error) {
	year, month, err := calendar.ParseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, 0, err
	}
	mode, err := finance.ParseMode(chi.URLParam(r, "didPay"))
	if err != nil {
		return 0, 0, 0, err
	}
	return year, month, mode, nil
}

// FinanceView возвращает сверку оплат за месяц.
func (h *Handler) FinanceView(w http.ResponseWriter, r *http.Request) {
	year, month, mode, err := financeParams(r)
	if err != nil {
		h.writeError(w, err, "finance view")
		return
	}

	res, err := h.service.FinanceView(r.Context(), identity(r), year, month, mode)
	if err != nil {
		h.writeError(w, err, "finance view")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type financeSubmission struct {
	DidUserPay map[string]bool `json:"did_user_pay"`
}

// SubmitFinance сохраняет статусы оплаты за месяц.
func (h *Handler) SubmitFinance(w http.ResponseWriter, r *http.Request) {
	year, month, mode, err := financeParams(r)
	if err != nil {
		h.writeError(w, err, "submit finance")
		return
	}
	var req financeSubmission
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err, "submit finance")
		return
	}

	res, err := h.service.SubmitFinance(r.Context(), identity(r), year, month, mode, req.DidUserPay)
	if err != nil {
		h.writeError(w, err, "submit finance")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// GetMailText возвращает тексты рассылок.
func (h *Handler) GetMailText(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.MailText(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "get mail text")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// UpdateMailText сохраняет тексты рассылок.
func (h *Handler) UpdateMailText(w http.ResponseWriter, r *http.Request) {
	var t model.MailText
	if err := decodeJSON(r, &t); err != nil {
		h.writeError(w, err, "update mail text")
		return
	}

	if err := h.service.UpdateMailText(r.Context(), identity(r), t); err != nil {
		h.writeError(w, err, "update mail text")
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// MonthlySummaries возвращает получателей месячной сводки.
func (h *Handler) MonthlySummaries(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.MonthlySummaries(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "monthly summaries")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// MailMonthlySummaries рассылает месячные сводки.
func (h *Handler) MailMonthlySummaries(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.MailMonthlySummaries(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "mail monthly summaries")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"sent": n})
}

// PaymentRemind отправляет пользователю напоминание об оплате.
// Параметр slack=1 выбирает текст для злостных неплательщиков.
func (h *Handler) PaymentRemind(w http.ResponseWriter, r *http.Request) {
	slack, err := pathInt64(r, "slack")
	if err != nil {
		h.writeError(w, err, "payment remind")
		return
	}

	username := chi.URLParam(r, "username")
	if err := h.service.PaymentRemind(r.Context(), identity(r), username, slack == 1); err != nil {
		h.writeError(w, err, "payment remind")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"sent": username})
}

// Companies возвращает список компаний.
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Companies(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, err, "companies")
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// AddCompany добавляет компанию.
func (h *Handler) AddCompany(w http.ResponseWriter, r *http.Request) {
	var in service.CompanyInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err, "add company")
		return
	}

	c, err := h.service.AddCompany(r.Context(), identity(r), in)
	if err != nil {
		h.writeError(w, err, "add company")
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}
