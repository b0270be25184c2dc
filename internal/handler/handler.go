// Package handler содержит HTTP-обработчики API сервиса заказа обедов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/lunch-app/internal/access"
	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/finance"
	"github.com/mmeshcher/lunch-app/internal/lock"
	"github.com/mmeshcher/lunch-app/internal/middleware"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/random"
	"github.com/mmeshcher/lunch-app/internal/rating"
	"github.com/mmeshcher/lunch-app/internal/report"
	"github.com/mmeshcher/lunch-app/internal/repository"
	"github.com/mmeshcher/lunch-app/internal/service"
	"github.com/mmeshcher/lunch-app/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Overview(ctx context.Context, id model.Identity) (*service.Overview, error)
	SetDailyReminder(ctx context.Context, id model.Identity, enabled bool) error
	OrderForm(ctx context.Context, id model.Identity) (*service.OrderForm, error)
	PlaceOrder(ctx context.Context, id model.Identity, in service.OrderInput) (*model.Order, error)
	MyOrders(ctx context.Context, id model.Identity) (*service.OrderList, error)
	OrderDetails(ctx context.Context, id model.Identity, orderID int64) (*model.Order, error)
	Info(ctx context.Context) []string
	UserYear(ctx context.Context, id model.Identity, userID int64, year int) (*service.UserYear, error)
	UserMonth(ctx context.Context, id model.Identity, userID int64, year, month int) (*service.UserMonth, error)
	RandomMeal(ctx context.Context, id model.Identity, courage random.Courage) (*service.RandomMeal, error)
	RateChoices(ctx context.Context, id model.Identity) ([]rating.Choice, error)
	RateFood(ctx context.Context, id model.Identity, foodID int64, rate int) (float64, error)
	SendDailyReminder(ctx context.Context) (int, error)

	AddFood(ctx context.Context, id model.Identity, in service.FoodInput) (int, error)
	AddCompany(ctx context.Context, id model.Identity, in service.CompanyInput) (*model.Company, error)
	Companies(ctx context.Context, id model.Identity) ([]model.Company, error)
	DaySummary(ctx context.Context, id model.Identity) ([]report.SlotSummary, error)
	EditOrder(ctx context.Context, id model.Identity, orderID int64, in service.OrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id model.Identity, orderID int64) error
	CompanySummary(ctx context.Context, id model.Identity, year, month int) (*service.CompanySummary, error)
	FinanceView(ctx context.Context, id model.Identity, year, month int, mode finance.Mode) (*service.FinanceView, error)
	SubmitFinance(ctx context.Context, id model.Identity, year, month int, mode finance.Mode,
		statusByUsername map[string]bool) (*service.FinanceView, error)
	MailText(ctx context.Context, id model.Identity) (*model.MailText, error)
	UpdateMailText(ctx context.Context, id model.Identity, t model.MailText) error
	MonthlySummaries(ctx context.Context, id model.Identity) ([]report.UserSummary, error)
	MailMonthlySummaries(ctx context.Context, id model.Identity) (int, error)
	PaymentRemind(ctx context.Context, id model.Identity, username string, slacker bool) error
}

// Handler реализует HTTP-обработчики API сервиса заказа обедов.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func identity(r *http.Request) model.Identity {
	return middleware.IdentityFromContext(r.Context())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(validation.ErrInvalid, err)
	}
	return nil
}

// writeError отображает ошибку сценария на HTTP-статус.
func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, access.ErrUnauthorized):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, calendar.ErrInvalidWindow),
		errors.Is(err, finance.ErrInvalidMode),
		errors.Is(err, random.ErrInvalidCourage),
		errors.Is(err, rating.ErrInvalidRate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrCompanyExists),
		errors.Is(err, lock.ErrNotAcquired),
		errors.Is(err, random.ErrNoCandidateAvailable),
		errors.Is(err, rating.ErrNoOrderToRate),
		errors.Is(err, rating.ErrAlreadyRatedToday):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error(op+" error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errors.Join(validation.ErrInvalid, err)
	}
	return v, nil
}
