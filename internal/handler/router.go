package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/mmeshcher/lunch-app/internal/access"
	custommiddleware "github.com/mmeshcher/lunch-app/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса заказа обедов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Encoding"},
		MaxAge:         300,
	}))
	r.Use(secureMiddleware.Handler)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/overview", h.GetOverview)
		r.Post("/overview", h.UpdateOverview)

		r.Get("/order", h.GetOrderForm)
		r.Post("/order", h.PlaceOrder)

		r.Get("/my_orders", h.MyOrders)
		r.Get("/orders/{id}", h.OrderDetails)
		r.Get("/info", h.Info)

		r.Get("/order_list/{userID}/{year}", h.UserYear)
		r.Get("/order_list/{userID}/{year}/{month}", h.UserMonth)

		r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
			Get("/random_meal/{courage}", h.RandomMeal)

		r.Get("/food_rate", h.RateChoices)
		r.Post("/food_rate", h.RateFood)

		r.Post("/send_daily_reminder", h.SendDailyReminder)

		r.Group(func(r chi.Router) {
			r.Use(access.Middleware)

			r.Post("/foods", h.AddFood)
			r.Get("/day_summary", h.DaySummary)

			r.Put("/orders/{id}", h.EditOrder)
			r.Delete("/orders/{id}", h.DeleteOrder)

			r.Get("/company_summary/{year}/{month}", h.CompanySummary)

			r.Get("/finance/{year}/{month}/{didPay}", h.FinanceView)
			r.Post("/finance/{year}/{month}/{didPay}", h.SubmitFinance)

			r.Get("/finance_mail_text", h.GetMailText)
			r.Put("/finance_mail_text", h.UpdateMailText)

			r.Get("/finance_mail_all", h.MonthlySummaries)
			r.Post("/finance_mail_all", h.MailMonthlySummaries)

			r.Post("/payment_remind/{username}/{slack}", h.PaymentRemind)

			r.Get("/companies", h.Companies)
			r.Post("/companies", h.AddCompany)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
