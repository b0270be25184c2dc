package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/lunch-app/internal/finance"
	"github.com/mmeshcher/lunch-app/internal/middleware"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/random"
	"github.com/mmeshcher/lunch-app/internal/rating"
	"github.com/mmeshcher/lunch-app/internal/repository"
	"github.com/mmeshcher/lunch-app/internal/service"
)

// stubService реализует только методы, нужные тестам; остальные
// достаются от встроенного nil-интерфейса и паникуют при вызове.
type stubService struct {
	Service

	calls int

	placedInput service.OrderInput
	placeErr    error

	orderErr error

	randomResp *service.RandomMeal
	randomErr  error

	rateErr error

	financeYear   int
	financeMonth  int
	financeMode   finance.Mode
	financeStatus map[string]bool

	info []string
}

func (s *stubService) PlaceOrder(ctx context.Context, id model.Identity, in service.OrderInput) (*model.Order, error) {
	s.calls++
	s.placedInput = in
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return &model.Order{ID: 7, UserName: id.Username, Company: in.Company, Description: in.Description, Cost: in.Cost, ArrivalTime: in.ArrivalTime}, nil
}

func (s *stubService) OrderDetails(ctx context.Context, id model.Identity, orderID int64) (*model.Order, error) {
	s.calls++
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return &model.Order{ID: orderID}, nil
}

func (s *stubService) AddFood(ctx context.Context, id model.Identity, in service.FoodInput) (int, error) {
	s.calls++
	return 1, nil
}

func (s *stubService) RandomMeal(ctx context.Context, id model.Identity, courage random.Courage) (*service.RandomMeal, error) {
	s.calls++
	return s.randomResp, s.randomErr
}

func (s *stubService) RateFood(ctx context.Context, id model.Identity, foodID int64, rate int) (float64, error) {
	s.calls++
	return float64(rate), s.rateErr
}

func (s *stubService) SubmitFinance(ctx context.Context, id model.Identity, year, month int, mode finance.Mode,
	statusByUsername map[string]bool) (*service.FinanceView, error) {
	s.calls++
	s.financeYear, s.financeMonth, s.financeMode, s.financeStatus = year, month, mode, statusByUsername
	return &service.FinanceView{Period: service.Period{Year: year, Month: month}, Mode: mode}, nil
}

func (s *stubService) Info(ctx context.Context) []string {
	s.calls++
	return s.info
}

type stubUsers map[int64]*model.User

func (s stubUsers) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

const (
	adminID = 1
	userID  = 2
)

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-secret", stubUsers{
		adminID: {ID: adminID, Username: "admin@stx.pl", IsAdmin: true},
		userID:  {ID: userID, Username: "user@stx.pl"},
	})

	return NewHandler(svc, logger, auth)
}

// do выполняет запрос через роутер от имени пользователя с указанным id.
// Нулевой id означает запрос без cookie.
func do(t *testing.T, h *Handler, asUser int64, method, target string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if asUser != 0 {
		rec := httptest.NewRecorder()
		h.authMiddleware.SetAuthCookie(rec, asUser)
		req.AddCookie(rec.Result().Cookies()[0])
	}

	rec := httptest.NewRecorder()
	h.SetupRouter().ServeHTTP(rec, req)
	return rec.Result()
}

func TestRouter_RequiresCookie(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	res := do(t, h, 0, http.MethodGet, "/api/info", nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestRouter_AdminRoutesRejectRegularUser(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	res := do(t, h, userID, http.MethodPost, "/api/foods", map[string]any{"company": "Tomas"})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called before the admin check")
	}

	res = do(t, h, adminID, http.MethodPost, "/api/foods", map[string]any{"company": "Tomas"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	h := newTestHandler(t, &stubService{info: []string{"None"}})

	res := do(t, h, userID, http.MethodGet, "/api/info", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if got := res.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestRouter_CORSWithoutCredentials(t *testing.T) {
	h := newTestHandler(t, &stubService{info: []string{"None"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/order", nil)
	req.Header.Set("Origin", "https://lunch.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	h.SetupRouter().ServeHTTP(rec, req)
	res := rec.Result()

	if res.StatusCode == http.StatusUnauthorized {
		t.Fatalf("preflight must not require a cookie")
	}
	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := res.Header.Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("wildcard origin must not allow credentials, got %q", got)
	}
}

func TestPlaceOrder_Created(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	res := do(t, h, userID, http.MethodPost, "/api/order", map[string]any{
		"company":        "Tomas",
		"description":    "zupa",
		"cost":           "12.50",
		"arrival_time":   "12:00",
		"send_me_a_copy": true,
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}
	if !svc.placedInput.Cost.Equal(decimal.RequireFromString("12.5")) || !svc.placedInput.SendMeACopy {
		t.Fatalf("unexpected input: %+v", svc.placedInput)
	}

	var o model.Order
	if err := json.NewDecoder(res.Body).Decode(&o); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if o.UserName != "user@stx.pl" {
		t.Fatalf("order user = %q, want caller", o.UserName)
	}
}

func TestPlaceOrder_BadJSON(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	res := do(t, h, userID, http.MethodPost, "/api/order", "{")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestOrderDetails_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"found", "/api/orders/5", nil, http.StatusOK},
		{"not found", "/api/orders/5", repository.ErrNotFound, http.StatusNotFound},
		{"bad id", "/api/orders/abc", nil, http.StatusBadRequest},
		{"storage failure", "/api/orders/5", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &stubService{orderErr: tt.err})
			res := do(t, h, userID, http.MethodGet, tt.target, nil)
			if res.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", res.StatusCode, tt.want)
			}
		})
	}
}

func TestRandomMeal(t *testing.T) {
	candidate := random.Candidate{Company: "Tomas", Description: "zupa", Cost: decimal.NewFromInt(9), ArrivalTime: "12:00"}

	t.Run("preview", func(t *testing.T) {
		h := newTestHandler(t, &stubService{randomResp: &service.RandomMeal{Candidate: candidate}})
		res := do(t, h, userID, http.MethodGet, "/api/random_meal/0", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
		}
		var got random.Candidate
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Description != "zupa" {
			t.Fatalf("unexpected candidate %+v", got)
		}
	})

	t.Run("commit redirects", func(t *testing.T) {
		order := random.NewOrder(candidate, "user@stx.pl", random.CourageLunch, time.Now())
		h := newTestHandler(t, &stubService{randomResp: &service.RandomMeal{Candidate: candidate, Order: &order}})
		res := do(t, h, userID, http.MethodGet, "/api/random_meal/1", nil)
		if res.StatusCode != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusSeeOther)
		}
		if loc := res.Header.Get("Location"); loc != "/api/order" {
			t.Fatalf("location = %q, want /api/order", loc)
		}
	})

	t.Run("invalid courage", func(t *testing.T) {
		svc := &stubService{}
		h := newTestHandler(t, svc)
		res := do(t, h, userID, http.MethodGet, "/api/random_meal/7", nil)
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		h := newTestHandler(t, &stubService{randomErr: random.ErrNoCandidateAvailable})
		res := do(t, h, userID, http.MethodGet, "/api/random_meal/1", nil)
		if res.StatusCode != http.StatusConflict {
			t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusConflict)
		}
	})
}

func TestRateFood_AlreadyRated(t *testing.T) {
	h := newTestHandler(t, &stubService{rateErr: rating.ErrAlreadyRatedToday})

	res := do(t, h, userID, http.MethodPost, "/api/food_rate", map[string]int{"food_id": 1, "rate": 4})
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusConflict)
	}
}

func TestSubmitFinance(t *testing.T) {
	svc := &stubService{}
	h := newTestHandler(t, svc)

	res := do(t, h, adminID, http.MethodPost, "/api/finance/2015/2/2", map[string]any{
		"did_user_pay": map[string]bool{"user@stx.pl": true},
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if svc.financeYear != 2015 || svc.financeMonth != 2 || svc.financeMode != finance.ModeUnpaidOnly {
		t.Fatalf("unexpected params: %d/%d mode %d", svc.financeYear, svc.financeMonth, svc.financeMode)
	}
	if !svc.financeStatus["user@stx.pl"] {
		t.Fatalf("submitted status not passed: %v", svc.financeStatus)
	}
}

func TestSubmitFinance_InvalidParams(t *testing.T) {
	for _, target := range []string{"/api/finance/2015/2/3", "/api/finance/2015/13/0", "/api/finance/x/2/0"} {
		svc := &stubService{}
		h := newTestHandler(t, svc)

		res := do(t, h, adminID, http.MethodPost, target, map[string]any{})
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want %d", target, res.StatusCode, http.StatusBadRequest)
		}
		if svc.calls != 0 {
			t.Fatalf("%s: service must not be called", target)
		}
	}
}

func TestInfo_JSON(t *testing.T) {
	h := newTestHandler(t, &stubService{info: []string{"first", "second"}})

	res := do(t, h, userID, http.MethodGet, "/api/info", nil)
	var body map[string][]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(body["info"], "|") != "first|second" {
		t.Fatalf("unexpected info %v", body)
	}
}
