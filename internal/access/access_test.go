package access

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmeshcher/lunch-app/internal/middleware"
	"github.com/mmeshcher/lunch-app/internal/model"
)

func TestGuard_RefusesBeforeSideEffect(t *testing.T) {
	tests := []struct {
		name string
		id   model.Identity
	}{
		{name: "anonymous", id: model.AnonymousIdentity()},
		{name: "anonymous with admin flag", id: model.Identity{Anonymous: true, IsAdmin: true, Username: "x"}},
		{name: "regular user", id: model.Identity{UserID: 2, Username: "test@user.pl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := Guard(tt.id, func() error {
				called = true
				return nil
			})
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if called {
				t.Fatalf("guarded operation must not run")
			}
		})
	}
}

func TestGuard_AllowsAdmin(t *testing.T) {
	id := model.Identity{UserID: 1, Username: "test_user", IsAdmin: true}

	called := false
	if err := Guard(id, func() error { called = true; return nil }); err != nil {
		t.Fatalf("Guard error: %v", err)
	}
	if !called {
		t.Fatalf("guarded operation was not called")
	}

	v, err := GuardValue(id, func() (int, error) { return 5, nil })
	if err != nil || v != 5 {
		t.Fatalf("GuardValue = %d, %v", v, err)
	}
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		id         model.Identity
		wantStatus int
		wantCalled bool
	}{
		{name: "admin", id: model.Identity{UserID: 1, Username: "test_user", IsAdmin: true}, wantStatus: http.StatusOK, wantCalled: true},
		{name: "user", id: model.Identity{UserID: 2, Username: "u"}, wantStatus: http.StatusUnauthorized},
		{name: "anonymous", id: model.AnonymousIdentity(), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/foods", nil)
			req = req.WithContext(middleware.ContextWithIdentity(req.Context(), tt.id))
			rec := httptest.NewRecorder()

			Middleware(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Fatalf("called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}
