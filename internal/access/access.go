// Package access содержит проверку прав администратора.
package access

import (
	"errors"
	"net/http"

	"github.com/mmeshcher/lunch-app/internal/middleware"
	"github.com/mmeshcher/lunch-app/internal/model"
)

// ErrUnauthorized возвращается, если у вызывающего нет прав администратора.
var ErrUnauthorized = errors.New("unauthorized")

// RequireAdmin проверяет, что идентичность аутентифицирована и имеет права администратора.
func RequireAdmin(id model.Identity) error {
	if id.Anonymous || id.Username == "" || !id.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}

// Guard выполняет fn только для администратора. Иначе fn не вызывается.
func Guard(id model.Identity, fn func() error) error {
	if err := RequireAdmin(id); err != nil {
		return err
	}
	return fn()
}

// GuardValue аналогичен Guard для операций, возвращающих значение.
func GuardValue[T any](id model.Identity, fn func() (T, error)) (T, error) {
	if err := RequireAdmin(id); err != nil {
		var zero T
		return zero, err
	}
	return fn()
}

// Middleware отклоняет запрос с 401 до вызова обработчика, если
// идентичность из контекста не является администратором.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.IdentityFromContext(r.Context())
		if err := RequireAdmin(id); err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
