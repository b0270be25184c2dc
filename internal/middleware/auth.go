// Package middleware содержит HTTP middleware сервиса заказа обедов.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/lunch-app/internal/model"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	authCookieName = "auth_token"
	authCookieTTL  = 365 * 24 * time.Hour
)

// UserLoader загружает пользователя по идентификатору из подписанного cookie.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthMiddleware проверяет подписанный cookie и кладёт идентичность пользователя в контекст.
type AuthMiddleware struct {
	secretKey []byte
	users     UserLoader
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
func NewAuthMiddleware(secret string, users UserLoader) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
		users:     users,
	}
}

// Middleware пропускает только запросы с действительным cookie авторизации.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		userID, ok := a.parseCookie(cookie.Value)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		user, err := a.users.GetUserByID(r.Context(), userID)
		if err != nil || user == nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := ContextWithIdentity(r.Context(), model.IdentityFromUser(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetAuthCookie устанавливает cookie авторизации для указанного идентификатора пользователя.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter, userID int64) {
	cookie := &http.Cookie{
		Name:     authCookieName,
		Value:    a.signUserID(userID),
		Path:     "/",
		Expires:  time.Now().Add(authCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (a *AuthMiddleware) signUserID(userID int64) string {
	idStr := strconv.FormatInt(userID, 10)
	return idStr + "." + a.signature(idStr)
}

func (a *AuthMiddleware) signature(idStr string) string {
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(idStr))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *AuthMiddleware) parseCookie(cookieValue string) (int64, bool) {
	idStr, signature, found := strings.Cut(cookieValue, ".")
	if !found || strings.Contains(signature, ".") {
		return 0, false
	}

	if !hmac.Equal([]byte(signature), []byte(a.signature(idStr))) {
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// ContextWithIdentity возвращает контекст с идентичностью вызывающего.
func ContextWithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext извлекает идентичность из контекста запроса.
// Если её нет, возвращается анонимная идентичность.
func IdentityFromContext(ctx context.Context) model.Identity {
	id, ok := ctx.Value(identityKey).(model.Identity)
	if !ok {
		return model.AnonymousIdentity()
	}
	return id
}
