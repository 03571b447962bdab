// Package middleware HTTP-мидлвари: идентификация пользователя и метрики.
package middleware

import (
	"context"
	"net/http"

	"github.com/bbconnect/BBC-BookingService/internal/api/handlers"
)

// HeaderUserID заголовок с ID пользователя, проставляется API-шлюзом
// после проверки токена
const HeaderUserID = "X-User-ID"

type ctxKey int

const userIDKey ctxKey = iota

// Auth извлекает ID пользователя из заголовка и кладет его в контекст.
// Запросы без заголовка отклоняются с 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			handlers.RespondUnauthorized(w, "отсутствует ID пользователя")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
