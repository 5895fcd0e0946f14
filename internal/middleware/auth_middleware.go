package middleware

import (
	"context"
	"net/http"
	"strings"

	"mediameter/internal/auth"
	"mediameter/internal/config"
	"mediameter/internal/utils"
)

// ContextKey is the type for values stored in the request context
type ContextKey string

// Context keys for storing authentication data
const (
	UserIDKey ContextKey = "userID"
)

// UserAuthMiddleware validates the Bearer identity token and embeds
// the user ID into the request context.
func UserAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			userID, err := auth.DecodeUserToken(tokenString, cfg)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ServiceKeyMiddleware gates pipeline endpoints behind the shared
// service key. Only backend workers hold this key; end-user tokens
// must not reach reserve/debit/release.
func ServiceKeyMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.ServiceKeyHash == "" {
				utils.RespondWithError(w, http.StatusForbidden, "Pipeline endpoints are disabled")
				return
			}

			key := r.Header.Get("X-Service-Key")
			if key == "" || !auth.VerifyServiceKey(cfg.ServiceKeyHash, key) {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid service key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID retrieves the authenticated user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}
