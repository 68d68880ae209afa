package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/snapformstudio/storefront-backend/pkg/config"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
)

// SessionContext reads the session cookie, minting a fresh key when the
// browser has none, so every request downstream carries a session key.
// The same key across reloads is what lets the cart mirror rehydrate.
func SessionContext(cfg config.SessionConfig, secure bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionKey := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				sessionKey = cookie.Value
			}
			if sessionKey == "" {
				sessionKey = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionKey,
					Path:     "/",
					MaxAge:   int(cfg.TTL / time.Second),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionKey(r.Context(), sessionKey)
			if logg != nil {
				ctx = logg.WithSessionKey(ctx, sessionKey)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
