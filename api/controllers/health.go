package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/snapformstudio/storefront-backend/api/responses"
	"github.com/snapformstudio/storefront-backend/pkg/config"
	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
)

// Pinger is implemented by the session backend clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SnapForm-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the session backend answers a ping.
// The memory backend has nothing to ping and passes a nil Pinger.
func HealthReady(cfg *config.Config, logg *logger.Logger, sessionBackend Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SnapForm-Env", cfg.App.Env)

		if sessionBackend != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := sessionBackend.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeInternal, err, "session backend unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
