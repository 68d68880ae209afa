package cart

import (
	"context"
	"net/http"

	"github.com/snapformstudio/storefront-backend/api/middleware"
	"github.com/snapformstudio/storefront-backend/api/responses"
	"github.com/snapformstudio/storefront-backend/api/validators"
	cartsvc "github.com/snapformstudio/storefront-backend/internal/cart"
	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
)

// Service is the slice of the cart store the handlers use.
type Service interface {
	AddItem(ctx context.Context, sessionKey string, input cartsvc.AddItemInput) (*cartsvc.Record, error)
	Cart(ctx context.Context, sessionKey string) (*cartsvc.Snapshot, error)
	CheckoutURL(ctx context.Context, sessionKey string) (string, error)
	Clear(ctx context.Context, sessionKey string) error
}

// AddItem adds one variant to the session's cart and returns the mirrored
// cart confirmed by the commerce backend.
func AddItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionKey, err := sessionKeyFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), sessionKey, toAddItemInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(record, cartsvc.StatusReady))
	}
}

// Fetch returns the session's mirrored cart for rehydrating the UI.
func Fetch(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionKey, err := sessionKeyFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Cart(r.Context(), sessionKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSnapshotView(snap))
	}
}

// CheckoutURL returns the cached checkout URL. The UI calls this only
// after an add resolves, so an empty value means no cart exists yet.
func CheckoutURL(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionKey, err := sessionKeyFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.CheckoutURL(r.Context(), sessionKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"checkout_url": url})
	}
}

// Clear drops the session's cart mirror.
func Clear(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionKey, err := sessionKeyFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), sessionKey); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func sessionKeyFromRequest(r *http.Request) (string, error) {
	sessionKey := middleware.SessionKeyFromContext(r.Context())
	if sessionKey == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return sessionKey, nil
}
