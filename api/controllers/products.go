package controllers

import (
	"net/http"

	"github.com/snapformstudio/storefront-backend/api/responses"
	"github.com/snapformstudio/storefront-backend/api/validators"
	"github.com/snapformstudio/storefront-backend/internal/catalog"
	"github.com/snapformstudio/storefront-backend/pkg/config"
	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
)

// ListProducts serves the normalized catalog. The storefront landing page
// asks for a single product; count is capped by config.
func ListProducts(svc catalog.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		count, err := validators.ParseQueryInt(r, "count", cfg.DefaultCount, 1, cfg.MaxCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.FetchProducts(r.Context(), count)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}
