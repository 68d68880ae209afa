package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapformstudio/storefront-backend/api/controllers"
	cartcontrollers "github.com/snapformstudio/storefront-backend/api/controllers/cart"
	"github.com/snapformstudio/storefront-backend/api/middleware"
	"github.com/snapformstudio/storefront-backend/internal/catalog"
	"github.com/snapformstudio/storefront-backend/pkg/config"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessionBackend controllers.Pinger,
	catalogService catalog.Service,
	cartService cartcontrollers.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, sessionBackend))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionContext(cfg.Session, cfg.App.IsProd(), logg))

		r.Get("/products", controllers.ListProducts(catalogService, cfg.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
			r.Post("/items", cartcontrollers.AddItem(cartService, logg))
			r.Get("/checkout-url", cartcontrollers.CheckoutURL(cartService, logg))
		})
	})

	return r
}
