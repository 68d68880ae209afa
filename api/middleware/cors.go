package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/snapformstudio/storefront-backend/pkg/config"
)

// CORS returns middleware that applies the storefront's allowed origin
// policy. Origins come from config so deployments can add their domains.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
