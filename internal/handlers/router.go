package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the API, health and metrics routes behind CORS.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze-book", h.HandleAnalyze)
		r.Post("/rate-book", h.HandleRate)
		r.Post("/describe-book", h.HandleDescribe)
	})

	r.Get("/healthcheck", h.HandleHealthcheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
