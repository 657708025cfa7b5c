package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/productaware/ecoselect/internal/catalog"
	"github.com/productaware/ecoselect/internal/events"
	"github.com/productaware/ecoselect/internal/scoring"
)

func NewRouter(store catalog.Store, model *scoring.Model, pub events.Publisher, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	materials := NewMaterialsHandler(store, model, pub, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/filters", materials.Filters)
		r.Post("/recommend", materials.Recommend)
		r.Get("/material/{id}", materials.Detail)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
