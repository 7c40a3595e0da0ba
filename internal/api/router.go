// Package api serves recipe conversion over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hammamikhairi/ottomeasure/internal/logger"
	"github.com/hammamikhairi/ottomeasure/internal/metrics"
	"github.com/hammamikhairi/ottomeasure/internal/viewer"
)

// Handler holds the dependencies of every endpoint.
type Handler struct {
	engine *viewer.Engine
	log    *logger.Logger
}

// NewHandler creates the API handler.
func NewHandler(engine *viewer.Engine, log *logger.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// Router builds the chi router with all routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.instrument)

		r.Get("/recipes", h.ListRecipes)
		r.Get("/recipes/{id}", h.GetRecipe)
		r.Post("/convert", h.Convert)
		r.Post("/detect", h.Detect)
	})

	return r
}

// instrument records request counts and latency per route pattern.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, pattern, strconv.Itoa(status), time.Since(start))
		h.log.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, status, time.Since(start))
	})
}
