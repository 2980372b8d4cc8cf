package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter creates the HTTP router: Prometheus metrics from gatherer on
// /metrics and the read-only status API under /api/v1.
func NewRouter(e Engine, gatherer prometheus.Gatherer, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(Recovery(logger))
	r.Use(Logger(logger))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: logger,
	}))

	h := NewHandler(e, logger)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.CheckHealth)
		r.Get("/status", h.GetStatus)
		r.Get("/routes", h.GetRoutes)
		r.Get("/interfaces", h.GetInterfaces)
		r.Get("/tables", h.GetTables)
	})

	registerPprof(r)

	return r
}
