package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/labauth/internal/http/controllers/health"
	"github.com/dropDatabas3/labauth/internal/metrics"
)

// HealthRouterDeps contiene las dependencias para health y métricas.
type HealthRouterDeps struct {
	Controller *ctrl.Controller
	Metrics    *metrics.Metrics
}

// RegisterHealthRoutes registra /healthz y /metrics. Ambos públicos.
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	r.Get("/healthz", deps.Controller.Healthz)
	if deps.Metrics != nil {
		r.Method("GET", "/metrics", deps.Metrics.Handler())
	}
}
