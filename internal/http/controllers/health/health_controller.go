// Package health expone el endpoint de liveness/readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// Pinger es lo mínimo que necesita el health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type response struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}

// Controller responde GET /healthz.
type Controller struct {
	checks  map[string]Pinger
	version string
	timeout time.Duration
}

// NewController crea el controller. Un Pinger nil se ignora.
func NewController(version string, checks map[string]Pinger) *Controller {
	c := &Controller{checks: map[string]Pinger{}, version: version, timeout: 2 * time.Second}
	for name, p := range checks {
		if p != nil {
			c.checks[name] = p
		}
	}
	return c
}

func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	res := response{Status: "ok", Checks: map[string]string{}, Version: c.version}
	for name, p := range c.checks {
		if err := p.Ping(ctx); err != nil {
			logger.From(ctx).Warn("health check failed", logger.Component(name), logger.Err(err))
			res.Checks[name] = "down"
			res.Status = "degraded"
			continue
		}
		res.Checks[name] = "up"
	}

	status := http.StatusOK
	if res.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, res)
}
