package admin

import (
	"net/http"

	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/labauth/internal/http/services/admin"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// StatsController expone los contadores del panel.
type StatsController struct {
	service svc.StatsService
}

// NewStatsController crea el controller.
func NewStatsController(s svc.StatsService) *StatsController {
	return &StatsController{service: s}
}

// Get maneja GET /stats
func (c *StatsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.stats"))

	stats, err := c.service.Get(ctx, middlewares.MustGetCaller(ctx))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, stats)
}
