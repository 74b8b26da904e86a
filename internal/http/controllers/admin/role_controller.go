package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/labauth/internal/http/dto/admin"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/labauth/internal/http/services/admin"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// RolesController maneja /api/v1/admin/roles.
type RolesController struct {
	service svc.RoleService
}

// NewRolesController crea el controller.
func NewRolesController(s svc.RoleService) *RolesController {
	return &RolesController{service: s}
}

// List maneja GET /roles
func (c *RolesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.roles.list"))

	roles, err := c.service.List(ctx, middlewares.MustGetCaller(ctx))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, roles)
}

// Create maneja POST /roles
func (c *RolesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.roles.create"))

	var req dto.RoleRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	role, err := c.service.Create(ctx, middlewares.MustGetCaller(ctx), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusCreated, role)
}

// Update maneja PUT /roles/{id}
func (c *RolesController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.roles.update"))

	var req dto.RoleRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	role, err := c.service.Update(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, role)
}

// Delete maneja DELETE /roles/{id}
func (c *RolesController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.roles.delete"))

	if err := c.service.Delete(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.Envelope{Success: true, Message: "staff role deleted"})
}
