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

// StaffController maneja /api/v1/admin/staff.
type StaffController struct {
	service svc.StaffService
}

// NewStaffController crea el controller.
func NewStaffController(s svc.StaffService) *StaffController {
	return &StaffController{service: s}
}

// List maneja GET /staff
func (c *StaffController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.staff.list"))

	staff, err := c.service.List(ctx, middlewares.MustGetCaller(ctx))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, staff)
}

// Create maneja POST /staff
func (c *StaffController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.staff.create"))

	var req dto.CreateStaffRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	view, err := c.service.Create(ctx, middlewares.MustGetCaller(ctx), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusCreated, view)
}

// Update maneja PUT /staff/{id}
func (c *StaffController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.staff.update"))

	var req dto.UpdateStaffRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	view, err := c.service.Update(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, view)
}

// Delete maneja DELETE /staff/{id}
func (c *StaffController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.staff.delete"))

	if err := c.service.Delete(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.Envelope{Success: true, Message: "staff member deleted"})
}

// ToggleActive maneja POST /staff/{id}/toggle-active
func (c *StaffController) ToggleActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("admin.staff.toggle"))

	view, err := c.service.ToggleActive(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, view)
}
