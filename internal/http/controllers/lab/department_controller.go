package lab

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/labauth/internal/http/dto/lab"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/labauth/internal/http/services/lab"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

type DepartmentsController struct {
	service svc.DepartmentService
}

func (c *DepartmentsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.departments.list"))

	out, err := c.service.List(ctx, middlewares.MustGetCaller(ctx))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

func (c *DepartmentsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.departments.create"))

	var req dto.DepartmentRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	out, err := c.service.Create(ctx, middlewares.MustGetCaller(ctx), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusCreated, out)
}

func (c *DepartmentsController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.departments.update"))

	var req dto.DepartmentRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	out, err := c.service.Update(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

func (c *DepartmentsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.departments.delete"))

	if err := c.service.Delete(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.Envelope{Success: true, Message: "department deleted"})
}
