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

type PatientsController struct {
	service svc.PatientService
}

func (c *PatientsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.patients.list"))

	out, err := c.service.List(ctx, middlewares.MustGetCaller(ctx))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

func (c *PatientsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.patients.get"))

	out, err := c.service.Get(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteData(w, http.StatusOK, out)
}

func (c *PatientsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.patients.create"))

	var req dto.PatientRequest
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

func (c *PatientsController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.patients.update"))

	var req dto.PatientRequest
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

func (c *PatientsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("lab.patients.delete"))

	if err := c.service.Delete(ctx, middlewares.MustGetCaller(ctx), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.Envelope{Success: true, Message: "patient deleted"})
}
