package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/labauth/internal/http/controllers/lab"
	mw "github.com/dropDatabas3/labauth/internal/http/middlewares"
)

// LabRouterDeps contiene las dependencias para las entidades del laboratorio.
type LabRouterDeps struct {
	Controllers *ctrl.Controllers
	RequireAuth mw.Middleware
}

// RegisterLabRoutes registra departamentos y pacientes. El permiso por
// entidad/acción lo decide cada service.
func RegisterLabRoutes(r chi.Router, deps LabRouterDeps) {
	c := deps.Controllers

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.RequireAuth)

		r.Get("/departments", c.Departments.List)
		r.Post("/departments", c.Departments.Create)
		r.Put("/departments/{id}", c.Departments.Update)
		r.Delete("/departments/{id}", c.Departments.Delete)

		r.Get("/patients", c.Patients.List)
		r.Post("/patients", c.Patients.Create)
		r.Get("/patients/{id}", c.Patients.Get)
		r.Put("/patients/{id}", c.Patients.Update)
		r.Delete("/patients/{id}", c.Patients.Delete)
	})
}
