package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/labauth/internal/http/controllers/admin"
	mw "github.com/dropDatabas3/labauth/internal/http/middlewares"
)

// AdminRouterDeps contiene las dependencias para /api/v1/admin.
type AdminRouterDeps struct {
	Controllers *ctrl.Controllers
	RequireAuth mw.Middleware
}

// RegisterAdminRoutes registra la administración de la organización.
// Solo OWNER; los services vuelven a chequear el rol.
func RegisterAdminRoutes(r chi.Router, deps AdminRouterDeps) {
	c := deps.Controllers

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(deps.RequireAuth, mw.RequireOwner(), mw.WithNoStore())

		r.Get("/roles", c.Roles.List)
		r.Post("/roles", c.Roles.Create)
		r.Put("/roles/{id}", c.Roles.Update)
		r.Delete("/roles/{id}", c.Roles.Delete)

		r.Get("/staff", c.Staff.List)
		r.Post("/staff", c.Staff.Create)
		r.Put("/staff/{id}", c.Staff.Update)
		r.Delete("/staff/{id}", c.Staff.Delete)
		r.Post("/staff/{id}/toggle-active", c.Staff.ToggleActive)

		r.Get("/stats", c.Stats.Get)
	})
}
