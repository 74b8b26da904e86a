package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/labauth/internal/http/controllers/auth"
	mw "github.com/dropDatabas3/labauth/internal/http/middlewares"
	"github.com/dropDatabas3/labauth/internal/rate"
)

// AuthRouterDeps contiene las dependencias para las rutas /api/auth.
type AuthRouterDeps struct {
	Controllers *ctrl.Controllers
	RequireAuth mw.Middleware
	RateLimiter rate.Limiter
}

// RegisterAuthRoutes registra signup, login, refresh, logout, me y profile.
// Login aplica su propio rate limit por IP+email dentro del service.
func RegisterAuthRoutes(r chi.Router, deps AuthRouterDeps) {
	c := deps.Controllers
	limited := mw.WithRateLimit(mw.RateLimitConfig{Limiter: deps.RateLimiter})

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// públicas
		r.With(limited).Post("/signup", c.Signup.Signup)
		r.Post("/login", c.Session.Login)
		r.With(limited).Post("/refresh", c.Session.Refresh)

		// autenticadas
		r.Group(func(r chi.Router) {
			r.Use(deps.RequireAuth)
			r.Post("/logout", c.Session.Logout)
			r.Get("/me", c.Profile.Me)
			r.Post("/profile", c.Profile.Update)
		})
	})
}
