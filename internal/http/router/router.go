// Package router arma el árbol de rutas chi con sus cadenas de middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/dropDatabas3/labauth/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/labauth/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/labauth/internal/http/controllers/health"
	labctrl "github.com/dropDatabas3/labauth/internal/http/controllers/lab"
	httperrors "github.com/dropDatabas3/labauth/internal/http/errors"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	mw "github.com/dropDatabas3/labauth/internal/http/middlewares"
	authsvc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/rate"
)

// Deps contiene todo lo que necesita el router.
type Deps struct {
	Auth   *authctrl.Controllers
	Admin  *adminctrl.Controllers
	Lab    *labctrl.Controllers
	Health *healthctrl.Controller

	Guard    authsvc.Guard
	Resolver authsvc.Resolver

	Metrics     *metrics.Metrics
	RateLimiter rate.Limiter // nil = sin rate limit en signup/refresh

	CORSAllowedOrigins []string
	TenantHintHeader   string
	MaxBodyBytes       int64
	TrustedProxies     helpers.TrustedProxies
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Orden: recover primero para atrapar panics de todo lo demás.
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithLogging(mw.LoggingConfig{Metrics: d.Metrics, TenantHintHeader: d.TenantHintHeader}),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSAllowedOrigins, d.TenantHintHeader),
		mw.WithMaxBody(d.MaxBodyBytes),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	requireAuth := mw.RequireAuth(d.Guard, d.Resolver)

	if d.Health != nil {
		RegisterHealthRoutes(r, HealthRouterDeps{Controller: d.Health, Metrics: d.Metrics})
	}
	if d.Auth != nil {
		RegisterAuthRoutes(r, AuthRouterDeps{
			Controllers: d.Auth,
			RequireAuth: requireAuth,
			RateLimiter: d.RateLimiter,
		})
	}
	if d.Admin != nil {
		RegisterAdminRoutes(r, AdminRouterDeps{Controllers: d.Admin, RequireAuth: requireAuth})
	}
	if d.Lab != nil {
		RegisterLabRoutes(r, LabRouterDeps{Controllers: d.Lab, RequireAuth: requireAuth})
	}
	return r
}
