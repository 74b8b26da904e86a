// Package auth contiene los services de sesión: login, refresh, logout,
// signup, perfil propio y la resolución del caller de cada request.
package auth

import (
	"time"

	"github.com/dropDatabas3/labauth/internal/cache"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/rate"
	"github.com/dropDatabas3/labauth/internal/security/password"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Store   repository.Store
	Issuer  *jwtx.Issuer
	Hasher  password.Hasher
	Policy  password.Policy
	Limiter rate.Limiter  // nil = sin rate limit de login
	Cache   cache.Client  // nil = cache en memoria
	RoleTTL time.Duration // TTL de la matriz cacheada
	Metrics *metrics.Metrics
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Guard    Guard
	Resolver Resolver
	Session  SessionService
	Signup   SignupService
	Profile  ProfileService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	if d.Cache == nil {
		d.Cache = cache.NewMemory("labauth:", d.RoleTTL)
	}
	return Services{
		Guard:    NewGuard(d.Issuer, d.Metrics),
		Resolver: NewResolver(ResolverDeps{Store: d.Store, Cache: d.Cache, TTL: d.RoleTTL, Metrics: d.Metrics}),
		Session: NewSessionService(SessionDeps{
			Store:   d.Store,
			Issuer:  d.Issuer,
			Hasher:  d.Hasher,
			Limiter: d.Limiter,
			Metrics: d.Metrics,
		}),
		Signup: NewSignupService(SignupDeps{
			Store:  d.Store,
			Issuer: d.Issuer,
			Hasher: d.Hasher,
			Policy: d.Policy,
		}),
		Profile: NewProfileService(d.Store),
	}
}
