// Package server arma el handler HTTP a partir de la configuración y corre
// el servidor con apagado ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/labauth/internal/cache"
	"github.com/dropDatabas3/labauth/internal/config"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	adminctrl "github.com/dropDatabas3/labauth/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/labauth/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/labauth/internal/http/controllers/health"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	labctrl "github.com/dropDatabas3/labauth/internal/http/controllers/lab"
	"github.com/dropDatabas3/labauth/internal/http/router"
	adminsvc "github.com/dropDatabas3/labauth/internal/http/services/admin"
	authsvc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	labsvc "github.com/dropDatabas3/labauth/internal/http/services/lab"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/rate"
	"github.com/dropDatabas3/labauth/internal/security/password"
	"github.com/dropDatabas3/labauth/internal/store"
)

// Options permite inyectar colaboradores (tests). Los campos vacíos se
// construyen desde la configuración.
type Options struct {
	Store    repository.Store
	Redis    *redis.Client
	Hasher   password.Hasher
	Registry *prometheus.Registry
	Now      func() time.Time
	Version  string
}

// App es el resultado del wiring.
type App struct {
	Handler http.Handler
	Store   repository.Store
	Auth    authsvc.Services
	Metrics *metrics.Metrics

	closers []func() error
}

// Close libera store, cache y redis en orden inverso.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build construye todas las dependencias y el router.
func Build(ctx context.Context, cfg *config.Config, opts Options) (_ *App, err error) {
	log := logger.L().With(logger.Component("wiring"))
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	// 1. Store
	st := opts.Store
	if st == nil {
		st, err = openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, st.Close)
	}
	app.Store = st

	// 2. Redis (compartido por cache y rate limiter)
	rdb := opts.Redis
	if rdb == nil && cfg.Cache.Kind == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		app.closers = append(app.closers, rdb.Close)
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err = rdb.Ping(pctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	// 3. Cache de roles
	var roleCache cache.Client
	if rdb != nil {
		roleCache = cache.FromRedis(rdb, cfg.Cache.Redis.Prefix, cfg.Cache.RoleTTL)
	} else {
		roleCache = cache.NewMemory(cfg.Cache.Redis.Prefix, cfg.Cache.RoleTTL)
	}
	app.closers = append(app.closers, roleCache.Close)

	// 4. Login rate limiter
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if rdb != nil {
			limiter = rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		}
	}

	// 5. Métricas
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.Metrics = m

	// 6. Tokens y contraseñas
	issuer, err := jwtx.New(jwtx.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		RefreshTTL: cfg.JWT.RefreshTTL,
		Now:        opts.Now,
	})
	if err != nil {
		return nil, err
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = password.NewHasher(password.Default)
	}
	policy, err := passwordPolicy(cfg)
	if err != nil {
		return nil, err
	}

	// 7. Services
	authServices := authsvc.NewServices(authsvc.Deps{
		Store:   st,
		Issuer:  issuer,
		Hasher:  hasher,
		Policy:  policy,
		Limiter: limiter,
		Cache:   roleCache,
		RoleTTL: cfg.Cache.RoleTTL,
		Metrics: m,
	})
	app.Auth = authServices
	adminServices := adminsvc.NewServices(adminsvc.Deps{
		Store:       st,
		Hasher:      hasher,
		Policy:      policy,
		Invalidator: authServices.Resolver,
		Metrics:     m,
	})
	labServices := labsvc.NewServices(labsvc.Deps{Store: st, Metrics: m})

	// 8. Controllers + router
	cookie := authctrl.CookieConfig{
		Name:     cfg.Auth.Cookie.Name,
		Domain:   cfg.Auth.Cookie.Domain,
		Secure:   cfg.Auth.Cookie.Secure,
		SameSite: authctrl.ParseSameSite(cfg.Auth.Cookie.SameSite),
		MaxAge:   cfg.JWT.RefreshTTL,
	}
	trusted, err := helpers.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}
	checks := map[string]healthctrl.Pinger{"store": st}
	if rdb != nil {
		checks["cache"] = roleCache
	}

	app.Handler = router.New(router.Deps{
		Auth:               authctrl.NewControllers(authServices, cookie),
		Admin:              adminctrl.NewControllers(adminServices),
		Lab:                labctrl.NewControllers(labServices),
		Health:             healthctrl.NewController(opts.Version, checks),
		Guard:              authServices.Guard,
		Resolver:           authServices.Resolver,
		Metrics:            m,
		RateLimiter:        limiter,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TenantHintHeader:   cfg.Auth.TenantHintHeader,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		TrustedProxies:     trusted,
	})

	log.Info("wiring ready",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Any("rate_limit", cfg.Rate.Enabled),
	)
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	sc := store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN}
	sc.Postgres.MaxOpenConns = cfg.Storage.Postgres.MaxOpenConns
	sc.Postgres.MaxIdleConns = cfg.Storage.Postgres.MaxIdleConns
	sc.Postgres.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime
	return store.Open(ctx, sc)
}

func passwordPolicy(cfg *config.Config) (password.Policy, error) {
	pp := cfg.Security.PasswordPolicy
	bl, err := password.LoadBlacklist(cfg.Security.PasswordBlacklistPath)
	if err != nil {
		return password.Policy{}, fmt.Errorf("password blacklist: %w", err)
	}
	return password.Policy{
		MinLength:     pp.MinLength,
		RequireUpper:  pp.RequireUpper,
		RequireLower:  pp.RequireLower,
		RequireDigit:  pp.RequireDigit,
		RequireSymbol: pp.RequireSymbol,
		Blacklist:     bl,
	}, nil
}
