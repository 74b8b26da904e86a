package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/labauth/internal/cache"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// Resolver completa el Caller de un STAFF con su rol vigente.
// OWNER y GENERIC_USER pasan sin cambios.
type Resolver interface {
	Resolve(ctx context.Context, c types.Caller) (types.Caller, error)
	// InvalidateRole descarta la matriz cacheada de un rol.
	InvalidateRole(ctx context.Context, tenantID int64, roleID string)
	// InvalidateAccount descarta la asignación de rol cacheada de una cuenta.
	InvalidateAccount(ctx context.Context, tenantID int64, accountID string)
}

// ResolverDeps contiene las dependencias del resolver.
type ResolverDeps struct {
	Store   repository.Store
	Cache   cache.Client
	TTL     time.Duration
	Metrics *metrics.Metrics
}

type resolver struct {
	deps  ResolverDeps
	group singleflight.Group
}

// NewResolver crea el resolver de roles.
func NewResolver(deps ResolverDeps) Resolver {
	return &resolver{deps: deps}
}

type cachedAccount struct {
	RoleID string `json:"roleId"`
	Active bool   `json:"active"`
}

type cachedRole struct {
	Found  bool            `json:"found"`
	Name   string          `json:"name,omitempty"`
	Matrix json.RawMessage `json:"matrix,omitempty"`
}

func accountKey(tid int64, id string) string { return fmt.Sprintf("acct:%d:%s", tid, id) }
func roleKey(tid int64, id string) string    { return fmt.Sprintf("role:%d:%s", tid, id) }

func (r *resolver) Resolve(ctx context.Context, c types.Caller) (types.Caller, error) {
	if c.Role != types.RoleStaff {
		return c, nil
	}
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.resolver"),
		logger.Op("Resolve"),
		logger.AccountID(c.AccountID),
	)

	acc, err := r.account(ctx, c)
	if err != nil {
		return types.Caller{}, err
	}
	// Sin rol o cuenta desactivada: matriz nil, todo denegado.
	if !acc.Active || acc.RoleID == "" {
		log.Debug("staff without effective role", logger.Reason("inactive_or_unassigned"))
		return c, nil
	}

	role, err := r.role(ctx, c.Scope(), acc.RoleID)
	if err != nil {
		return types.Caller{}, err
	}
	if !role.Found {
		log.Debug("staff role missing", logger.Reason("role_not_found"))
		return c, nil
	}
	m, err := types.ParseMatrix(role.Matrix)
	if err != nil {
		// matriz corrupta: se deniega todo
		log.Warn("cached role matrix invalid", logger.Err(err))
		return c, nil
	}
	c.RoleID = acc.RoleID
	c.RoleName = role.Name
	c.Matrix = m
	return c, nil
}

func (r *resolver) account(ctx context.Context, c types.Caller) (cachedAccount, error) {
	key := accountKey(c.TenantID, c.AccountID)
	var out cachedAccount
	if r.lookup(ctx, key, &out) {
		return out, nil
	}

	// el fill es compartido: no depende de la cancelación del primer caller
	fctx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (any, error) {
		acc, err := r.deps.Store.Accounts().Get(fctx, c.Scope(), c.AccountID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrUnauthenticated
			}
			return nil, fmt.Errorf("load account: %w", err)
		}
		ca := cachedAccount{RoleID: acc.RoleID, Active: acc.Active}
		r.store(fctx, key, ca)
		return ca, nil
	})
	if err != nil {
		return cachedAccount{}, err
	}
	return v.(cachedAccount), nil
}

func (r *resolver) role(ctx context.Context, scope types.Scope, roleID string) (cachedRole, error) {
	key := roleKey(scope.TenantID(), roleID)
	var out cachedRole
	if r.lookup(ctx, key, &out) {
		return out, nil
	}

	fctx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (any, error) {
		role, err := r.deps.Store.Roles().Get(fctx, scope, roleID)
		if err != nil {
			if repository.IsNotFound(err) {
				cr := cachedRole{Found: false}
				r.store(fctx, key, cr)
				return cr, nil
			}
			return nil, fmt.Errorf("load role: %w", err)
		}
		b, err := json.Marshal(role.Permissions)
		if err != nil {
			return nil, fmt.Errorf("encode matrix: %w", err)
		}
		cr := cachedRole{Found: true, Name: role.Name, Matrix: b}
		r.store(fctx, key, cr)
		return cr, nil
	})
	if err != nil {
		return cachedRole{}, err
	}
	return v.(cachedRole), nil
}

// lookup devuelve true en hit. Errores del cache cuentan como miss.
func (r *resolver) lookup(ctx context.Context, key string, dst any) bool {
	b, err := r.deps.Cache.Get(ctx, key)
	if err != nil {
		if !cache.IsNotFound(err) {
			logger.From(ctx).Warn("role cache get failed", logger.Component("auth.resolver"), logger.Err(err))
		}
		r.deps.Metrics.RoleCache(false)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		r.deps.Metrics.RoleCache(false)
		return false
	}
	r.deps.Metrics.RoleCache(true)
	return true
}

func (r *resolver) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.deps.Cache.Set(ctx, key, b, r.deps.TTL); err != nil {
		logger.From(ctx).Warn("role cache set failed", logger.Component("auth.resolver"), logger.Err(err))
	}
}

func (r *resolver) InvalidateRole(ctx context.Context, tenantID int64, roleID string) {
	if err := r.deps.Cache.Delete(ctx, roleKey(tenantID, roleID)); err != nil {
		logger.From(ctx).Warn("role cache delete failed", logger.Component("auth.resolver"), logger.Err(err))
	}
}

func (r *resolver) InvalidateAccount(ctx context.Context, tenantID int64, accountID string) {
	if err := r.deps.Cache.Delete(ctx, accountKey(tenantID, accountID)); err != nil {
		logger.From(ctx).Warn("role cache delete failed", logger.Component("auth.resolver"), logger.Err(err))
	}
}
