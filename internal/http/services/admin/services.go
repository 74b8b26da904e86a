// Package admin contiene los services de administración del tenant:
// roles custom, cuentas staff y estadísticas. Todas las operaciones son
// exclusivas del OWNER y operan dentro del scope del caller.
package admin

import (
	"context"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/security/password"
)

// Invalidator descarta entradas del cache de roles tras un cambio.
// auth.Resolver lo implementa.
type Invalidator interface {
	InvalidateRole(ctx context.Context, tenantID int64, roleID string)
	InvalidateAccount(ctx context.Context, tenantID int64, accountID string)
}

// Deps contiene las dependencias para crear los services admin.
type Deps struct {
	Store       repository.Store
	Hasher      password.Hasher
	Policy      password.Policy
	Invalidator Invalidator // nil = sin cache que invalidar
	Metrics     *metrics.Metrics
}

// Services agrupa todos los services del dominio admin.
type Services struct {
	Roles RoleService
	Staff StaffService
	Stats StatsService
}

// NewServices crea el agregador de services admin.
func NewServices(d Deps) Services {
	if d.Invalidator == nil {
		d.Invalidator = noopInvalidator{}
	}
	return Services{
		Roles: NewRoleService(d),
		Staff: NewStaffService(d),
		Stats: NewStatsService(d.Store),
	}
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateRole(context.Context, int64, string)    {}
func (noopInvalidator) InvalidateAccount(context.Context, int64, string) {}
