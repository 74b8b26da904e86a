package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// Role es un rol custom con su matriz de permisos.
type Role struct {
	ID          string
	TenantID    int64
	Name        string
	Permissions types.Matrix
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleInput representa los datos para crear/actualizar un rol.
// En update, Name vacío y Permissions nil significan sin cambios.
type RoleInput struct {
	Name        string
	Permissions types.Matrix
}

// RoleRepository define operaciones sobre roles. Nombre único por tenant.
type RoleRepository interface {
	Create(ctx context.Context, scope types.Scope, in RoleInput) (*Role, error)
	Get(ctx context.Context, scope types.Scope, id string) (*Role, error)
	List(ctx context.Context, scope types.Scope) ([]Role, error)
	Update(ctx context.Context, scope types.Scope, id string, in RoleInput) (*Role, error)
	Delete(ctx context.Context, scope types.Scope, id string) error
	Count(ctx context.Context, scope types.Scope) (int, error)
}
