package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// DefaultDepartmentIcon se usa cuando no se envía icono.
const DefaultDepartmentIcon = "🏥"

// Department agrupa tests del laboratorio.
type Department struct {
	ID          string
	TenantID    int64
	Name        string
	Description string
	Icon        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DepartmentInput: en update, nil = sin cambios.
type DepartmentInput struct {
	Name        *string
	Description *string
	Icon        *string
}

// DepartmentRepository define operaciones sobre departamentos. Nombre único por tenant.
type DepartmentRepository interface {
	Create(ctx context.Context, scope types.Scope, in DepartmentInput) (*Department, error)
	Get(ctx context.Context, scope types.Scope, id string) (*Department, error)
	List(ctx context.Context, scope types.Scope) ([]Department, error)
	Update(ctx context.Context, scope types.Scope, id string, in DepartmentInput) (*Department, error)
	Delete(ctx context.Context, scope types.Scope, id string) error
}
