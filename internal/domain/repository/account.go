package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// Account es una cuenta de la organización (owner, staff o usuario genérico).
type Account struct {
	ID           string
	TenantID     int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	ProfileImage string
	Active       bool
	Role         types.CoarseRole
	// RoleID referencia el rol custom. Vacío salvo para STAFF.
	RoleID string
	// RefreshMarker vacío significa sesión cerrada.
	RefreshMarker string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName concatena nombre y apellido.
func (a Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// CreateAccountInput contiene los datos para crear una cuenta.
type CreateAccountInput struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         types.CoarseRole
	RoleID       string
	Active       bool
}

// UpdateStaffInput contiene los campos editables de una cuenta staff.
// nil = sin cambios.
type UpdateStaffInput struct {
	Email        *string
	FirstName    *string
	LastName     *string
	RoleID       *string
	PasswordHash *string
	Active       *bool
}

// ProfileInput son los únicos campos que una cuenta puede editar de sí misma.
type ProfileInput struct {
	FirstName    *string
	LastName     *string
	ProfileImage *string
}

// AccountFilter filtra conteos. Campos cero = sin filtro.
type AccountFilter struct {
	Roles  []types.CoarseRole
	RoleID string
	Active *bool
}

// AccountRepository define operaciones sobre cuentas.
type AccountRepository interface {
	// ─── Camino de sesión ───
	// La identidad viene de credenciales o de un token verificado, no de un caller.

	// GetByEmail busca por email (único global).
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID busca por id.
	GetByID(ctx context.Context, id string) (*Account, error)

	// SetRefreshMarker reemplaza el marcador de sesión. "" cierra la sesión.
	SetRefreshMarker(ctx context.Context, id, marker string) error

	// EmailExists verifica unicidad global de email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// ─── Tenant-scoped ───

	// Create crea una cuenta en el tenant del scope.
	Create(ctx context.Context, scope types.Scope, in CreateAccountInput) (*Account, error)

	// Get obtiene una cuenta del tenant.
	Get(ctx context.Context, scope types.Scope, id string) (*Account, error)

	// ClearRefreshMarker cierra la sesión de una cuenta del tenant.
	ClearRefreshMarker(ctx context.Context, scope types.Scope, id string) error

	// ListStaff lista cuentas STAFF y OWNER del tenant, más nuevas primero.
	ListStaff(ctx context.Context, scope types.Scope) ([]Account, error)

	// UpdateStaff edita una cuenta que no sea OWNER.
	UpdateStaff(ctx context.Context, scope types.Scope, id string, in UpdateStaffInput) (*Account, error)

	// DeleteStaff elimina una cuenta que no sea OWNER.
	DeleteStaff(ctx context.Context, scope types.Scope, id string) error

	// UpdateProfile edita nombre, apellido e imagen.
	UpdateProfile(ctx context.Context, scope types.Scope, id string, in ProfileInput) (*Account, error)

	// Count cuenta cuentas del tenant según el filtro.
	Count(ctx context.Context, scope types.Scope, f AccountFilter) (int, error)
}
