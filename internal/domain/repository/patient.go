package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// Patient es el registro mínimo de paciente.
type Patient struct {
	ID        string
	TenantID  int64
	FirstName string
	LastName  string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PatientInput: en update, nil = sin cambios.
type PatientInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

// PatientRepository define operaciones sobre pacientes.
type PatientRepository interface {
	Create(ctx context.Context, scope types.Scope, in PatientInput) (*Patient, error)
	Get(ctx context.Context, scope types.Scope, id string) (*Patient, error)
	List(ctx context.Context, scope types.Scope) ([]Patient, error)
	Update(ctx context.Context, scope types.Scope, id string, in PatientInput) (*Patient, error)
	Delete(ctx context.Context, scope types.Scope, id string) error
}
