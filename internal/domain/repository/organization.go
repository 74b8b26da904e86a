package repository

import (
	"context"
	"time"
)

// Organization es el tenant. Su id es el que viaja en los tokens.
type Organization struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// OrganizationRepository crea y elimina tenants.
type OrganizationRepository interface {
	Create(ctx context.Context, name string) (*Organization, error)
	Get(ctx context.Context, id int64) (*Organization, error)
	Delete(ctx context.Context, id int64) error
}
