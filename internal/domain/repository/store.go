package repository

import "context"

// Store agrupa los repositorios de un driver.
type Store interface {
	Accounts() AccountRepository
	Roles() RoleRepository
	Organizations() OrganizationRepository
	Departments() DepartmentRepository
	Patients() PatientRepository

	// Ping verifica conectividad.
	Ping(ctx context.Context) error
	Close() error
}
