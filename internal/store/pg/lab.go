package pg

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// ─── Departments ───

type deptRepo struct{ db *sql.DB }

const deptCols = `id, tenant_id, name, description, icon, created_at, updated_at`

func scanDept(row rowScanner) (*repository.Department, error) {
	var d repository.Department
	if err := row.Scan(&d.ID, &d.TenantID, &d.Name, &d.Description, &d.Icon, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (r deptRepo) Create(ctx context.Context, scope types.Scope, in repository.DepartmentInput) (*repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	name := nullStr(in.Name)
	if !name.Valid || name.String == "" {
		return nil, repository.ErrInvalidInput
	}
	icon := nullStr(in.Icon)
	if icon.String == "" {
		icon = sql.NullString{String: repository.DefaultDepartmentIcon, Valid: true}
	}
	q := `insert into departments (id, tenant_id, name, description, icon) values ($1, $2, $3, $4, $5)
		returning ` + deptCols
	return scanDept(r.db.QueryRowContext(ctx, q,
		uuid.NewString(), scope.TenantID(), name.String, nullStr(in.Description).String, icon.String))
}

func (r deptRepo) Get(ctx context.Context, scope types.Scope, id string) (*repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + deptCols + ` from departments where id = $1 and tenant_id = $2`
	return scanDept(r.db.QueryRowContext(ctx, q, id, scope.TenantID()))
}

func (r deptRepo) List(ctx context.Context, scope types.Scope) ([]repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + deptCols + ` from departments where tenant_id = $1 order by name`
	rows, err := r.db.QueryContext(ctx, q, scope.TenantID())
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.Department, 0)
	for rows.Next() {
		d, err := scanDept(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r deptRepo) Update(ctx context.Context, scope types.Scope, id string, in repository.DepartmentInput) (*repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, repository.ErrInvalidInput
	}
	q := `update departments set
			name        = coalesce($3, name),
			description = coalesce($4, description),
			icon        = coalesce($5, icon),
			updated_at  = now()
		where id = $1 and tenant_id = $2
		returning ` + deptCols
	return scanDept(r.db.QueryRowContext(ctx, q,
		id, scope.TenantID(), nullStr(in.Name), nullStr(in.Description), nullStr(in.Icon)))
}

func (r deptRepo) Delete(ctx context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	const q = `delete from departments where id = $1 and tenant_id = $2`
	return affected(r.db.ExecContext(ctx, q, id, scope.TenantID()))
}

// ─── Patients ───

type patientRepo struct{ db *sql.DB }

const patientCols = `id, tenant_id, first_name, last_name, phone, email, created_at, updated_at`

func scanPatient(row rowScanner) (*repository.Patient, error) {
	var p repository.Patient
	if err := row.Scan(&p.ID, &p.TenantID, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r patientRepo) Create(ctx context.Context, scope types.Scope, in repository.PatientInput) (*repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	first := nullStr(in.FirstName)
	if first.String == "" {
		return nil, repository.ErrInvalidInput
	}
	q := `insert into patients (id, tenant_id, first_name, last_name, phone, email) values ($1, $2, $3, $4, $5, $6)
		returning ` + patientCols
	return scanPatient(r.db.QueryRowContext(ctx, q,
		uuid.NewString(), scope.TenantID(), first.String,
		nullStr(in.LastName).String, nullStr(in.Phone).String, normEmail(nullStr(in.Email).String)))
}

func (r patientRepo) Get(ctx context.Context, scope types.Scope, id string) (*repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + patientCols + ` from patients where id = $1 and tenant_id = $2`
	return scanPatient(r.db.QueryRowContext(ctx, q, id, scope.TenantID()))
}

func (r patientRepo) List(ctx context.Context, scope types.Scope) ([]repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + patientCols + ` from patients where tenant_id = $1 order by created_at desc`
	rows, err := r.db.QueryContext(ctx, q, scope.TenantID())
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r patientRepo) Update(ctx context.Context, scope types.Scope, id string, in repository.PatientInput) (*repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
		return nil, repository.ErrInvalidInput
	}
	var email sql.NullString
	if in.Email != nil {
		email = sql.NullString{String: normEmail(*in.Email), Valid: true}
	}
	q := `update patients set
			first_name = coalesce($3, first_name),
			last_name  = coalesce($4, last_name),
			phone      = coalesce($5, phone),
			email      = coalesce($6, email),
			updated_at = now()
		where id = $1 and tenant_id = $2
		returning ` + patientCols
	return scanPatient(r.db.QueryRowContext(ctx, q,
		id, scope.TenantID(), nullStr(in.FirstName), nullStr(in.LastName), nullStr(in.Phone), email))
}

func (r patientRepo) Delete(ctx context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	const q = `delete from patients where id = $1 and tenant_id = $2`
	return affected(r.db.ExecContext(ctx, q, id, scope.TenantID()))
}
