package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type accountRepo struct{ db *sql.DB }

const accountCols = `id, tenant_id, email, password_hash, first_name, last_name, profile_image,
	active, role, coalesce(role_id::text, ''), refresh_marker, created_at, updated_at`

func scanAccount(row rowScanner) (*repository.Account, error) {
	var (
		a    repository.Account
		role string
	)
	err := row.Scan(&a.ID, &a.TenantID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.ProfileImage,
		&a.Active, &role, &a.RoleID, &a.RefreshMarker, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	r, ok := types.ParseCoarseRole(role)
	if !ok {
		return nil, fmt.Errorf("pg: account %s has unknown role %q", a.ID, role)
	}
	a.Role = r
	return &a, nil
}

// ─── Camino de sesión ───

func (r accountRepo) GetByEmail(ctx context.Context, email string) (*repository.Account, error) {
	q := `select ` + accountCols + ` from accounts where email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, q, normEmail(email)))
}

func (r accountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	q := `select ` + accountCols + ` from accounts where id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, q, id))
}

func (r accountRepo) SetRefreshMarker(ctx context.Context, id, marker string) error {
	const q = `update accounts set refresh_marker = $2, updated_at = now() where id = $1`
	return affected(r.db.ExecContext(ctx, q, id, marker))
}

func (r accountRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `select exists(select 1 from accounts where email = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, normEmail(email)).Scan(&ok); err != nil {
		return false, mapErr(err)
	}
	return ok, nil
}

// ─── Tenant-scoped ───

func (r accountRepo) Create(ctx context.Context, scope types.Scope, in repository.CreateAccountInput) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	email := normEmail(in.Email)
	if email == "" || in.PasswordHash == "" || !in.Role.IsValid() {
		return nil, repository.ErrInvalidInput
	}
	q := `insert into accounts (id, tenant_id, email, password_hash, first_name, last_name, active, role, role_id)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning ` + accountCols
	return scanAccount(r.db.QueryRowContext(ctx, q,
		uuid.NewString(), scope.TenantID(), email, in.PasswordHash,
		strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName),
		in.Active, string(in.Role), nullIfEmpty(in.RoleID),
	))
}

func (r accountRepo) Get(ctx context.Context, scope types.Scope, id string) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + accountCols + ` from accounts where id = $1 and tenant_id = $2`
	return scanAccount(r.db.QueryRowContext(ctx, q, id, scope.TenantID()))
}

func (r accountRepo) ClearRefreshMarker(ctx context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	const q = `update accounts set refresh_marker = '', updated_at = now() where id = $1 and tenant_id = $2`
	return affected(r.db.ExecContext(ctx, q, id, scope.TenantID()))
}

func (r accountRepo) ListStaff(ctx context.Context, scope types.Scope) ([]repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + accountCols + ` from accounts
		where tenant_id = $1 and role in ('STAFF', 'OWNER')
		order by created_at desc`
	rows, err := r.db.QueryContext(ctx, q, scope.TenantID())
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateStaff nunca toca cuentas OWNER: el where las excluye.
func (r accountRepo) UpdateStaff(ctx context.Context, scope types.Scope, id string, in repository.UpdateStaffInput) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if in.Email != nil && normEmail(*in.Email) == "" {
		return nil, repository.ErrInvalidInput
	}
	var email sql.NullString
	if in.Email != nil {
		email = sql.NullString{String: normEmail(*in.Email), Valid: true}
	}
	var roleID sql.NullString
	if in.RoleID != nil {
		roleID = sql.NullString{String: strings.TrimSpace(*in.RoleID), Valid: true}
	}

	q := `update accounts set
			email         = coalesce($3, email),
			first_name    = coalesce($4, first_name),
			last_name     = coalesce($5, last_name),
			role_id       = case when $6::text is null then role_id else nullif($6, '')::uuid end,
			password_hash = coalesce($7, password_hash),
			active        = coalesce($8, active),
			updated_at    = now()
		where id = $1 and tenant_id = $2 and role <> 'OWNER'
		returning ` + accountCols
	return scanAccount(r.db.QueryRowContext(ctx, q,
		id, scope.TenantID(), email, nullStr(in.FirstName), nullStr(in.LastName),
		roleID, nullStr(in.PasswordHash), nullBool(in.Active),
	))
}

func (r accountRepo) DeleteStaff(ctx context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	const q = `delete from accounts where id = $1 and tenant_id = $2 and role <> 'OWNER'`
	return affected(r.db.ExecContext(ctx, q, id, scope.TenantID()))
}

func (r accountRepo) UpdateProfile(ctx context.Context, scope types.Scope, id string, in repository.ProfileInput) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `update accounts set
			first_name    = coalesce($3, first_name),
			last_name     = coalesce($4, last_name),
			profile_image = coalesce($5, profile_image),
			updated_at    = now()
		where id = $1 and tenant_id = $2
		returning ` + accountCols
	return scanAccount(r.db.QueryRowContext(ctx, q,
		id, scope.TenantID(), nullStr(in.FirstName), nullStr(in.LastName), nullStr(in.ProfileImage),
	))
}

func (r accountRepo) Count(ctx context.Context, scope types.Scope, f repository.AccountFilter) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	var (
		where = []string{"tenant_id = $1"}
		args  = []any{scope.TenantID()}
	)
	if len(f.Roles) > 0 {
		ph := make([]string, 0, len(f.Roles))
		for _, role := range f.Roles {
			args = append(args, string(role))
			ph = append(ph, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, "role in ("+strings.Join(ph, ", ")+")")
	}
	if f.RoleID != "" {
		args = append(args, f.RoleID)
		where = append(where, fmt.Sprintf("role_id = $%d::uuid", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		where = append(where, fmt.Sprintf("active = $%d", len(args)))
	}

	q := `select count(*) from accounts where ` + strings.Join(where, " and ")
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
