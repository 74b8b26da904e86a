package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type roleRepo struct{ db *sql.DB }

const roleCols = `id, tenant_id, name, permissions, created_at, updated_at`

func scanRole(row rowScanner) (*repository.Role, error) {
	var (
		r   repository.Role
		raw []byte
	)
	if err := row.Scan(&r.ID, &r.TenantID, &r.Name, &raw, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	m, err := types.ParseMatrix(raw)
	if err != nil {
		return nil, fmt.Errorf("pg: role %s: %w", r.ID, err)
	}
	r.Permissions = m
	return &r, nil
}

func (r roleRepo) Create(ctx context.Context, scope types.Scope, in repository.RoleInput) (*repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Permissions.Validate() != nil {
		return nil, repository.ErrInvalidInput
	}
	perms, err := json.Marshal(in.Permissions)
	if err != nil {
		return nil, err
	}
	q := `insert into roles (id, tenant_id, name, permissions) values ($1, $2, $3, $4)
		returning ` + roleCols
	return scanRole(r.db.QueryRowContext(ctx, q, uuid.NewString(), scope.TenantID(), name, perms))
}

func (r roleRepo) Get(ctx context.Context, scope types.Scope, id string) (*repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + roleCols + ` from roles where id = $1 and tenant_id = $2`
	return scanRole(r.db.QueryRowContext(ctx, q, id, scope.TenantID()))
}

func (r roleRepo) List(ctx context.Context, scope types.Scope) ([]repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	q := `select ` + roleCols + ` from roles where tenant_id = $1 order by created_at desc`
	rows, err := r.db.QueryContext(ctx, q, scope.TenantID())
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *role)
	}
	return out, rows.Err()
}

func (r roleRepo) Update(ctx context.Context, scope types.Scope, id string, in repository.RoleInput) (*repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	var perms any
	if in.Permissions != nil {
		if in.Permissions.Validate() != nil {
			return nil, repository.ErrInvalidInput
		}
		b, err := json.Marshal(in.Permissions)
		if err != nil {
			return nil, err
		}
		perms = b
	}
	q := `update roles set
			name        = coalesce($3, name),
			permissions = coalesce($4::jsonb, permissions),
			updated_at  = now()
		where id = $1 and tenant_id = $2
		returning ` + roleCols
	return scanRole(r.db.QueryRowContext(ctx, q, id, scope.TenantID(), nullIfEmpty(in.Name), perms))
}

// Delete falla con ErrConflict si alguna cuenta todavía referencia el rol.
func (r roleRepo) Delete(ctx context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	const q = `delete from roles where id = $1 and tenant_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, scope.TenantID())
	if pgCode(err) == pgForeignKeyViolation {
		return fmt.Errorf("%w: role in use", repository.ErrConflict)
	}
	return affected(res, err)
}

func (r roleRepo) Count(ctx context.Context, scope types.Scope) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	const q = `select count(*) from roles where tenant_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, scope.TenantID()).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
