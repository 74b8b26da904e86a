package pg

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
)

type orgRepo struct{ db *sql.DB }

func (r orgRepo) Create(ctx context.Context, name string) (*repository.Organization, error) {
	const q = `insert into organizations (name) values ($1) returning id, name, created_at`
	var o repository.Organization
	if err := r.db.QueryRowContext(ctx, q, strings.TrimSpace(name)).Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (r orgRepo) Get(ctx context.Context, id int64) (*repository.Organization, error) {
	const q = `select id, name, created_at from organizations where id = $1`
	var o repository.Organization
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (r orgRepo) Delete(ctx context.Context, id int64) error {
	const q = `delete from organizations where id = $1`
	return affected(r.db.ExecContext(ctx, q, id))
}
