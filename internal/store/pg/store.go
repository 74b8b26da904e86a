// Package pg implementa repository.Store sobre PostgreSQL (database/sql + pgx).
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// PoolOptions ajusta el pool de database/sql.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open abre el pool y verifica la conexión.
func Open(ctx context.Context, dsn string, opt PoolOptions) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if opt.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opt.MaxOpenConns)
	}
	if opt.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opt.MaxIdleConns)
	}
	if opt.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opt.ConnMaxLifetime)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// New envuelve un *sql.DB existente (tests con sqlmock).
func New(db *sql.DB) *Store { return &Store{db: db} }

// DB expone el pool para migraciones.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Accounts() repository.AccountRepository           { return accountRepo{s.db} }
func (s *Store) Roles() repository.RoleRepository                 { return roleRepo{s.db} }
func (s *Store) Organizations() repository.OrganizationRepository { return orgRepo{s.db} }
func (s *Store) Departments() repository.DepartmentRepository     { return deptRepo{s.db} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s.db} }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Close() error                   { return s.db.Close() }

// ─── helpers ───

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapErr traduce errores de driver a errores de dominio.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	switch pgCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	case pgForeignKeyViolation, pgCheckViolation:
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	case pgInvalidText:
		// id que no es uuid: no puede existir
		return repository.ErrNotFound
	}
	return err
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func checkScope(scope types.Scope) error {
	if scope.IsZero() {
		return repository.ErrUnscoped
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(*p), Valid: true}
}

func nullBool(p *bool) sql.NullBool {
	if p == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *p, Valid: true}
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
