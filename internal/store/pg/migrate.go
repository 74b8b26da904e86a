package pg

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	migrations "github.com/dropDatabas3/labauth/migrations/postgres"
)

const migrationsTable = "schema_migrations"

// migrationLockID es la clave de pg_advisory_lock para serializar instancias.
const migrationLockID int64 = 0x6c6162617574 // "labaut"

// Migrator aplica los *.up.sql embebidos, en orden lexicográfico, una vez cada uno.
type Migrator struct {
	db  *sql.DB
	src fs.FS
}

// NewMigrator usa las migraciones embebidas en el binario.
func NewMigrator(db *sql.DB) *Migrator { return &Migrator{db: db, src: migrations.FS} }

// Up aplica las migraciones pendientes y devuelve cuántas se ejecutaron.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `select pg_advisory_lock($1)`, migrationLockID); err != nil {
		return 0, fmt.Errorf("migrate: lock: %w", err)
	}
	defer conn.ExecContext(context.Background(), `select pg_advisory_unlock($1)`, migrationLockID) //nolint:errcheck

	if _, err := conn.ExecContext(ctx, `create table if not exists `+migrationsTable+` (
		name       text primary key,
		applied_at timestamptz not null default now()
	)`); err != nil {
		return 0, fmt.Errorf("migrate: bookkeeping table: %w", err)
	}

	done, err := appliedSet(ctx, conn)
	if err != nil {
		return 0, err
	}
	files, err := upFiles(m.src)
	if err != nil {
		return 0, err
	}

	var applied int
	for _, name := range files {
		if done[name] {
			continue
		}
		body, err := fs.ReadFile(m.src, name)
		if err != nil {
			return applied, err
		}
		if err := applyOne(ctx, conn, name, string(body)); err != nil {
			return applied, fmt.Errorf("migrate: %s: %w", name, err)
		}
		applied++
	}
	return applied, nil
}

// Status lista las migraciones embebidas con su estado.
func (m *Migrator) Status(ctx context.Context) (map[string]bool, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx, `select to_regclass($1) is not null`, migrationsTable).Scan(&exists); err != nil {
		return nil, err
	}
	done := map[string]bool{}
	if exists {
		if done, err = appliedSet(ctx, conn); err != nil {
			return nil, err
		}
	}
	files, err := upFiles(m.src)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(files))
	for _, f := range files {
		out[f] = done[f]
	}
	return out, nil
}

func applyOne(ctx context.Context, conn *sql.Conn, name, body string) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `insert into `+migrationsTable+` (name) values ($1)`, name); err != nil {
		return err
	}
	return tx.Commit()
}

func appliedSet(ctx context.Context, conn *sql.Conn) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, `select name from `+migrationsTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out[n] = true
	}
	return out, rows.Err()
}

func upFiles(src fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
