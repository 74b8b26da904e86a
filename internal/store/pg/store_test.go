package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

const roleID = "4f1c2b9e-8a6d-4c3e-9f10-2b7a5d8e6c01"

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func accountRow(id string, tenant int64, role, rid string, active bool, marker string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "email", "password_hash", "first_name", "last_name", "profile_image",
		"active", "role", "role_id", "refresh_marker", "created_at", "updated_at",
	}).AddRow(id, tenant, "rita@lab.test", "hash", "Rita", "Gómez", "", active, role, rid, marker, now, now)
}

func TestRoles_GetDecodesMatrix(t *testing.T) {
	s, mock := newMock(t)
	perms, err := json.Marshal(types.DefaultMatrix())
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectQuery(`from roles where id = \$1 and tenant_id = \$2`).
		WithArgs(roleID, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "permissions", "created_at", "updated_at"}).
			AddRow(roleID, int64(7), "Receptionist", perms, now, now))

	r, err := s.Roles().Get(context.Background(), types.NewScope(7), roleID)
	require.NoError(t, err)
	assert.Equal(t, "Receptionist", r.Name)
	assert.True(t, r.Permissions.Allows(types.EntityPatient, types.ActionRead))
	assert.False(t, r.Permissions.Allows(types.EntityPatient, types.ActionCreate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoles_GetCorruptMatrixFails(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`from roles where id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "permissions", "created_at", "updated_at"}).
			AddRow(roleID, int64(7), "Broken", []byte(`{"bill":{"create":true}}`), now, now))

	_, err := s.Roles().Get(context.Background(), types.NewScope(7), roleID)
	assert.ErrorIs(t, err, types.ErrInvalidMatrix)
}

func TestRoles_DeleteInUseIsConflict(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`delete from roles where id = \$1 and tenant_id = \$2`).
		WithArgs(roleID, int64(7)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := s.Roles().Delete(context.Background(), types.NewScope(7), roleID)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRoles_DeleteForeignTenantIsNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`delete from roles`).
		WithArgs(roleID, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Roles().Delete(context.Background(), types.NewScope(9), roleID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRoles_CreateDuplicateNameIsConflict(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`insert into roles`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := s.Roles().Create(context.Background(), types.NewScope(7),
		repository.RoleInput{Name: "Receptionist", Permissions: types.DefaultMatrix()})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRoles_CreateRejectsIncompleteMatrix(t *testing.T) {
	s, mock := newMock(t)
	_, err := s.Roles().Create(context.Background(), types.NewScope(7),
		repository.RoleInput{Name: "X", Permissions: types.Matrix{types.EntityBill: {}}})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccounts_GetIsTenantScoped(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`from accounts where id = \$1 and tenant_id = \$2`).
		WithArgs("acc-1", int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.Accounts().Get(context.Background(), types.NewScope(9), "acc-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccounts_NonUUIDIsNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`from accounts where id = \$1`).
		WillReturnError(&pgconn.PgError{Code: pgInvalidText})

	_, err := s.Accounts().GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccounts_GetByEmailNormalizes(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`from accounts where email = \$1`).
		WithArgs("rita@lab.test").
		WillReturnRows(accountRow("acc-1", 7, "STAFF", roleID, true, "m"))

	a, err := s.Accounts().GetByEmail(context.Background(), "  Rita@Lab.TEST ")
	require.NoError(t, err)
	assert.Equal(t, types.RoleStaff, a.Role)
	assert.Equal(t, roleID, a.RoleID)
	assert.Equal(t, "Rita Gómez", a.FullName())
}

func TestAccounts_UnknownRoleFailsScan(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`from accounts where id = \$1`).
		WillReturnRows(accountRow("acc-1", 7, "ROOT", "", true, ""))

	_, err := s.Accounts().GetByID(context.Background(), "acc-1")
	assert.Error(t, err)
}

func TestAccounts_CreateDuplicateEmailIsConflict(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`insert into accounts`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "accounts_email_key"})

	_, err := s.Accounts().Create(context.Background(), types.NewScope(7), repository.CreateAccountInput{
		Email: "dup@lab.test", PasswordHash: "h", Role: types.RoleStaff, RoleID: roleID, Active: true,
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestAccounts_CreateForeignRoleIsInvalid(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`insert into accounts`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "accounts_role_fk"})

	_, err := s.Accounts().Create(context.Background(), types.NewScope(7), repository.CreateAccountInput{
		Email: "s@lab.test", PasswordHash: "h", Role: types.RoleStaff, RoleID: roleID, Active: true,
	})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestAccounts_UpdateStaffExcludesOwner(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`and role <> 'OWNER'`).
		WillReturnError(sql.ErrNoRows)

	off := false
	_, err := s.Accounts().UpdateStaff(context.Background(), types.NewScope(7), "owner-id",
		repository.UpdateStaffInput{Active: &off})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccounts_DeleteStaffExcludesOwner(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`delete from accounts where id = \$1 and tenant_id = \$2 and role <> 'OWNER'`).
		WithArgs("owner-id", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Accounts().DeleteStaff(context.Background(), types.NewScope(7), "owner-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccounts_CountBuildsFilter(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`select count\(\*\) from accounts where tenant_id = \$1 and role in \(\$2\) and active = \$3`).
		WithArgs(int64(7), "STAFF", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	active := true
	n, err := s.Accounts().Count(context.Background(), types.NewScope(7), repository.AccountFilter{
		Roles:  []types.CoarseRole{types.RoleStaff},
		Active: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccounts_SetRefreshMarkerMissing(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`update accounts set refresh_marker = \$2`).
		WithArgs("gone", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Accounts().SetRefreshMarker(context.Background(), "gone", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAccounts_ClearRefreshMarkerIsTenantScoped(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`update accounts set refresh_marker = '' .* where id = \$1 and tenant_id = \$2`).
		WithArgs("acc-1", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Accounts().ClearRefreshMarker(context.Background(), types.NewScope(9), "acc-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.ErrorIs(t, s.Accounts().ClearRefreshMarker(context.Background(), types.Scope{}, "acc-1"), repository.ErrUnscoped)
}

func TestScopedOps_RejectZeroScope(t *testing.T) {
	s, mock := newMock(t)
	var zero types.Scope
	ctx := context.Background()

	_, err := s.Accounts().ListStaff(ctx, zero)
	assert.ErrorIs(t, err, repository.ErrUnscoped)
	_, err = s.Roles().Count(ctx, zero)
	assert.ErrorIs(t, err, repository.ErrUnscoped)
	assert.ErrorIs(t, s.Departments().Delete(ctx, zero, "d"), repository.ErrUnscoped)
	_, err = s.Patients().Get(ctx, zero, "p")
	assert.ErrorIs(t, err, repository.ErrUnscoped)

	// ninguna query llegó a la base
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartments_CreateUsesDefaultIcon(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`insert into departments`).
		WithArgs(sqlmock.AnyArg(), int64(7), "Hematology", "", repository.DefaultDepartmentIcon).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "description", "icon", "created_at", "updated_at"}).
			AddRow("d-1", int64(7), "Hematology", "", repository.DefaultDepartmentIcon, now, now))

	name := " Hematology "
	d, err := s.Departments().Create(context.Background(), types.NewScope(7), repository.DepartmentInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultDepartmentIcon, d.Icon)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizations_Create(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`insert into organizations`).
		WithArgs("Lab Central").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(int64(7), "Lab Central", time.Now()))

	o, err := s.Organizations().Create(context.Background(), "Lab Central")
	require.NoError(t, err)
	assert.Equal(t, int64(7), o.ID)
}

func TestMigrator_UpAppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`select pg_advisory_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`create table if not exists schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`select name from schema_migrations`).WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec(`create table if not exists organizations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`insert into schema_migrations`).WithArgs("0001_init.up.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`select pg_advisory_unlock`).WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := NewMigrator(db).Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_UpSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`select pg_advisory_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`create table if not exists schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`select name from schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_init.up.sql"))
	mock.ExpectExec(`select pg_advisory_unlock`).WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := NewMigrator(db).Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
