package lab

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/labauth/internal/cache"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/lab"
	"github.com/dropDatabas3/labauth/internal/http/services/auth"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/store/memory"
)

func ptr(s string) *string { return &s }

// orgsUpTo crea organizaciones hasta alcanzar el id n.
func orgsUpTo(t *testing.T, st *memory.Store, n int64) {
	t.Helper()
	for {
		o, err := st.Organizations().Create(context.Background(), "Lab")
		require.NoError(t, err)
		if o.ID >= n {
			return
		}
	}
}

func receptionistMatrix() types.Matrix {
	m := types.Matrix{}
	for _, e := range types.Entities {
		m[e] = types.Permissions{}
	}
	m[types.EntityPatient] = types.Permissions{Read: true}
	m[types.EntityBill] = types.Permissions{Read: true}
	return m
}

func TestReceptionistScenario(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	orgsUpTo(t, st, 9)
	t7, t9 := types.NewScope(7), types.NewScope(9)

	owner7 := types.Caller{AccountID: "owner-7", TenantID: 7, Role: types.RoleOwner}
	role, err := st.Roles().Create(ctx, t7, repository.RoleInput{Name: "Receptionist", Permissions: receptionistMatrix()})
	require.NoError(t, err)
	jane, err := st.Accounts().Create(ctx, t7, repository.CreateAccountInput{
		Email: "jane@x.com", PasswordHash: "h", FirstName: "Jane", Role: types.RoleStaff, RoleID: role.ID, Active: true,
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	svcs := NewServices(Deps{Store: st, Metrics: m})

	dept, err := svcs.Departments.Create(ctx, owner7, dto.DepartmentRequest{Name: ptr("Hematology")})
	require.NoError(t, err)
	p7, err := svcs.Patients.Create(ctx, owner7, dto.PatientRequest{FirstName: ptr("Ana"), LastName: ptr("Lopez")})
	require.NoError(t, err)
	p9, err := st.Patients().Create(ctx, t9, repository.PatientInput{FirstName: ptr("Other")})
	require.NoError(t, err)

	resolver := auth.NewResolver(auth.ResolverDeps{Store: st, Cache: cache.NewMemory("t:", time.Minute), TTL: time.Minute})
	janeCaller, err := resolver.Resolve(ctx, types.Caller{AccountID: jane.ID, TenantID: 7, Role: types.RoleStaff})
	require.NoError(t, err)

	assert.ErrorIs(t, svcs.Departments.Delete(ctx, janeCaller, dept.ID), ErrForbidden)

	got, err := svcs.Patients.Get(ctx, janeCaller, p7.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)

	_, err = svcs.Patients.Get(ctx, janeCaller, p9.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1.0, deniedCount(t, reg, "department", "delete"))
}

func deniedCount(t *testing.T, reg *prometheus.Registry, entity, action string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "labauth_authorization_denied_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["entity"] == entity && labels["action"] == action {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestGate_GenericUserAndUnresolvedStaffDenied(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	org, err := st.Organizations().Create(ctx, "Lab")
	require.NoError(t, err)
	svcs := NewServices(Deps{Store: st})

	for _, c := range []types.Caller{
		{AccountID: "u", TenantID: org.ID, Role: types.RoleGenericUser},
		{AccountID: "s", TenantID: org.ID, Role: types.RoleStaff},
	} {
		_, err := svcs.Patients.List(ctx, c)
		assert.ErrorIs(t, err, ErrForbidden, "role=%s", c.Role)
		_, err = svcs.Departments.List(ctx, c)
		assert.ErrorIs(t, err, ErrForbidden, "role=%s", c.Role)
	}
}

func TestDepartments_CRUDWithinTenant(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	a, err := st.Organizations().Create(ctx, "A")
	require.NoError(t, err)
	b, err := st.Organizations().Create(ctx, "B")
	require.NoError(t, err)
	ownerA := types.Caller{AccountID: "oa", TenantID: a.ID, Role: types.RoleOwner}
	ownerB := types.Caller{AccountID: "ob", TenantID: b.ID, Role: types.RoleOwner}
	svcs := NewServices(Deps{Store: st})

	d, err := svcs.Departments.Create(ctx, ownerA, dto.DepartmentRequest{Name: ptr("Serology")})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultDepartmentIcon, d.Icon)

	_, err = svcs.Departments.Create(ctx, ownerA, dto.DepartmentRequest{Name: ptr("Serology")})
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = svcs.Departments.Create(ctx, ownerB, dto.DepartmentRequest{Name: ptr("Serology")})
	assert.NoError(t, err)

	_, err = svcs.Departments.Create(ctx, ownerA, dto.DepartmentRequest{})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svcs.Departments.Update(ctx, ownerB, d.ID, dto.DepartmentRequest{Icon: ptr("🧪")})
	assert.ErrorIs(t, err, ErrNotFound)

	upd, err := svcs.Departments.Update(ctx, ownerA, d.ID, dto.DepartmentRequest{Icon: ptr("🧪")})
	require.NoError(t, err)
	assert.Equal(t, "🧪", upd.Icon)
	assert.Equal(t, "Serology", upd.Name)

	assert.ErrorIs(t, svcs.Departments.Delete(ctx, ownerB, d.ID), ErrNotFound)
	require.NoError(t, svcs.Departments.Delete(ctx, ownerA, d.ID))

	list, err := svcs.Departments.List(ctx, ownerA)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPatients_ValidationAndUpdate(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	org, err := st.Organizations().Create(ctx, "A")
	require.NoError(t, err)
	owner := types.Caller{AccountID: "o", TenantID: org.ID, Role: types.RoleOwner}
	svcs := NewServices(Deps{Store: st})

	_, err = svcs.Patients.Create(ctx, owner, dto.PatientRequest{LastName: ptr("Solo")})
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svcs.Patients.Create(ctx, owner, dto.PatientRequest{FirstName: ptr("Ana"), Email: ptr("not-an-email")})
	assert.ErrorIs(t, err, ErrInvalid)

	p, err := svcs.Patients.Create(ctx, owner, dto.PatientRequest{FirstName: ptr("Ana"), Phone: ptr("+54 11 5555")})
	require.NoError(t, err)

	_, err = svcs.Patients.Update(ctx, owner, p.ID, dto.PatientRequest{})
	assert.ErrorIs(t, err, ErrMissingFields)

	upd, err := svcs.Patients.Update(ctx, owner, p.ID, dto.PatientRequest{LastName: ptr("Diaz")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", upd.FirstName)
	assert.Equal(t, "Diaz", upd.LastName)
	assert.Equal(t, "+54 11 5555", upd.Phone)
}
