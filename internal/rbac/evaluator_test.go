package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

func TestHasPermission_OwnerAlwaysAllowed(t *testing.T) {
	owner := types.Caller{Role: types.RoleOwner}
	for _, e := range types.Entities {
		for _, a := range types.Actions {
			assert.True(t, HasPermission(owner, e, a), "%s.%s", e, a)
		}
	}
}

func TestHasPermission_GenericUserDenied(t *testing.T) {
	user := types.Caller{Role: types.RoleGenericUser, Matrix: fullMatrix(true)}
	for _, e := range types.Entities {
		for _, a := range types.Actions {
			assert.False(t, HasPermission(user, e, a), "%s.%s", e, a)
		}
	}
}

func TestHasPermission_StaffUsesMatrix(t *testing.T) {
	m := types.DefaultMatrix()
	p := m[types.EntityReport]
	p.Update = true
	m[types.EntityReport] = p

	staff := types.Caller{Role: types.RoleStaff, Matrix: m}

	assert.True(t, HasPermission(staff, types.EntityReport, types.ActionUpdate))
	assert.True(t, HasPermission(staff, types.EntityReport, types.ActionRead))
	assert.False(t, HasPermission(staff, types.EntityReport, types.ActionDelete))
	assert.False(t, HasPermission(staff, types.EntityBill, types.ActionUpdate))
}

func TestHasPermission_FlipChangesOnlyThatPair(t *testing.T) {
	before := types.Caller{Role: types.RoleStaff, Matrix: types.DefaultMatrix()}
	afterM := before.Matrix.Clone()
	p := afterM[types.EntityReport]
	p.Update = true
	afterM[types.EntityReport] = p
	after := types.Caller{Role: types.RoleStaff, Matrix: afterM}

	for _, e := range types.Entities {
		for _, a := range types.Actions {
			got, want := HasPermission(after, e, a), HasPermission(before, e, a)
			if e == types.EntityReport && a == types.ActionUpdate {
				assert.False(t, want)
				assert.True(t, got)
				continue
			}
			assert.Equal(t, want, got, "%s.%s changed", e, a)
		}
	}
}

func TestHasPermission_FailsClosed(t *testing.T) {
	noMatrix := types.Caller{Role: types.RoleStaff}
	assert.False(t, HasPermission(noMatrix, types.EntityPatient, types.ActionRead))

	staff := types.Caller{Role: types.RoleStaff, Matrix: fullMatrix(true)}
	assert.False(t, HasPermission(staff, types.Entity("invoice"), types.ActionRead))
	assert.False(t, HasPermission(staff, types.EntityPatient, types.Action("export")))

	partial := types.Matrix{types.EntityBill: {Read: true}}
	staff.Matrix = partial
	assert.False(t, HasPermission(staff, types.EntityPatient, types.ActionRead))

	unknownRole := types.Caller{Role: types.CoarseRole("ROOT"), Matrix: fullMatrix(true)}
	assert.False(t, HasPermission(unknownRole, types.EntityBill, types.ActionRead))
}

func TestEvaluator_DelegatesToHasPermission(t *testing.T) {
	ev := NewEvaluator()
	assert.True(t, ev.HasPermission(types.Caller{Role: types.RoleOwner}, types.EntityBill, types.ActionDelete))
	assert.False(t, ev.HasPermission(types.Caller{Role: types.RoleGenericUser}, types.EntityBill, types.ActionRead))
}

func fullMatrix(v bool) types.Matrix {
	m := make(types.Matrix, len(types.Entities))
	for _, e := range types.Entities {
		m[e] = types.Permissions{Create: v, Read: v, Update: v, Delete: v}
	}
	return m
}
