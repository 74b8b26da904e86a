package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type roleRepo struct{ s *Store }

// roleNameTaken requiere el lock tomado.
func (s *Store) roleNameTaken(tenantID int64, name, exceptID string) bool {
	for id, r := range s.roles {
		if id != exceptID && r.TenantID == tenantID && r.Name == name {
			return true
		}
	}
	return false
}

func cloneRole(r *repository.Role) *repository.Role {
	cp := *r
	cp.Permissions = r.Permissions.Clone()
	return &cp
}

func (r roleRepo) Create(_ context.Context, scope types.Scope, in repository.RoleInput) (*repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Permissions.Validate() != nil {
		return nil, repository.ErrInvalidInput
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.roleNameTaken(scope.TenantID(), name, "") {
		return nil, repository.ErrConflict
	}
	now := r.s.ts()
	role := &repository.Role{
		ID:          newID(),
		TenantID:    scope.TenantID(),
		Name:        name,
		Permissions: in.Permissions.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.roles[role.ID] = role
	return cloneRole(role), nil
}

func (r roleRepo) Get(_ context.Context, scope types.Scope, id string) (*repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[id]
	if !ok || role.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	return cloneRole(role), nil
}

func (r roleRepo) List(_ context.Context, scope types.Scope) ([]repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.Role, 0)
	for _, role := range r.s.roles {
		if role.TenantID == scope.TenantID() {
			out = append(out, *cloneRole(role))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r roleRepo) Update(_ context.Context, scope types.Scope, id string, in repository.RoleInput) (*repository.Role, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if in.Permissions != nil && in.Permissions.Validate() != nil {
		return nil, repository.ErrInvalidInput
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok || role.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	if name != "" && r.s.roleNameTaken(scope.TenantID(), name, id) {
		return nil, repository.ErrConflict
	}
	if name != "" {
		role.Name = name
	}
	if in.Permissions != nil {
		role.Permissions = in.Permissions.Clone()
	}
	role.UpdatedAt = r.s.ts()
	return cloneRole(role), nil
}

func (r roleRepo) Delete(_ context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok || role.TenantID != scope.TenantID() {
		return repository.ErrNotFound
	}
	for _, a := range r.s.accounts {
		if a.RoleID == id {
			return repository.ErrConflict
		}
	}
	delete(r.s.roles, id)
	return nil
}

func (r roleRepo) Count(_ context.Context, scope types.Scope) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, role := range r.s.roles {
		if role.TenantID == scope.TenantID() {
			n++
		}
	}
	return n, nil
}
