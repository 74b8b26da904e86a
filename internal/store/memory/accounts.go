package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type accountRepo struct{ s *Store }

func (r accountRepo) GetByEmail(_ context.Context, email string) (*repository.Account, error) {
	email = normEmail(email)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r accountRepo) GetByID(_ context.Context, id string) (*repository.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r accountRepo) SetRefreshMarker(_ context.Context, id, marker string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.RefreshMarker = marker
	a.UpdatedAt = r.s.ts()
	return nil
}

func (r accountRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.emailTaken(normEmail(email), ""), nil
}

// emailTaken requiere el lock tomado.
func (s *Store) emailTaken(email, exceptID string) bool {
	for id, a := range s.accounts {
		if id != exceptID && a.Email == email {
			return true
		}
	}
	return false
}

// roleInTenant requiere el lock tomado.
func (s *Store) roleInTenant(tenantID int64, roleID string) bool {
	role, ok := s.roles[roleID]
	return ok && role.TenantID == tenantID
}

func (r accountRepo) Create(_ context.Context, scope types.Scope, in repository.CreateAccountInput) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	email := normEmail(in.Email)
	if email == "" || in.PasswordHash == "" || !in.Role.IsValid() {
		return nil, repository.ErrInvalidInput
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orgs[scope.TenantID()]; !ok {
		return nil, repository.ErrInvalidInput
	}
	if r.s.emailTaken(email, "") {
		return nil, repository.ErrConflict
	}
	if in.RoleID != "" && !r.s.roleInTenant(scope.TenantID(), in.RoleID) {
		return nil, repository.ErrInvalidInput
	}

	now := r.s.ts()
	a := &repository.Account{
		ID:           newID(),
		TenantID:     scope.TenantID(),
		Email:        email,
		PasswordHash: in.PasswordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Active:       in.Active,
		Role:         in.Role,
		RoleID:       in.RoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.accounts[a.ID] = a
	cp := *a
	return &cp, nil
}

func (r accountRepo) Get(_ context.Context, scope types.Scope, id string) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r accountRepo) ClearRefreshMarker(_ context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != scope.TenantID() {
		return repository.ErrNotFound
	}
	a.RefreshMarker = ""
	a.UpdatedAt = r.s.ts()
	return nil
}

func (r accountRepo) ListStaff(_ context.Context, scope types.Scope) ([]repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.Account, 0)
	for _, a := range r.s.accounts {
		if a.TenantID != scope.TenantID() {
			continue
		}
		if a.Role == types.RoleStaff || a.Role == types.RoleOwner {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r accountRepo) UpdateStaff(_ context.Context, scope types.Scope, id string, in repository.UpdateStaffInput) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != scope.TenantID() || a.Role == types.RoleOwner {
		return nil, repository.ErrNotFound
	}
	if in.Email != nil {
		email := normEmail(*in.Email)
		if email == "" {
			return nil, repository.ErrInvalidInput
		}
		if r.s.emailTaken(email, id) {
			return nil, repository.ErrConflict
		}
	}
	if in.RoleID != nil && *in.RoleID != "" && !r.s.roleInTenant(scope.TenantID(), *in.RoleID) {
		return nil, repository.ErrInvalidInput
	}

	if in.Email != nil {
		a.Email = normEmail(*in.Email)
	}
	if in.FirstName != nil {
		a.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		a.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.RoleID != nil {
		a.RoleID = *in.RoleID
	}
	if in.PasswordHash != nil {
		a.PasswordHash = *in.PasswordHash
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	a.UpdatedAt = r.s.ts()
	cp := *a
	return &cp, nil
}

func (r accountRepo) DeleteStaff(_ context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != scope.TenantID() || a.Role == types.RoleOwner {
		return repository.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

func (r accountRepo) UpdateProfile(_ context.Context, scope types.Scope, id string, in repository.ProfileInput) (*repository.Account, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	if in.FirstName != nil {
		a.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		a.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.ProfileImage != nil {
		a.ProfileImage = strings.TrimSpace(*in.ProfileImage)
	}
	a.UpdatedAt = r.s.ts()
	cp := *a
	return &cp, nil
}

func (r accountRepo) Count(_ context.Context, scope types.Scope, f repository.AccountFilter) (int, error) {
	if err := checkScope(scope); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.accounts {
		if a.TenantID != scope.TenantID() {
			continue
		}
		if len(f.Roles) > 0 && !containsRole(f.Roles, a.Role) {
			continue
		}
		if f.RoleID != "" && a.RoleID != f.RoleID {
			continue
		}
		if f.Active != nil && a.Active != *f.Active {
			continue
		}
		n++
	}
	return n, nil
}

func containsRole(rs []types.CoarseRole, r types.CoarseRole) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}
