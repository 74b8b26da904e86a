package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// ─── Departments ───

type deptRepo struct{ s *Store }

func (s *Store) deptNameTaken(tenantID int64, name, exceptID string) bool {
	for id, d := range s.depts {
		if id != exceptID && d.TenantID == tenantID && d.Name == name {
			return true
		}
	}
	return false
}

func (r deptRepo) Create(_ context.Context, scope types.Scope, in repository.DepartmentInput) (*repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	name := deref(in.Name)
	if name == "" {
		return nil, repository.ErrInvalidInput
	}
	icon := deref(in.Icon)
	if icon == "" {
		icon = repository.DefaultDepartmentIcon
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.deptNameTaken(scope.TenantID(), name, "") {
		return nil, repository.ErrConflict
	}
	now := r.s.ts()
	d := &repository.Department{
		ID:          newID(),
		TenantID:    scope.TenantID(),
		Name:        name,
		Description: deref(in.Description),
		Icon:        icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.depts[d.ID] = d
	cp := *d
	return &cp, nil
}

func (r deptRepo) Get(_ context.Context, scope types.Scope, id string) (*repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.depts[id]
	if !ok || d.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r deptRepo) List(_ context.Context, scope types.Scope) ([]repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.Department, 0)
	for _, d := range r.s.depts {
		if d.TenantID == scope.TenantID() {
			out = append(out, *d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r deptRepo) Update(_ context.Context, scope types.Scope, id string, in repository.DepartmentInput) (*repository.Department, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if in.Name != nil && deref(in.Name) == "" {
		return nil, repository.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.depts[id]
	if !ok || d.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	if in.Name != nil && r.s.deptNameTaken(scope.TenantID(), deref(in.Name), id) {
		return nil, repository.ErrConflict
	}
	if in.Name != nil {
		d.Name = deref(in.Name)
	}
	if in.Description != nil {
		d.Description = deref(in.Description)
	}
	if in.Icon != nil {
		d.Icon = deref(in.Icon)
	}
	d.UpdatedAt = r.s.ts()
	cp := *d
	return &cp, nil
}

func (r deptRepo) Delete(_ context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.depts[id]
	if !ok || d.TenantID != scope.TenantID() {
		return repository.ErrNotFound
	}
	delete(r.s.depts, id)
	return nil
}

// ─── Patients ───

type patientRepo struct{ s *Store }

func (r patientRepo) Create(_ context.Context, scope types.Scope, in repository.PatientInput) (*repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if deref(in.FirstName) == "" {
		return nil, repository.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.ts()
	p := &repository.Patient{
		ID:        newID(),
		TenantID:  scope.TenantID(),
		FirstName: deref(in.FirstName),
		LastName:  deref(in.LastName),
		Phone:     deref(in.Phone),
		Email:     normEmail(deref(in.Email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.patients[p.ID] = p
	cp := *p
	return &cp, nil
}

func (r patientRepo) Get(_ context.Context, scope types.Scope, id string) (*repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.patients[id]
	if !ok || p.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r patientRepo) List(_ context.Context, scope types.Scope) ([]repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.Patient, 0)
	for _, p := range r.s.patients {
		if p.TenantID == scope.TenantID() {
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r patientRepo) Update(_ context.Context, scope types.Scope, id string, in repository.PatientInput) (*repository.Patient, error) {
	if err := checkScope(scope); err != nil {
		return nil, err
	}
	if in.FirstName != nil && deref(in.FirstName) == "" {
		return nil, repository.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok || p.TenantID != scope.TenantID() {
		return nil, repository.ErrNotFound
	}
	if in.FirstName != nil {
		p.FirstName = deref(in.FirstName)
	}
	if in.LastName != nil {
		p.LastName = deref(in.LastName)
	}
	if in.Phone != nil {
		p.Phone = deref(in.Phone)
	}
	if in.Email != nil {
		p.Email = normEmail(deref(in.Email))
	}
	p.UpdatedAt = r.s.ts()
	cp := *p
	return &cp, nil
}

func (r patientRepo) Delete(_ context.Context, scope types.Scope, id string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok || p.TenantID != scope.TenantID() {
		return repository.ErrNotFound
	}
	delete(r.s.patients, id)
	return nil
}
