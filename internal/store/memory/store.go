// Package memory implementa repository.Store en memoria.
//
// Emula las constraints del esquema Postgres (email único global, nombre de
// rol y de departamento único por tenant, FK de cuenta a rol) para que los
// services se comporten igual con ambos drivers.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextOrg  int64
	orgs     map[int64]*repository.Organization
	accounts map[string]*repository.Account
	roles    map[string]*repository.Role
	depts    map[string]*repository.Department
	patients map[string]*repository.Patient
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:      time.Now,
		orgs:     map[int64]*repository.Organization{},
		accounts: map[string]*repository.Account{},
		roles:    map[string]*repository.Role{},
		depts:    map[string]*repository.Department{},
		patients: map[string]*repository.Patient{},
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Accounts() repository.AccountRepository           { return accountRepo{s} }
func (s *Store) Roles() repository.RoleRepository                 { return roleRepo{s} }
func (s *Store) Organizations() repository.OrganizationRepository { return orgRepo{s} }
func (s *Store) Departments() repository.DepartmentRepository     { return deptRepo{s} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s} }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) ts() time.Time { return s.now().UTC() }

func newID() string { return uuid.NewString() }

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func checkScope(scope types.Scope) error {
	if scope.IsZero() {
		return repository.ErrUnscoped
	}
	return nil
}

// ─── Organizations ───

type orgRepo struct{ s *Store }

func (r orgRepo) Create(_ context.Context, name string) (*repository.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextOrg++
	o := &repository.Organization{ID: r.s.nextOrg, Name: strings.TrimSpace(name), CreatedAt: r.s.ts()}
	r.s.orgs[o.ID] = o
	cp := *o
	return &cp, nil
}

func (r orgRepo) Get(_ context.Context, id int64) (*repository.Organization, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r orgRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[id]; !ok {
		return repository.ErrNotFound
	}
	for _, a := range r.s.accounts {
		if a.TenantID == id {
			return repository.ErrConflict
		}
	}
	delete(r.s.orgs, id)
	return nil
}
