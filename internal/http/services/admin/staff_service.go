package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/labauth/internal/audit"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/admin"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/util"
	"github.com/dropDatabas3/labauth/internal/validation"
)

// StaffService administra las cuentas STAFF del tenant.
type StaffService interface {
	List(ctx context.Context, caller types.Caller) ([]dto.StaffView, error)
	Create(ctx context.Context, caller types.Caller, in dto.CreateStaffRequest) (dto.StaffView, error)
	Update(ctx context.Context, caller types.Caller, id string, in dto.UpdateStaffRequest) (dto.StaffView, error)
	Delete(ctx context.Context, caller types.Caller, id string) error
	ToggleActive(ctx context.Context, caller types.Caller, id string) (dto.StaffView, error)
}

type staffService struct {
	deps Deps
}

// NewStaffService crea el service de staff.
func NewStaffService(deps Deps) StaffService {
	return &staffService{deps: deps}
}

func (s *staffService) List(ctx context.Context, caller types.Caller) ([]dto.StaffView, error) {
	if err := requireOwner(ctx, caller, "ListStaff"); err != nil {
		return nil, err
	}
	scope := caller.Scope()

	accounts, err := s.deps.Store.Accounts().ListStaff(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	roles, err := s.deps.Store.Roles().List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}

	out := make([]dto.StaffView, 0, len(accounts))
	for i := range accounts {
		out = append(out, staffView(&accounts[i], names))
	}
	return out, nil
}

func (s *staffService) Create(ctx context.Context, caller types.Caller, in dto.CreateStaffRequest) (dto.StaffView, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.staff"),
		logger.Op("CreateStaff"),
		logger.TenantID(caller.TenantID),
	)
	if err := requireOwner(ctx, caller, "CreateStaff"); err != nil {
		return dto.StaffView{}, err
	}
	scope := caller.Scope()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	roleID := strings.TrimSpace(in.StaffRoleID)
	if email == "" || in.Password == "" || first == "" || roleID == "" {
		return dto.StaffView{}, ErrMissingFields
	}
	if !validation.ValidEmail(email) {
		return dto.StaffView{}, fmt.Errorf("%w: email", ErrInvalid)
	}
	if !validation.ValidName(first) || (last != "" && !validation.ValidName(last)) {
		return dto.StaffView{}, fmt.Errorf("%w: name", ErrInvalid)
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		return dto.StaffView{}, fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(reasons, ","))
	}

	// Email antes de hashear: el hash es caro.
	exists, err := s.deps.Store.Accounts().EmailExists(ctx, email)
	if err != nil {
		return dto.StaffView{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return dto.StaffView{}, ErrEmailTaken
	}
	role, err := s.roleInTenant(ctx, scope, roleID)
	if err != nil {
		return dto.StaffView{}, err
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return dto.StaffView{}, fmt.Errorf("hash password: %w", err)
	}
	acc, err := s.deps.Store.Accounts().Create(ctx, scope, repository.CreateAccountInput{
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Role:         types.RoleStaff,
		RoleID:       role.ID,
		Active:       true,
	})
	if err != nil {
		return dto.StaffView{}, mapAccountErr(err, "create staff")
	}

	audit.Log(ctx, audit.EventStaffCreated,
		logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(acc.ID))
	log.Info("staff created", logger.TargetID(acc.ID), logger.Email(util.MaskEmail(email)))
	return staffView(acc, map[string]string{role.ID: role.Name}), nil
}

func (s *staffService) Update(ctx context.Context, caller types.Caller, id string, in dto.UpdateStaffRequest) (dto.StaffView, error) {
	if err := requireOwner(ctx, caller, "UpdateStaff"); err != nil {
		return dto.StaffView{}, err
	}
	scope := caller.Scope()

	target, err := s.load(ctx, scope, id)
	if err != nil {
		return dto.StaffView{}, err
	}
	if err := protectOwner(ctx, s.deps.Metrics, caller, target.Role, target.ID, "UpdateStaff"); err != nil {
		return dto.StaffView{}, err
	}

	var upd repository.UpdateStaffInput
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if !validation.ValidEmail(v) {
			return dto.StaffView{}, fmt.Errorf("%w: email", ErrInvalid)
		}
		if v != target.Email {
			exists, err := s.deps.Store.Accounts().EmailExists(ctx, v)
			if err != nil {
				return dto.StaffView{}, fmt.Errorf("check email: %w", err)
			}
			if exists {
				return dto.StaffView{}, ErrEmailTaken
			}
		}
		upd.Email = &v
	}
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if !validation.ValidName(v) {
			return dto.StaffView{}, fmt.Errorf("%w: firstName", ErrInvalid)
		}
		upd.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v != "" && !validation.ValidName(v) {
			return dto.StaffView{}, fmt.Errorf("%w: lastName", ErrInvalid)
		}
		upd.LastName = &v
	}
	if in.StaffRoleID != nil {
		role, err := s.roleInTenant(ctx, scope, strings.TrimSpace(*in.StaffRoleID))
		if err != nil {
			return dto.StaffView{}, err
		}
		upd.RoleID = &role.ID
	}
	if in.Password != nil {
		if ok, reasons := s.deps.Policy.Validate(*in.Password); !ok {
			return dto.StaffView{}, fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(reasons, ","))
		}
		hash, err := s.deps.Hasher.Hash(*in.Password)
		if err != nil {
			return dto.StaffView{}, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}
	upd.Active = in.IsActive
	if upd == (repository.UpdateStaffInput{}) {
		return dto.StaffView{}, ErrMissingFields
	}

	acc, err := s.deps.Store.Accounts().UpdateStaff(ctx, scope, id, upd)
	if err != nil {
		return dto.StaffView{}, mapAccountErr(err, "update staff")
	}
	if target.Active && !acc.Active {
		s.revoke(ctx, scope, acc.ID)
	}
	s.deps.Invalidator.InvalidateAccount(ctx, caller.TenantID, acc.ID)

	audit.Log(ctx, audit.EventStaffUpdated,
		logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(acc.ID))
	return s.view(ctx, scope, acc), nil
}

func (s *staffService) Delete(ctx context.Context, caller types.Caller, id string) error {
	if err := requireOwner(ctx, caller, "DeleteStaff"); err != nil {
		return err
	}
	scope := caller.Scope()

	target, err := s.load(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := protectOwner(ctx, s.deps.Metrics, caller, target.Role, target.ID, "DeleteStaff"); err != nil {
		return err
	}
	if err := s.deps.Store.Accounts().DeleteStaff(ctx, scope, id); err != nil {
		return mapAccountErr(err, "delete staff")
	}
	s.deps.Invalidator.InvalidateAccount(ctx, caller.TenantID, id)

	audit.Log(ctx, audit.EventStaffDeleted,
		logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(id))
	return nil
}

func (s *staffService) ToggleActive(ctx context.Context, caller types.Caller, id string) (dto.StaffView, error) {
	if err := requireOwner(ctx, caller, "ToggleActive"); err != nil {
		return dto.StaffView{}, err
	}
	scope := caller.Scope()

	target, err := s.load(ctx, scope, id)
	if err != nil {
		return dto.StaffView{}, err
	}
	if err := protectOwner(ctx, s.deps.Metrics, caller, target.Role, target.ID, "ToggleActive"); err != nil {
		return dto.StaffView{}, err
	}

	next := !target.Active
	acc, err := s.deps.Store.Accounts().UpdateStaff(ctx, scope, id, repository.UpdateStaffInput{Active: &next})
	if err != nil {
		return dto.StaffView{}, mapAccountErr(err, "toggle active")
	}
	event := audit.EventStaffActivated
	if !next {
		s.revoke(ctx, scope, acc.ID)
		event = audit.EventStaffDeactivated
	}
	s.deps.Invalidator.InvalidateAccount(ctx, caller.TenantID, acc.ID)

	audit.Log(ctx, event,
		logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(acc.ID))
	return s.view(ctx, scope, acc), nil
}

// revoke vacía el marcador: los refresh tokens emitidos dejan de servir.
func (s *staffService) revoke(ctx context.Context, scope types.Scope, id string) {
	if err := s.deps.Store.Accounts().ClearRefreshMarker(ctx, scope, id); err != nil && !repository.IsNotFound(err) {
		logger.From(ctx).Error("clear refresh marker failed",
			logger.Component("admin.staff"), logger.TargetID(id), logger.Err(err))
	}
}

func (s *staffService) load(ctx context.Context, scope types.Scope, id string) (*repository.Account, error) {
	acc, err := s.deps.Store.Accounts().Get(ctx, scope, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	// los usuarios genéricos no se administran desde acá
	if acc.Role != types.RoleStaff && acc.Role != types.RoleOwner {
		return nil, ErrNotFound
	}
	return acc, nil
}

func (s *staffService) roleInTenant(ctx context.Context, scope types.Scope, roleID string) (*repository.Role, error) {
	if roleID == "" {
		return nil, ErrMissingFields
	}
	role, err := s.deps.Store.Roles().Get(ctx, scope, roleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: staff role", ErrNotFound)
		}
		return nil, fmt.Errorf("load role: %w", err)
	}
	return role, nil
}

func (s *staffService) view(ctx context.Context, scope types.Scope, acc *repository.Account) dto.StaffView {
	names := map[string]string{}
	if acc.RoleID != "" {
		if r, err := s.deps.Store.Roles().Get(ctx, scope, acc.RoleID); err == nil {
			names[r.ID] = r.Name
		}
	}
	return staffView(acc, names)
}

func mapAccountErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func staffView(a *repository.Account, roleNames map[string]string) dto.StaffView {
	v := dto.StaffView{
		ID:           a.ID,
		Email:        a.Email,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		ProfileImage: a.ProfileImage,
		Role:         string(a.Role),
		OrgID:        a.TenantID,
		IsActive:     a.Active,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if name, ok := roleNames[a.RoleID]; ok && a.RoleID != "" {
		v.StaffRole = &dto.RoleRef{ID: a.RoleID, Name: name}
	}
	return v
}
