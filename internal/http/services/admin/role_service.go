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
	"github.com/dropDatabas3/labauth/internal/validation"
)

// RoleService administra los roles custom del tenant.
type RoleService interface {
	List(ctx context.Context, caller types.Caller) ([]dto.RoleView, error)
	Create(ctx context.Context, caller types.Caller, in dto.RoleRequest) (dto.RoleView, error)
	Update(ctx context.Context, caller types.Caller, id string, in dto.RoleRequest) (dto.RoleView, error)
	Delete(ctx context.Context, caller types.Caller, id string) error
}

type roleService struct {
	deps Deps
}

// NewRoleService crea el service de roles.
func NewRoleService(deps Deps) RoleService {
	return &roleService{deps: deps}
}

func (s *roleService) List(ctx context.Context, caller types.Caller) ([]dto.RoleView, error) {
	if err := requireOwner(ctx, caller, "ListRoles"); err != nil {
		return nil, err
	}
	roles, err := s.deps.Store.Roles().List(ctx, caller.Scope())
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]dto.RoleView, 0, len(roles))
	for i := range roles {
		out = append(out, roleView(&roles[i]))
	}
	return out, nil
}

func (s *roleService) Create(ctx context.Context, caller types.Caller, in dto.RoleRequest) (dto.RoleView, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.roles"),
		logger.Op("CreateRole"),
		logger.TenantID(caller.TenantID),
	)
	if err := requireOwner(ctx, caller, "CreateRole"); err != nil {
		return dto.RoleView{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(in.Permissions) == 0 {
		return dto.RoleView{}, ErrMissingFields
	}
	if !validation.ValidName(name) {
		return dto.RoleView{}, fmt.Errorf("%w: name", ErrInvalid)
	}
	m, err := types.ParseMatrix(in.Permissions)
	if err != nil {
		return dto.RoleView{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	role, err := s.deps.Store.Roles().Create(ctx, caller.Scope(), repository.RoleInput{Name: name, Permissions: m})
	if err != nil {
		return dto.RoleView{}, mapRoleErr(err, "create role")
	}

	audit.Log(ctx, audit.EventRoleCreated, logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(role.ID))
	log.Info("role created", logger.TargetID(role.ID))
	return roleView(role), nil
}

func (s *roleService) Update(ctx context.Context, caller types.Caller, id string, in dto.RoleRequest) (dto.RoleView, error) {
	if err := requireOwner(ctx, caller, "UpdateRole"); err != nil {
		return dto.RoleView{}, err
	}

	var upd repository.RoleInput
	if in.Name != "" {
		upd.Name = strings.TrimSpace(in.Name)
		if !validation.ValidName(upd.Name) {
			return dto.RoleView{}, fmt.Errorf("%w: name", ErrInvalid)
		}
	}
	if len(in.Permissions) > 0 {
		m, err := types.ParseMatrix(in.Permissions)
		if err != nil {
			return dto.RoleView{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		upd.Permissions = m
	}
	if upd.Name == "" && upd.Permissions == nil {
		return dto.RoleView{}, ErrMissingFields
	}

	role, err := s.deps.Store.Roles().Update(ctx, caller.Scope(), id, upd)
	if err != nil {
		return dto.RoleView{}, mapRoleErr(err, "update role")
	}
	s.deps.Invalidator.InvalidateRole(ctx, caller.TenantID, role.ID)
	audit.Log(ctx, audit.EventRoleUpdated, logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(role.ID))
	return roleView(role), nil
}

func (s *roleService) Delete(ctx context.Context, caller types.Caller, id string) error {
	if err := requireOwner(ctx, caller, "DeleteRole"); err != nil {
		return err
	}
	err := s.deps.Store.Roles().Delete(ctx, caller.Scope(), id)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrConflict):
		return ErrRoleInUse
	default:
		return mapRoleErr(err, "delete role")
	}
	s.deps.Invalidator.InvalidateRole(ctx, caller.TenantID, id)
	audit.Log(ctx, audit.EventRoleDeleted, logger.TenantID(caller.TenantID), logger.AccountID(caller.AccountID), logger.TargetID(id))
	return nil
}

func mapRoleErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrNameTaken
	case errors.Is(err, repository.ErrInvalidInput), errors.Is(err, types.ErrInvalidMatrix):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func roleView(r *repository.Role) dto.RoleView {
	return dto.RoleView{
		ID:          r.ID,
		Name:        r.Name,
		OrgID:       r.TenantID,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
