package lab

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/lab"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/validation"
)

const maxDescriptionLen = 500

// DepartmentService administra departamentos del tenant (entidad department).
type DepartmentService interface {
	List(ctx context.Context, caller types.Caller) ([]dto.DepartmentView, error)
	Create(ctx context.Context, caller types.Caller, in dto.DepartmentRequest) (dto.DepartmentView, error)
	Update(ctx context.Context, caller types.Caller, id string, in dto.DepartmentRequest) (dto.DepartmentView, error)
	Delete(ctx context.Context, caller types.Caller, id string) error
}

type departmentService struct {
	store repository.Store
	gate  gate
}

func (s *departmentService) List(ctx context.Context, caller types.Caller) ([]dto.DepartmentView, error) {
	if err := s.gate.check(ctx, caller, types.EntityDepartment, types.ActionRead); err != nil {
		return nil, err
	}
	ds, err := s.store.Departments().List(ctx, caller.Scope())
	if err != nil {
		return nil, mapStoreErr(err, "list departments")
	}
	out := make([]dto.DepartmentView, 0, len(ds))
	for i := range ds {
		out = append(out, departmentView(&ds[i]))
	}
	return out, nil
}

func (s *departmentService) Create(ctx context.Context, caller types.Caller, in dto.DepartmentRequest) (dto.DepartmentView, error) {
	if err := s.gate.check(ctx, caller, types.EntityDepartment, types.ActionCreate); err != nil {
		return dto.DepartmentView{}, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return dto.DepartmentView{}, ErrMissingFields
	}
	upd, err := departmentInput(in)
	if err != nil {
		return dto.DepartmentView{}, err
	}
	d, err := s.store.Departments().Create(ctx, caller.Scope(), upd)
	if err != nil {
		return dto.DepartmentView{}, mapStoreErr(err, "create department")
	}
	logger.From(ctx).Info("department created",
		logger.Layer("service"), logger.Component("lab.departments"),
		logger.TenantID(caller.TenantID), logger.TargetID(d.ID))
	return departmentView(d), nil
}

func (s *departmentService) Update(ctx context.Context, caller types.Caller, id string, in dto.DepartmentRequest) (dto.DepartmentView, error) {
	if err := s.gate.check(ctx, caller, types.EntityDepartment, types.ActionUpdate); err != nil {
		return dto.DepartmentView{}, err
	}
	if in.Name == nil && in.Description == nil && in.Icon == nil {
		return dto.DepartmentView{}, ErrMissingFields
	}
	upd, err := departmentInput(in)
	if err != nil {
		return dto.DepartmentView{}, err
	}
	d, err := s.store.Departments().Update(ctx, caller.Scope(), id, upd)
	if err != nil {
		return dto.DepartmentView{}, mapStoreErr(err, "update department")
	}
	return departmentView(d), nil
}

func (s *departmentService) Delete(ctx context.Context, caller types.Caller, id string) error {
	if err := s.gate.check(ctx, caller, types.EntityDepartment, types.ActionDelete); err != nil {
		return err
	}
	if err := s.store.Departments().Delete(ctx, caller.Scope(), id); err != nil {
		return mapStoreErr(err, "delete department")
	}
	return nil
}

func departmentInput(in dto.DepartmentRequest) (repository.DepartmentInput, error) {
	var out repository.DepartmentInput
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if !validation.ValidName(v) {
			return out, fmt.Errorf("%w: name", ErrInvalid)
		}
		out.Name = &v
	}
	if in.Description != nil {
		v := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(v) > maxDescriptionLen {
			return out, fmt.Errorf("%w: description", ErrInvalid)
		}
		out.Description = &v
	}
	if in.Icon != nil {
		v := strings.TrimSpace(*in.Icon)
		if utf8.RuneCountInString(v) > 16 {
			return out, fmt.Errorf("%w: icon", ErrInvalid)
		}
		out.Icon = &v
	}
	return out, nil
}

func departmentView(d *repository.Department) dto.DepartmentView {
	return dto.DepartmentView{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
