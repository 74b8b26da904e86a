package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/lab"
	"github.com/dropDatabas3/labauth/internal/validation"
)

// PatientService administra pacientes del tenant (entidad patient).
type PatientService interface {
	List(ctx context.Context, caller types.Caller) ([]dto.PatientView, error)
	Get(ctx context.Context, caller types.Caller, id string) (dto.PatientView, error)
	Create(ctx context.Context, caller types.Caller, in dto.PatientRequest) (dto.PatientView, error)
	Update(ctx context.Context, caller types.Caller, id string, in dto.PatientRequest) (dto.PatientView, error)
	Delete(ctx context.Context, caller types.Caller, id string) error
}

type patientService struct {
	store repository.Store
	gate  gate
}

func (s *patientService) List(ctx context.Context, caller types.Caller) ([]dto.PatientView, error) {
	if err := s.gate.check(ctx, caller, types.EntityPatient, types.ActionRead); err != nil {
		return nil, err
	}
	ps, err := s.store.Patients().List(ctx, caller.Scope())
	if err != nil {
		return nil, mapStoreErr(err, "list patients")
	}
	out := make([]dto.PatientView, 0, len(ps))
	for i := range ps {
		out = append(out, patientView(&ps[i]))
	}
	return out, nil
}

func (s *patientService) Get(ctx context.Context, caller types.Caller, id string) (dto.PatientView, error) {
	if err := s.gate.check(ctx, caller, types.EntityPatient, types.ActionRead); err != nil {
		return dto.PatientView{}, err
	}
	p, err := s.store.Patients().Get(ctx, caller.Scope(), id)
	if err != nil {
		return dto.PatientView{}, mapStoreErr(err, "get patient")
	}
	return patientView(p), nil
}

func (s *patientService) Create(ctx context.Context, caller types.Caller, in dto.PatientRequest) (dto.PatientView, error) {
	if err := s.gate.check(ctx, caller, types.EntityPatient, types.ActionCreate); err != nil {
		return dto.PatientView{}, err
	}
	if in.FirstName == nil || strings.TrimSpace(*in.FirstName) == "" {
		return dto.PatientView{}, ErrMissingFields
	}
	pin, err := patientInput(in)
	if err != nil {
		return dto.PatientView{}, err
	}
	p, err := s.store.Patients().Create(ctx, caller.Scope(), pin)
	if err != nil {
		return dto.PatientView{}, mapStoreErr(err, "create patient")
	}
	return patientView(p), nil
}

func (s *patientService) Update(ctx context.Context, caller types.Caller, id string, in dto.PatientRequest) (dto.PatientView, error) {
	if err := s.gate.check(ctx, caller, types.EntityPatient, types.ActionUpdate); err != nil {
		return dto.PatientView{}, err
	}
	pin, err := patientInput(in)
	if err != nil {
		return dto.PatientView{}, err
	}
	if pin == (repository.PatientInput{}) {
		return dto.PatientView{}, ErrMissingFields
	}
	p, err := s.store.Patients().Update(ctx, caller.Scope(), id, pin)
	if err != nil {
		return dto.PatientView{}, mapStoreErr(err, "update patient")
	}
	return patientView(p), nil
}

func (s *patientService) Delete(ctx context.Context, caller types.Caller, id string) error {
	if err := s.gate.check(ctx, caller, types.EntityPatient, types.ActionDelete); err != nil {
		return err
	}
	if err := s.store.Patients().Delete(ctx, caller.Scope(), id); err != nil {
		return mapStoreErr(err, "delete patient")
	}
	return nil
}

func patientInput(in dto.PatientRequest) (repository.PatientInput, error) {
	var out repository.PatientInput
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if !validation.ValidName(v) {
			return out, fmt.Errorf("%w: firstName", ErrInvalid)
		}
		out.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v != "" && !validation.ValidName(v) {
			return out, fmt.Errorf("%w: lastName", ErrInvalid)
		}
		out.LastName = &v
	}
	if in.Phone != nil {
		v := strings.TrimSpace(*in.Phone)
		if len(v) > 32 {
			return out, fmt.Errorf("%w: phone", ErrInvalid)
		}
		out.Phone = &v
	}
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		if v != "" && !validation.ValidEmail(v) {
			return out, fmt.Errorf("%w: email", ErrInvalid)
		}
		out.Email = &v
	}
	return out, nil
}

func patientView(p *repository.Patient) dto.PatientView {
	return dto.PatientView{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
