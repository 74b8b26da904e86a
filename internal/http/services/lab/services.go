// Package lab contiene los services de entidades del laboratorio
// (departamentos, pacientes). Cada operación pasa por el evaluador RBAC
// con la entidad y acción correspondientes.
package lab

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/labauth/internal/audit"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/rbac"
)

var (
	ErrForbidden     = errors.New("permission denied")
	ErrNotFound      = errors.New("not found")
	ErrNameTaken     = errors.New("name already exists")
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalid       = errors.New("invalid input")
)

// Deps contiene las dependencias para crear los services lab.
type Deps struct {
	Store     repository.Store
	Evaluator rbac.Evaluator // nil = rbac.NewEvaluator()
	Metrics   *metrics.Metrics
}

// Services agrupa todos los services del dominio lab.
type Services struct {
	Departments DepartmentService
	Patients    PatientService
}

// NewServices crea el agregador de services lab.
func NewServices(d Deps) Services {
	if d.Evaluator == nil {
		d.Evaluator = rbac.NewEvaluator()
	}
	g := gate{eval: d.Evaluator, metrics: d.Metrics}
	return Services{
		Departments: &departmentService{store: d.Store, gate: g},
		Patients:    &patientService{store: d.Store, gate: g},
	}
}

type gate struct {
	eval    rbac.Evaluator
	metrics *metrics.Metrics
}

// check devuelve ErrForbidden si el caller no tiene entity.action.
func (g gate) check(ctx context.Context, caller types.Caller, entity types.Entity, action types.Action) error {
	if g.eval.HasPermission(caller, entity, action) {
		return nil
	}
	g.metrics.Denied(string(entity), string(action))
	audit.Log(ctx, audit.EventPermissionDenied,
		logger.AccountID(caller.AccountID),
		logger.TenantID(caller.TenantID),
		logger.Role(string(caller.Role)),
		logger.Entity(string(entity)),
		logger.Action(string(action)),
	)
	return ErrForbidden
}

func mapStoreErr(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrNameTaken
	case errors.Is(err, repository.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
