// Package lab expone departamentos y pacientes, con permisos por entidad.
package lab

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	httperrors "github.com/dropDatabas3/labauth/internal/http/errors"
	svc "github.com/dropDatabas3/labauth/internal/http/services/lab"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// Controllers agrupa los controllers lab.
type Controllers struct {
	Departments *DepartmentsController
	Patients    *PatientsController
}

// NewControllers crea el agregador.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Departments: &DepartmentsController{service: s.Departments},
		Patients:    &PatientsController{service: s.Patients},
	}
}

func writeServiceError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, svc.ErrNameTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalid):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail(err.Error()))
	default:
		log.Error("lab service error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
