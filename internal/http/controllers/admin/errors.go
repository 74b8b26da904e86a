package admin

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	httperrors "github.com/dropDatabas3/labauth/internal/http/errors"
	svc "github.com/dropDatabas3/labauth/internal/http/services/admin"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

func writeServiceError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)
	case errors.Is(err, svc.ErrOwnerProtected):
		httperrors.WriteError(w, httperrors.ErrOwnerProtected)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrNameTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrRoleInUse):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrInvalid):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail(err.Error()))
	default:
		log.Error("admin service error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
