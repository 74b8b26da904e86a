package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	httperrors "github.com/dropDatabas3/labauth/internal/http/errors"
	"github.com/dropDatabas3/labauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/labauth/internal/http/services/auth"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// writeServiceError traduce los errores del service al catálogo HTTP.
func writeServiceError(w http.ResponseWriter, err error, log *zap.Logger) {
	var (
		retry  *svc.RetryAfterError
		policy *svc.PolicyError
	)
	switch {
	case errors.As(err, &retry):
		middlewares.SetRetryAfter(w, retry.After.Seconds())
		httperrors.WriteError(w, httperrors.ErrTooManyRequests)
	case errors.As(err, &policy):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak.WithDetail(strings.Join(policy.Reasons, ",")))
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrInvalidEmail), errors.Is(err, svc.ErrInvalidField):
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrAccountInactive):
		httperrors.WriteError(w, httperrors.ErrAccountSuspended)
	case errors.Is(err, svc.ErrSessionRevoked):
		httperrors.WriteError(w, httperrors.ErrSessionRevoked)
	case errors.Is(err, svc.ErrMissingToken):
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
	case errors.Is(err, svc.ErrUnauthenticated):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)
	default:
		log.Error("auth service error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
