package middlewares

import (
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/labauth/internal/audit"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	"github.com/dropDatabas3/labauth/internal/http/errors"
	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// RequireAuth valida Authorization: Bearer <JWT> con el guard y, para STAFF,
// carga el rol vigente con el resolver. El Caller queda en el contexto.
func RequireAuth(guard auth.Guard, resolver auth.Resolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			caller, err := guard.AuthenticateRequest(ctx, helpers.BearerToken(r))
			if err != nil {
				writeUnauthenticated(w, err)
				return
			}
			if resolver != nil {
				caller, err = resolver.Resolve(ctx, caller)
				if err != nil {
					if stderrors.Is(err, auth.ErrUnauthenticated) {
						writeUnauthenticated(w, err)
						return
					}
					logger.From(ctx).Error("resolve caller failed", logger.Err(err))
					errors.WriteError(w, errors.ErrInternalServerError.WithCause(err))
					return
				}
			}

			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.AccountID(caller.AccountID),
				logger.TenantID(caller.TenantID),
			))
			next.ServeHTTP(w, r.WithContext(WithCaller(ctx, caller)))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, auth.ErrMissingToken):
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
		errors.WriteError(w, errors.ErrTokenMissing)
	case stderrors.Is(err, jwtx.ErrExpired):
		w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="token expired"`)
		errors.WriteError(w, errors.ErrTokenExpired)
	default:
		w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
		errors.WriteError(w, errors.ErrTokenInvalid)
	}
}

// RequireRole verifica que el caller tenga alguno de los roles gruesos.
// Debe usarse después de RequireAuth.
func RequireRole(roles ...types.CoarseRole) Middleware {
	allowed := make(map[types.CoarseRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := GetCaller(r.Context())
			if !ok {
				writeUnauthenticated(w, auth.ErrMissingToken)
				return
			}
			if _, ok := allowed[caller.Role]; !ok {
				audit.Log(r.Context(), audit.EventPermissionDenied,
					logger.Role(string(caller.Role)),
					logger.Path(r.URL.Path),
					logger.Reason("role_required"),
				)
				errors.WriteError(w, errors.ErrForbidden.WithDetail("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner es RequireRole(OWNER).
func RequireOwner() Middleware { return RequireRole(types.RoleOwner) }
