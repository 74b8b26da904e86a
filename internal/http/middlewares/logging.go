package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/labauth/internal/http/helpers"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// statusRecorder captura el status code y bytes escritos de la respuesta.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.status = http.StatusOK
		s.wroteHeader = true
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// LoggingConfig configura WithLogging.
type LoggingConfig struct {
	Metrics *metrics.Metrics
	// TenantHintHeader (ej: X-Org-Id) se loguea tal cual llega. No autoriza nada.
	TenantHintHeader string
}

// WithLogging inyecta un logger scoped (request_id, method, path) en el
// contexto y registra el fin de cada request. Tenant y account se agregan
// al log final si RequireAuth identificó al caller.
func WithLogging(cfg LoggingConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := w.Header().Get("X-Request-ID")
			if requestID == "" {
				requestID = GetRequestID(r.Context())
			}

			reqLog := logger.L().With(
				logger.RequestID(requestID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			if cfg.TenantHintHeader != "" {
				if hint := strings.TrimSpace(r.Header.Get(cfg.TenantHintHeader)); hint != "" {
					reqLog = reqLog.With(logger.TenantHint(hint))
				}
			}

			info := &requestInfo{}
			ctx := logger.ToContext(r.Context(), reqLog)
			ctx = context.WithValue(ctx, ctxRequestInfoKey, info)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			dur := time.Since(start)
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			cfg.Metrics.ObserveHTTP(r.Method, route, rec.status, dur)

			fields := []zap.Field{
				logger.Status(rec.status),
				logger.Bytes(rec.bytes),
				logger.DurationMs(dur.Milliseconds()),
				logger.ClientIP(helpers.ClientIP(r)),
			}
			if info.accountID != "" {
				fields = append(fields, logger.AccountID(info.accountID), logger.TenantID(info.tenantID))
			}
			switch {
			case rec.status >= 500:
				reqLog.Error("request failed", fields...)
			default:
				reqLog.Info("request completed", fields...)
			}
		})
	}
}
