package middlewares

import (
	"context"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

type ctxKey string

const (
	// ctxCallerKey guarda el Caller verificado (y resuelto, para STAFF)
	ctxCallerKey ctxKey = "caller"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxRequestInfoKey guarda datos que el log de fin de request completa tarde
	ctxRequestInfoKey ctxKey = "request_info"
)

// requestInfo lo crea WithLogging y lo completa RequireAuth.
type requestInfo struct {
	accountID string
	tenantID  int64
}

// WithCaller inyecta el caller en el contexto.
func WithCaller(ctx context.Context, c types.Caller) context.Context {
	if info, ok := ctx.Value(ctxRequestInfoKey).(*requestInfo); ok {
		info.accountID = c.AccountID
		info.tenantID = c.TenantID
	}
	return context.WithValue(ctx, ctxCallerKey, c)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetCaller obtiene el caller del contexto. ok=false si la ruta no pasó por RequireAuth.
func GetCaller(ctx context.Context) (types.Caller, bool) {
	c, ok := ctx.Value(ctxCallerKey).(types.Caller)
	return c, ok
}

// MustGetCaller obtiene el caller o hace panic.
// Usar solo en rutas donde RequireAuth SIEMPRE se aplica.
func MustGetCaller(ctx context.Context) types.Caller {
	c, ok := GetCaller(ctx)
	if !ok {
		panic("middlewares: no caller in context")
	}
	return c
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}
