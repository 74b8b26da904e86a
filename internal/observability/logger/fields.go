package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field       { return zap.String("request_id", v) }
func Method(v string) zap.Field          { return zap.String("method", v) }
func Path(v string) zap.Field            { return zap.String("path", v) }
func Status(v int) zap.Field             { return zap.Int("status", v) }
func Bytes(v int) zap.Field              { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field        { return zap.String("client_ip", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }
func DurationMs(v int64) zap.Field       { return zap.Int64("duration_ms", v) }

// =================================================================================
// NEGOCIO
// =================================================================================

// TenantID es el id de organización del caller verificado.
func TenantID(v int64) zap.Field { return zap.Int64("tenant_id", v) }

// TenantHint es el header x-org-id enviado por el cliente. Nunca se usa para autorizar.
func TenantHint(v string) zap.Field { return zap.String("tenant_hint", v) }

func AccountID(v string) zap.Field { return zap.String("account_id", v) }
func TargetID(v string) zap.Field  { return zap.String("target_id", v) }
func Role(v string) zap.Field      { return zap.String("role", v) }
func Entity(v string) zap.Field    { return zap.String("entity", v) }
func Action(v string) zap.Field    { return zap.String("action", v) }

// Email: usar con cuidado en prod.
func Email(v string) zap.Field { return zap.String("email", v) }

// Reason etiqueta el motivo de un rechazo (expired, bad_signature, inactive...).
func Reason(v string) zap.Field { return zap.String("reason", v) }

// =================================================================================
// SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }

func String(key, v string) zap.Field  { return zap.String(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
