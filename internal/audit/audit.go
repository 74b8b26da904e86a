// Package audit registra eventos administrativos relevantes para auditoría.
//
// Los eventos salen por el logger del request con component=audit, así
// comparten request_id y tenant con el resto de los logs.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// Eventos conocidos.
const (
	EventOwnerProtected   = "owner_protected"
	EventRoleCreated      = "role_created"
	EventRoleUpdated      = "role_updated"
	EventRoleDeleted      = "role_deleted"
	EventStaffCreated     = "staff_created"
	EventStaffUpdated     = "staff_updated"
	EventStaffDeleted     = "staff_deleted"
	EventStaffDeactivated = "staff_deactivated"
	EventStaffActivated   = "staff_activated"
	EventOrgCreated       = "organization_created"
	EventPermissionDenied = "permission_denied"
)

// Log emite el evento. Los rechazos (owner_protected, permission_denied)
// salen en warn, el resto en info.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	l := logger.From(ctx).With(logger.Component("audit"))
	fields = append(fields, zap.String("event", event))
	switch event {
	case EventOwnerProtected, EventPermissionDenied:
		l.Warn("audit", fields...)
	default:
		l.Info("audit", fields...)
	}
}
