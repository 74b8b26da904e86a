package admin

import (
	"context"
	"errors"

	"github.com/dropDatabas3/labauth/internal/audit"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

var (
	ErrForbidden = errors.New("owner role required")
	// ErrOwnerProtected: ninguna operación de administración modifica una cuenta OWNER.
	ErrOwnerProtected = errors.New("owner accounts cannot be modified by administration operations")
	ErrNotFound       = errors.New("not found")
	ErrRoleInUse      = errors.New("role is assigned to accounts")
	ErrNameTaken      = errors.New("name already exists")
	ErrEmailTaken     = errors.New("email already registered")
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalid        = errors.New("invalid input")
	ErrWeakPassword   = errors.New("password does not satisfy policy")
)

func requireOwner(ctx context.Context, caller types.Caller, op string) error {
	if caller.IsOwner() {
		return nil
	}
	audit.Log(ctx, audit.EventPermissionDenied,
		logger.AccountID(caller.AccountID),
		logger.TenantID(caller.TenantID),
		logger.Op(op),
		logger.Reason("owner_required"),
	)
	return ErrForbidden
}

// protectOwner rechaza toda mutación sobre una cuenta OWNER.
func protectOwner(ctx context.Context, m *metrics.Metrics, caller types.Caller, target types.CoarseRole, targetID, op string) error {
	if target != types.RoleOwner {
		return nil
	}
	m.OwnerProtected()
	audit.Log(ctx, audit.EventOwnerProtected,
		logger.AccountID(caller.AccountID),
		logger.TenantID(caller.TenantID),
		logger.TargetID(targetID),
		logger.Op(op),
	)
	return ErrOwnerProtected
}
