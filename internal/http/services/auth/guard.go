package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dropDatabas3/labauth/internal/domain/types"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
)

// Guard autentica requests a partir del access token.
// No hace I/O contra el store: la identidad sale solo del token.
type Guard interface {
	AuthenticateRequest(ctx context.Context, rawAccessToken string) (types.Caller, error)
}

type guard struct {
	issuer  *jwtx.Issuer
	metrics *metrics.Metrics
}

// NewGuard crea el guard de access tokens.
func NewGuard(issuer *jwtx.Issuer, m *metrics.Metrics) Guard {
	return &guard{issuer: issuer, metrics: m}
}

func (g *guard) AuthenticateRequest(ctx context.Context, raw string) (types.Caller, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.guard"),
		logger.Op("AuthenticateRequest"),
	)

	if raw == "" {
		g.reject(log, "missing")
		return types.Caller{}, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrMissingToken)
	}

	p, err := g.issuer.Verify(raw, jwtx.KindAccess)
	if err != nil {
		g.reject(log, jwtx.Reason(err))
		return types.Caller{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return p.Caller(), nil
}

func (g *guard) reject(log *zap.Logger, reason string) {
	log.Info("access token rejected", logger.Reason(reason))
	g.metrics.AuthFailure(reason)
}

// FailureReason devuelve la etiqueta de la causa de un ErrUnauthenticated.
func FailureReason(err error) string {
	if errors.Is(err, ErrMissingToken) {
		return "missing"
	}
	return jwtx.Reason(err)
}
