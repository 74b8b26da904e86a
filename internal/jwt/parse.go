package jwt

import (
	"errors"
	"strings"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// Causas de rechazo. Todas significan "token inválido" para el caller;
// se distinguen para logging.
var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
	ErrMalformed    = errors.New("token malformed")
)

// Verify valida firma, expiración y tipo. Un token del tipo equivocado
// se reporta como ErrMalformed.
func (i *Issuer) Verify(raw string, kind Kind) (Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Payload{}, ErrMalformed
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(i.now),
		jwtv5.WithExpirationRequired(),
	}
	if i.iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.iss))
	}

	var claims Claims
	tok, err := jwtv5.ParseWithClaims(raw, &claims, func(*jwtv5.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return Payload{}, classify(err)
	}
	if !tok.Valid {
		return Payload{}, ErrMalformed
	}

	if claims.Use != kind {
		return Payload{}, ErrMalformed
	}
	role, ok := types.ParseCoarseRole(claims.Role)
	if !ok || claims.Subject == "" || claims.TenantID <= 0 {
		return Payload{}, ErrMalformed
	}

	p := Payload{
		ID:        claims.ID,
		AccountID: claims.Subject,
		TenantID:  claims.TenantID,
		Role:      role,
		Email:     claims.Email,
		Kind:      claims.Use,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid), errors.Is(err, jwtv5.ErrTokenUnverifiable):
		return ErrBadSignature
	default:
		return ErrMalformed
	}
}

// Reason devuelve una etiqueta corta para logs y métricas.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
