package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthenticated cubre token ausente, inválido o vencido. La causa
	// concreta va envuelta (jwt.ErrExpired, ErrMissingToken...) para logs.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrMissingToken    = errors.New("missing bearer token")
	// ErrSessionRevoked: el refresh token es válido pero la cuenta cerró sesión.
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidField       = errors.New("invalid field")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not satisfy policy")
)

// RetryAfterError acompaña a ErrRateLimited con el tiempo de espera.
type RetryAfterError struct {
	After time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("%v (retry after %s)", ErrRateLimited, e.After)
}

func (e *RetryAfterError) Is(target error) bool { return target == ErrRateLimited }

// PolicyError lista los motivos de rechazo de una contraseña.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrWeakPassword, e.Reasons)
}

func (e *PolicyError) Is(target error) bool { return target == ErrWeakPassword }
