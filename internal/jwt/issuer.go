// Package jwt emite y verifica los tokens bearer (access y refresh).
//
// La configuración (secreto, issuer, TTL de refresh y reloj) se pasa una sola
// vez en New y queda inmutable. No hay singletons de firma.
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/labauth/internal/domain/types"
)

// Kind distingue access de refresh. Viaja en el claim token_use.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	// AccessTTL es fijo: no es configurable.
	AccessTTL = 30 * time.Minute
	// DefaultRefreshTTL se usa si Config.RefreshTTL es cero.
	DefaultRefreshTTL = 720 * time.Hour
)

// ErrMissingSecret es un error de configuración, no de validación.
var ErrMissingSecret = errors.New("jwt: signing secret is required")

// Config es la política de firma.
type Config struct {
	Secret     []byte
	Issuer     string
	RefreshTTL time.Duration
	// Now permite inyectar un reloj. nil = time.Now.
	Now func() time.Time
}

// Claims es el payload firmado.
type Claims struct {
	TenantID int64  `json:"tid"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Use      Kind   `json:"token_use"`
	jwtv5.RegisteredClaims
}

// Payload es la vista verificada de un token.
type Payload struct {
	ID        string
	AccountID string
	TenantID  int64
	Role      types.CoarseRole
	Email     string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Caller proyecta el payload a la identidad de request (sin matriz).
func (p Payload) Caller() types.Caller {
	return types.Caller{
		AccountID: p.AccountID,
		TenantID:  p.TenantID,
		Role:      p.Role,
		Email:     p.Email,
	}
}

// Issuer firma y verifica tokens HS256.
type Issuer struct {
	secret     []byte
	iss        string
	refreshTTL time.Duration
	now        func() time.Time
}

// New valida la configuración y devuelve un Issuer listo.
func New(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	i := &Issuer{
		secret:     append([]byte(nil), cfg.Secret...),
		iss:        strings.TrimSpace(cfg.Issuer),
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
	if i.refreshTTL <= 0 {
		i.refreshTTL = DefaultRefreshTTL
	}
	if i.now == nil {
		i.now = time.Now
	}
	return i, nil
}

// RefreshTTL devuelve el TTL efectivo de refresh (útil para cookies).
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess emite un access token de 30 minutos.
func (i *Issuer) IssueAccess(accountID string, tenantID int64, role types.CoarseRole, email string) (string, time.Time, error) {
	return i.issue(KindAccess, AccessTTL, accountID, tenantID, role, email)
}

// IssueRefresh emite un refresh token con el TTL de la política.
func (i *Issuer) IssueRefresh(accountID string, tenantID int64, role types.CoarseRole, email string) (string, time.Time, error) {
	return i.issue(KindRefresh, i.refreshTTL, accountID, tenantID, role, email)
}

func (i *Issuer) issue(kind Kind, ttl time.Duration, sub string, tid int64, role types.CoarseRole, email string) (string, time.Time, error) {
	if sub == "" || tid <= 0 || !role.IsValid() {
		return "", time.Time{}, fmt.Errorf("jwt: incomplete identity (sub=%q tid=%d role=%q)", sub, tid, role)
	}
	now := i.now().UTC()
	exp := now.Add(ttl)

	claims := Claims{
		TenantID: tid,
		Role:     string(role),
		Email:    email,
		Use:      kind,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.iss,
			Subject:   sub,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}
