package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/metrics"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/rate"
	"github.com/dropDatabas3/labauth/internal/security/password"
	tokens "github.com/dropDatabas3/labauth/internal/security/token"
	"github.com/dropDatabas3/labauth/internal/util"
)

// SessionService maneja el ciclo de sesión sobre el marcador de refresh
// de la cuenta: login lo setea, logout lo vacía, refresh exige que no esté vacío.
type SessionService interface {
	Login(ctx context.Context, in dto.LoginRequest, clientIP string) (*dto.LoginResult, error)
	Refresh(ctx context.Context, rawRefreshToken string) (token string, expiresAt time.Time, err error)
	Logout(ctx context.Context, caller types.Caller) error
}

// SessionDeps contiene las dependencias del service de sesión.
type SessionDeps struct {
	Store   repository.Store
	Issuer  *jwtx.Issuer
	Hasher  password.Hasher
	Limiter rate.Limiter
	Metrics *metrics.Metrics
}

type sessionService struct {
	deps SessionDeps

	dummyOnce sync.Once
	dummyHash string
}

// NewSessionService crea el service de sesión.
func NewSessionService(deps SessionDeps) SessionService {
	return &sessionService{deps: deps}
}

func (s *sessionService) Login(ctx context.Context, in dto.LoginRequest, clientIP string) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("Login"),
	)

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	log = log.With(logger.Email(util.MaskEmail(email)))

	if s.deps.Limiter != nil {
		res, err := s.deps.Limiter.Allow(ctx, "login:"+clientIP+"|"+email)
		switch {
		case err != nil:
			// limiter caído: se deja pasar
			log.Warn("login rate limiter failed", logger.Err(err))
		case !res.Allowed:
			log.Warn("login rate limited", logger.ClientIP(clientIP))
			s.deps.Metrics.Login("rate_limited")
			return nil, &RetryAfterError{After: res.RetryAfter}
		}
	}

	acc, err := s.deps.Store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			// mismo costo que un password incorrecto
			s.deps.Hasher.Verify(in.Password, s.dummy())
			log.Info("login rejected", logger.Reason("unknown_email"))
			s.deps.Metrics.Login("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		s.deps.Metrics.Login("error")
		return nil, fmt.Errorf("load account: %w", err)
	}

	if !s.deps.Hasher.Verify(in.Password, acc.PasswordHash) {
		log.Info("login rejected", logger.Reason("bad_password"), logger.AccountID(acc.ID))
		s.deps.Metrics.Login("invalid_credentials")
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		log.Info("login rejected", logger.Reason("inactive"), logger.AccountID(acc.ID))
		s.deps.Metrics.Login("inactive")
		return nil, ErrAccountInactive
	}

	res, err := startSession(ctx, s.deps.Store, s.deps.Issuer, acc)
	if err != nil {
		s.deps.Metrics.Login("error")
		return nil, err
	}
	s.deps.Metrics.Login("success")
	log.Info("login ok", logger.AccountID(acc.ID), logger.TenantID(acc.TenantID), logger.Role(string(acc.Role)))
	return res, nil
}

func (s *sessionService) Refresh(ctx context.Context, raw string) (string, time.Time, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("Refresh"),
	)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		s.deps.Metrics.Refresh("missing")
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrMissingToken)
	}

	p, err := s.deps.Issuer.Verify(raw, jwtx.KindRefresh)
	if err != nil {
		log.Info("refresh rejected", logger.Reason(jwtx.Reason(err)))
		s.deps.Metrics.Refresh(jwtx.Reason(err))
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	acc, err := s.deps.Store.Accounts().GetByID(ctx, p.AccountID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Info("refresh rejected", logger.Reason("unknown_account"), logger.AccountID(p.AccountID))
			s.deps.Metrics.Refresh("unknown_account")
			return "", time.Time{}, ErrUnauthenticated
		}
		return "", time.Time{}, fmt.Errorf("load account: %w", err)
	}
	if acc.TenantID != p.TenantID {
		log.Warn("refresh rejected", logger.Reason("tenant_mismatch"), logger.AccountID(acc.ID))
		s.deps.Metrics.Refresh("tenant_mismatch")
		return "", time.Time{}, ErrUnauthenticated
	}

	// Cualquier refresh válido se acepta mientras el marcador no esté vacío.
	if acc.RefreshMarker == "" || !acc.Active {
		log.Info("refresh rejected", logger.Reason("revoked"), logger.AccountID(acc.ID))
		s.deps.Metrics.Refresh("revoked")
		return "", time.Time{}, ErrSessionRevoked
	}

	tok, exp, err := s.deps.Issuer.IssueAccess(acc.ID, acc.TenantID, acc.Role, acc.Email)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue access token: %w", err)
	}
	s.deps.Metrics.Refresh("ok")
	return tok, exp, nil
}

func (s *sessionService) Logout(ctx context.Context, caller types.Caller) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("Logout"),
	)

	err := s.deps.Store.Accounts().ClearRefreshMarker(ctx, caller.Scope(), caller.AccountID)
	if err != nil && !repository.IsNotFound(err) {
		return fmt.Errorf("clear refresh marker: %w", err)
	}
	log.Info("logout", logger.AccountID(caller.AccountID))
	return nil
}

func (s *sessionService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.deps.Hasher.Hash("labauth-timing-equalizer")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// startSession persiste un marcador nuevo (último en escribir gana) y emite
// el par access/refresh. Lo usan login y signup.
func startSession(ctx context.Context, st repository.Store, iss *jwtx.Issuer, acc *repository.Account) (*dto.LoginResult, error) {
	marker, err := tokens.NewRefreshMarker()
	if err != nil {
		return nil, fmt.Errorf("generate marker: %w", err)
	}
	if err := st.Accounts().SetRefreshMarker(ctx, acc.ID, marker); err != nil {
		return nil, fmt.Errorf("persist marker: %w", err)
	}

	access, accessExp, err := iss.IssueAccess(acc.ID, acc.TenantID, acc.Role, acc.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, refreshExp, err := iss.IssueRefresh(acc.ID, acc.TenantID, acc.Role, acc.Email)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	view, err := userView(ctx, st, acc)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResult{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		User:             view,
	}, nil
}

// userView arma la vista pública. Para STAFF incluye nombre y matriz del rol.
func userView(ctx context.Context, st repository.Store, acc *repository.Account) (dto.UserView, error) {
	v := dto.UserView{
		ID:           acc.ID,
		Email:        acc.Email,
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		ProfileImage: acc.ProfileImage,
		Role:         string(acc.Role),
		OrgID:        acc.TenantID,
		Active:       acc.Active,
	}
	if acc.Role != types.RoleStaff || acc.RoleID == "" {
		return v, nil
	}
	role, err := st.Roles().Get(ctx, types.NewScope(acc.TenantID), acc.RoleID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return v, nil
	case err != nil:
		return v, fmt.Errorf("load role: %w", err)
	}
	name := role.Name
	v.StaffRoleName = &name
	v.Permissions = role.Permissions
	return v, nil
}
