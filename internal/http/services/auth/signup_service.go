package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/labauth/internal/audit"
	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/labauth/internal/jwt"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/security/password"
	"github.com/dropDatabas3/labauth/internal/util"
	"github.com/dropDatabas3/labauth/internal/validation"
)

// SignupService da de alta una organización junto con su cuenta OWNER.
type SignupService interface {
	Signup(ctx context.Context, in dto.SignupRequest) (*dto.LoginResult, error)
}

// SignupDeps contiene las dependencias del service de signup.
type SignupDeps struct {
	Store  repository.Store
	Issuer *jwtx.Issuer
	Hasher password.Hasher
	Policy password.Policy
}

type signupService struct {
	deps SignupDeps
}

// NewSignupService crea el service de signup.
func NewSignupService(deps SignupDeps) SignupService {
	return &signupService{deps: deps}
}

func (s *signupService) Signup(ctx context.Context, in dto.SignupRequest) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.signup"),
		logger.Op("Signup"),
	)

	email := strings.ToLower(strings.TrimSpace(in.Email))
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	labName := strings.TrimSpace(in.LabName)

	if email == "" || in.Password == "" || first == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validation.ValidName(first) || (last != "" && !validation.ValidName(last)) {
		return nil, fmt.Errorf("%w: name", ErrInvalidField)
	}
	if labName == "" {
		labName = first + "'s Lab"
	}
	if !validation.ValidName(labName) {
		return nil, fmt.Errorf("%w: labName", ErrInvalidField)
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		return nil, &PolicyError{Reasons: reasons}
	}
	log = log.With(logger.Email(util.MaskEmail(email)))

	exists, err := s.deps.Store.Accounts().EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	org, err := s.deps.Store.Organizations().Create(ctx, labName)
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	acc, err := s.deps.Store.Accounts().Create(ctx, types.NewScope(org.ID), repository.CreateAccountInput{
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Role:         types.RoleOwner,
		Active:       true,
	})
	if err != nil {
		// compensación: una organización sin owner no sirve
		if derr := s.deps.Store.Organizations().Delete(ctx, org.ID); derr != nil {
			log.Error("orphan organization left after failed signup", logger.TenantID(org.ID), logger.Err(derr))
		}
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create owner: %w", err)
	}

	res, err := startSession(ctx, s.deps.Store, s.deps.Issuer, acc)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.EventOrgCreated, logger.TenantID(org.ID), logger.AccountID(acc.ID))
	log.Info("organization created", logger.TenantID(org.ID), logger.AccountID(acc.ID))
	return res, nil
}
