package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/auth"
	"github.com/dropDatabas3/labauth/internal/observability/logger"
	"github.com/dropDatabas3/labauth/internal/validation"
)

// ProfileService expone la cuenta propia del caller.
type ProfileService interface {
	Me(ctx context.Context, caller types.Caller) (dto.UserView, error)
	UpdateProfile(ctx context.Context, caller types.Caller, in dto.ProfileRequest) (dto.UserView, error)
}

type profileService struct {
	store repository.Store
}

// NewProfileService crea el service de perfil.
func NewProfileService(store repository.Store) ProfileService {
	return &profileService{store: store}
}

func (s *profileService) Me(ctx context.Context, caller types.Caller) (dto.UserView, error) {
	acc, err := s.store.Accounts().Get(ctx, caller.Scope(), caller.AccountID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.UserView{}, ErrUnauthenticated
		}
		return dto.UserView{}, fmt.Errorf("load account: %w", err)
	}
	return userView(ctx, s.store, acc)
}

func (s *profileService) UpdateProfile(ctx context.Context, caller types.Caller, in dto.ProfileRequest) (dto.UserView, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.profile"),
		logger.Op("UpdateProfile"),
		logger.AccountID(caller.AccountID),
	)

	var upd repository.ProfileInput
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if !validation.ValidName(v) {
			return dto.UserView{}, fmt.Errorf("%w: firstName", ErrInvalidField)
		}
		upd.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v != "" && !validation.ValidName(v) {
			return dto.UserView{}, fmt.Errorf("%w: lastName", ErrInvalidField)
		}
		upd.LastName = &v
	}
	if in.ProfileImage != nil {
		v := strings.TrimSpace(*in.ProfileImage)
		if v != "" && !validation.ValidImageRef(v) {
			return dto.UserView{}, fmt.Errorf("%w: profileImage", ErrInvalidField)
		}
		upd.ProfileImage = &v
	}
	if upd.FirstName == nil && upd.LastName == nil && upd.ProfileImage == nil {
		return dto.UserView{}, ErrMissingFields
	}

	acc, err := s.store.Accounts().UpdateProfile(ctx, caller.Scope(), caller.AccountID, upd)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.UserView{}, ErrUnauthenticated
		}
		return dto.UserView{}, fmt.Errorf("update profile: %w", err)
	}
	log.Info("profile updated")
	return userView(ctx, s.store, acc)
}
