package admin

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/labauth/internal/domain/repository"
	"github.com/dropDatabas3/labauth/internal/domain/types"
	dto "github.com/dropDatabas3/labauth/internal/http/dto/admin"
)

// StatsService calcula los contadores del panel de administración.
type StatsService interface {
	Get(ctx context.Context, caller types.Caller) (dto.Stats, error)
}

type statsService struct {
	store repository.Store
}

// NewStatsService crea el service de estadísticas.
func NewStatsService(store repository.Store) StatsService {
	return &statsService{store: store}
}

func (s *statsService) Get(ctx context.Context, caller types.Caller) (dto.Stats, error) {
	if err := requireOwner(ctx, caller, "Stats"); err != nil {
		return dto.Stats{}, err
	}
	scope := caller.Scope()
	active := true

	var out dto.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.Accounts().Count(gctx, scope, repository.AccountFilter{Roles: []types.CoarseRole{types.RoleStaff}})
		out.TotalStaff = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Roles().Count(gctx, scope)
		out.TotalRoles = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Accounts().Count(gctx, scope, repository.AccountFilter{Active: &active})
		out.ActiveUsers = n
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return out, nil
}
