package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/repository"
)

var ErrGameNotFound = repository.ErrGameNotFound

type GameRepository interface {
	Create(ctx context.Context, game domain.Game) (domain.Game, error)
	FindByID(ctx context.Context, id uint) (domain.Game, error)
	FindAll(ctx context.Context) ([]domain.Game, error)
	Delete(ctx context.Context, id uint) error
}

type GameService struct {
	repo  GameRepository
	cache LeaderboardCache
}

func NewGameService(repo GameRepository, cache LeaderboardCache) *GameService {
	return &GameService{
		repo:  repo,
		cache: cache,
	}
}

func (s *GameService) CreateGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	created, err := s.repo.Create(ctx, game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *GameService) GetGame(ctx context.Context, id uint) (domain.Game, error) {
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return game, nil
}

func (s *GameService) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return games, nil
}

// DeleteGame removes the game together with its rerelease request and votes.
func (s *GameService) DeleteGame(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("failed to invalidate leaderboard cache", zap.Uint("game_id", id), zap.Error(err))
	}

	return nil
}
