package repository

import (
	"context"
	"fmt"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/repository/dao"
)

var ErrGameNotFound = dao.ErrGameNotFound

type GameDAO interface {
	Insert(ctx context.Context, game dao.Game) (dao.Game, error)
	FindByID(ctx context.Context, id uint) (dao.Game, error)
	FindAll(ctx context.Context) ([]dao.Game, error)
	Delete(ctx context.Context, id uint) error
}

type GameRepository struct {
	dao GameDAO
}

func NewGameRepository(dao GameDAO) *GameRepository {
	return &GameRepository{
		dao: dao,
	}
}

func (r *GameRepository) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(game))
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *GameRepository) FindByID(ctx context.Context, id uint) (domain.Game, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *GameRepository) FindAll(ctx context.Context) ([]domain.Game, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	games := make([]domain.Game, len(found))
	for i, g := range found {
		games[i] = r.daoToDomain(g)
	}

	return games, nil
}

func (r *GameRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *GameRepository) domainToDao(g domain.Game) dao.Game {
	return dao.Game{
		ID:          g.ID,
		Title:       g.Title,
		Platform:    g.Platform,
		Publisher:   g.Publisher,
		ReleaseYear: g.ReleaseYear,
		Abandonware: g.Abandonware,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (r *GameRepository) daoToDomain(g dao.Game) domain.Game {
	return domain.Game{
		ID:          g.ID,
		Title:       g.Title,
		Platform:    g.Platform,
		Publisher:   g.Publisher,
		ReleaseYear: g.ReleaseYear,
		Abandonware: g.Abandonware,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
