package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/repository/dao"
)

var (
	ErrRequestNotFound = dao.ErrRequestNotFound
	ErrVoteNotFound    = dao.ErrVoteNotFound
	ErrDuplicateVote   = dao.ErrDuplicateVote
	ErrInvalidState    = dao.ErrInvalidState
	ErrStorageConflict = dao.ErrStorageConflict
)

type RereleaseDAO interface {
	CastVote(ctx context.Context, gameID, userID uint, comment string, votedAt time.Time) (dao.RereleaseRequest, error)
	RemoveVote(ctx context.Context, gameID, userID uint) (dao.RereleaseRequest, error)
	UpdateStatus(ctx context.Context, gameID uint, status string, fulfilledDate *time.Time) (dao.RereleaseRequest, error)
	FindByGameID(ctx context.Context, gameID uint) (dao.RereleaseRequest, error)
	ListMostVoted(ctx context.Context, limit, offset int) ([]dao.RereleaseRequest, error)
	HasVoted(ctx context.Context, requestID, userID uint) (bool, error)
	ListVotes(ctx context.Context, requestID uint, limit, offset int) ([]dao.RereleaseVote, error)
}

type RereleaseRepository struct {
	dao RereleaseDAO
}

func NewRereleaseRepository(dao RereleaseDAO) *RereleaseRepository {
	return &RereleaseRepository{
		dao: dao,
	}
}

func (r *RereleaseRepository) CastVote(ctx context.Context, vote domain.RereleaseVote, gameID uint) (domain.RereleaseRequest, error) {
	req, err := r.dao.CastVote(ctx, gameID, vote.UserID, vote.Comment, vote.VoteDate)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("r.dao.CastVote -> %w", err)
	}

	return r.requestDaoToDomain(req), nil
}

func (r *RereleaseRepository) RemoveVote(ctx context.Context, gameID, userID uint) (domain.RereleaseRequest, error) {
	req, err := r.dao.RemoveVote(ctx, gameID, userID)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("r.dao.RemoveVote -> %w", err)
	}

	return r.requestDaoToDomain(req), nil
}

func (r *RereleaseRepository) UpdateStatus(ctx context.Context, gameID uint, status domain.RereleaseStatus, fulfilledDate *time.Time) (domain.RereleaseRequest, error) {
	req, err := r.dao.UpdateStatus(ctx, gameID, string(status), fulfilledDate)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.requestDaoToDomain(req), nil
}

func (r *RereleaseRepository) FindByGameID(ctx context.Context, gameID uint) (domain.RereleaseRequest, error) {
	req, err := r.dao.FindByGameID(ctx, gameID)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("r.dao.FindByGameID -> %w", err)
	}

	return r.requestDaoToDomain(req), nil
}

func (r *RereleaseRepository) ListMostVoted(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, error) {
	found, err := r.dao.ListMostVoted(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMostVoted -> %w", err)
	}

	reqs := make([]domain.RereleaseRequest, len(found))
	for i, req := range found {
		reqs[i] = r.requestDaoToDomain(req)
	}

	return reqs, nil
}

func (r *RereleaseRepository) HasVoted(ctx context.Context, requestID, userID uint) (bool, error) {
	voted, err := r.dao.HasVoted(ctx, requestID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasVoted -> %w", err)
	}

	return voted, nil
}

func (r *RereleaseRepository) ListVotes(ctx context.Context, requestID uint, limit, offset int) ([]domain.RereleaseVote, error) {
	found, err := r.dao.ListVotes(ctx, requestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListVotes -> %w", err)
	}

	votes := make([]domain.RereleaseVote, len(found))
	for i, v := range found {
		votes[i] = domain.RereleaseVote{
			RequestID: v.RequestID,
			UserID:    v.UserID,
			UserName:  v.User.Name,
			Comment:   v.Comment,
			VoteDate:  v.VoteDate,
		}
	}

	return votes, nil
}

func (r *RereleaseRepository) requestDaoToDomain(req dao.RereleaseRequest) domain.RereleaseRequest {
	return domain.RereleaseRequest{
		ID:            req.ID,
		GameID:        req.GameID,
		GameTitle:     req.Game.Title,
		TotalVotes:    req.TotalVotes,
		Status:        domain.RereleaseStatus(req.Status),
		FulfilledDate: req.FulfilledDate,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}
