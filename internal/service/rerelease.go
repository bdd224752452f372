package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/gamevault/gamevault-api/internal/config"
	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/repository"
)

var (
	ErrRequestNotFound   = repository.ErrRequestNotFound
	ErrVoteNotFound      = repository.ErrVoteNotFound
	ErrDuplicateVote     = repository.ErrDuplicateVote
	ErrInvalidState      = repository.ErrInvalidState
	ErrStorageConflict   = repository.ErrStorageConflict
	ErrInvalidPagination = errors.New("limit and offset must not be negative")
)

type RereleaseRepository interface {
	CastVote(ctx context.Context, vote domain.RereleaseVote, gameID uint) (domain.RereleaseRequest, error)
	RemoveVote(ctx context.Context, gameID, userID uint) (domain.RereleaseRequest, error)
	UpdateStatus(ctx context.Context, gameID uint, status domain.RereleaseStatus, fulfilledDate *time.Time) (domain.RereleaseRequest, error)
	FindByGameID(ctx context.Context, gameID uint) (domain.RereleaseRequest, error)
	ListMostVoted(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, error)
	HasVoted(ctx context.Context, requestID, userID uint) (bool, error)
	ListVotes(ctx context.Context, requestID uint, limit, offset int) ([]domain.RereleaseVote, error)
}

type GameFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Game, error)
}

type LeaderboardCache interface {
	Get(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, bool, error)
	Set(ctx context.Context, limit, offset int, page []domain.RereleaseRequest) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	Publish(event domain.RereleaseEvent)
}

type RereleaseService struct {
	conf      *config.RereleaseConfig
	repo      RereleaseRepository
	games     GameFinder
	cache     LeaderboardCache
	publisher EventPublisher

	now        func() time.Time
	newBackOff func() backoff.BackOff
}

func NewRereleaseService(
	conf *config.RereleaseConfig,
	repo RereleaseRepository,
	games GameFinder,
	cache LeaderboardCache,
	publisher EventPublisher,
) *RereleaseService {
	return &RereleaseService{
		conf:       conf,
		repo:       repo,
		games:      games,
		cache:      cache,
		publisher:  publisher,
		now:        time.Now,
		newBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 0

	return b
}

// CastVote records userID's vote for gameID, opening the game's request on
// the first vote, and returns the request with its new total.
func (s *RereleaseService) CastVote(ctx context.Context, gameID, userID uint, comment string) (domain.RereleaseRequest, error) {
	if _, err := s.games.FindByID(ctx, gameID); err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("s.games.FindByID -> %w", err)
	}

	vote := domain.RereleaseVote{
		UserID:   userID,
		Comment:  comment,
		VoteDate: s.now(),
	}

	var req domain.RereleaseRequest
	err := s.retry(ctx, "CastVote", func() error {
		var err error
		req, err = s.repo.CastVote(ctx, vote, gameID)

		return err
	})
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("s.repo.CastVote -> %w", err)
	}

	s.afterChange(ctx, domain.EventVoteCast, req)

	return req, nil
}

func (s *RereleaseService) RemoveVote(ctx context.Context, gameID, userID uint) (domain.RereleaseRequest, error) {
	var req domain.RereleaseRequest
	err := s.retry(ctx, "RemoveVote", func() error {
		var err error
		req, err = s.repo.RemoveVote(ctx, gameID, userID)

		return err
	})
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("s.repo.RemoveVote -> %w", err)
	}

	s.afterChange(ctx, domain.EventVoteRemoved, req)

	return req, nil
}

// ListMostVoted serves a leaderboard page, from cache when possible. A zero
// limit means the configured default; limits above the maximum are capped.
func (s *RereleaseService) ListMostVoted(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, error) {
	limit, offset, err := s.page(limit, offset)
	if err != nil {
		return nil, err
	}

	cached, ok, err := s.cache.Get(ctx, limit, offset)
	if err != nil {
		zap.L().Warn("leaderboard cache read failed", zap.Int("limit", limit), zap.Int("offset", offset), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	reqs, err := s.repo.ListMostVoted(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMostVoted -> %w", err)
	}

	if err = s.cache.Set(ctx, limit, offset, reqs); err != nil {
		zap.L().Warn("leaderboard cache write failed", zap.Int("limit", limit), zap.Int("offset", offset), zap.Error(err))
	}

	return reqs, nil
}

func (s *RereleaseService) GetRequest(ctx context.Context, gameID uint) (domain.RereleaseRequest, error) {
	req, err := s.repo.FindByGameID(ctx, gameID)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("s.repo.FindByGameID -> %w", err)
	}

	return req, nil
}

func (s *RereleaseService) HasVoted(ctx context.Context, requestID, userID uint) (bool, error) {
	voted, err := s.repo.HasVoted(ctx, requestID, userID)
	if err != nil {
		return false, fmt.Errorf("s.repo.HasVoted -> %w", err)
	}

	return voted, nil
}

func (s *RereleaseService) ListVotes(ctx context.Context, gameID uint, limit, offset int) ([]domain.RereleaseVote, error) {
	limit, offset, err := s.page(limit, offset)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.FindByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByGameID -> %w", err)
	}

	votes, err := s.repo.ListVotes(ctx, req.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListVotes -> %w", err)
	}

	return votes, nil
}

// Fulfill marks the game's request as re-released. A nil date means now.
func (s *RereleaseService) Fulfill(ctx context.Context, gameID uint, fulfilledDate *time.Time) (domain.RereleaseRequest, error) {
	if fulfilledDate == nil {
		now := s.now()
		fulfilledDate = &now
	}

	return s.transition(ctx, gameID, domain.RereleaseFulfilled, fulfilledDate)
}

func (s *RereleaseService) Archive(ctx context.Context, gameID uint) (domain.RereleaseRequest, error) {
	return s.transition(ctx, gameID, domain.RereleaseArchived, nil)
}

func (s *RereleaseService) transition(ctx context.Context, gameID uint, next domain.RereleaseStatus, fulfilledDate *time.Time) (domain.RereleaseRequest, error) {
	current, err := s.repo.FindByGameID(ctx, gameID)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("s.repo.FindByGameID -> %w", err)
	}
	if !current.Status.CanTransitionTo(next) {
		return domain.RereleaseRequest{}, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidState, current.Status, next)
	}

	req, err := s.repo.UpdateStatus(ctx, gameID, next, fulfilledDate)
	if err != nil {
		return domain.RereleaseRequest{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	s.afterChange(ctx, domain.EventStatusChanged, req)

	return req, nil
}

// retry runs fn until it succeeds, fails with anything but a storage
// conflict, or the configured number of attempts is used up.
func (s *RereleaseService) retry(ctx context.Context, op string, fn func() error) error {
	maxAttempts := s.conf.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(maxAttempts-1)), ctx)

	return backoff.RetryNotify(func() error {
		err := fn()
		if err == nil || errors.Is(err, ErrStorageConflict) {
			return err
		}

		return backoff.Permanent(err)
	}, b, func(err error, wait time.Duration) {
		zap.L().Warn("retrying after storage conflict",
			zap.String("op", op),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}

func (s *RereleaseService) page(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, ErrInvalidPagination
	}
	if limit == 0 {
		limit = s.conf.DefaultPageSize
	}
	if s.conf.MaxPageSize > 0 && limit > s.conf.MaxPageSize {
		limit = s.conf.MaxPageSize
	}

	return limit, offset, nil
}

func (s *RereleaseService) afterChange(ctx context.Context, eventType string, req domain.RereleaseRequest) {
	if err := s.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("failed to invalidate leaderboard cache", zap.Uint("game_id", req.GameID), zap.Error(err))
	}

	s.publisher.Publish(domain.RereleaseEvent{
		Type:       eventType,
		GameID:     req.GameID,
		RequestID:  req.ID,
		TotalVotes: req.TotalVotes,
		Status:     req.Status,
	})
}
