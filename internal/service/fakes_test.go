package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/repository"
)

type fakeGames struct {
	games map[uint]domain.Game
}

func newFakeGames(ids ...uint) *fakeGames {
	f := &fakeGames{games: map[uint]domain.Game{}}
	for _, id := range ids {
		f.games[id] = domain.Game{ID: id, Title: fmt.Sprintf("game %d", id)}
	}

	return f
}

func (f *fakeGames) FindByID(_ context.Context, id uint) (domain.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return domain.Game{}, repository.ErrGameNotFound
	}

	return g, nil
}

// fakeRereleaseRepo keeps requests and votes in memory behind one mutex.
// castErrs and removeErrs are returned, in order, before the store is touched.
type fakeRereleaseRepo struct {
	mu         sync.Mutex
	nextID     uint
	requests   map[uint]*domain.RereleaseRequest
	votes      map[uint]map[uint]domain.RereleaseVote
	castErrs   []error
	removeErrs []error
	castCalls  int
	listCalls  int
}

func newFakeRereleaseRepo() *fakeRereleaseRepo {
	return &fakeRereleaseRepo{
		requests: map[uint]*domain.RereleaseRequest{},
		votes:    map[uint]map[uint]domain.RereleaseVote{},
	}
}

func (f *fakeRereleaseRepo) CastVote(_ context.Context, vote domain.RereleaseVote, gameID uint) (domain.RereleaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.castCalls++
	if len(f.castErrs) > 0 {
		err := f.castErrs[0]
		f.castErrs = f.castErrs[1:]
		return domain.RereleaseRequest{}, err
	}

	req, ok := f.requests[gameID]
	if !ok {
		f.nextID++
		req = &domain.RereleaseRequest{ID: f.nextID, GameID: gameID, Status: domain.RereleaseActive}
		f.requests[gameID] = req
		f.votes[req.ID] = map[uint]domain.RereleaseVote{}
	}
	if !req.AcceptsVotes() {
		return domain.RereleaseRequest{}, repository.ErrInvalidState
	}
	if _, dup := f.votes[req.ID][vote.UserID]; dup {
		return domain.RereleaseRequest{}, repository.ErrDuplicateVote
	}

	vote.RequestID = req.ID
	f.votes[req.ID][vote.UserID] = vote
	req.TotalVotes++

	return *req, nil
}

func (f *fakeRereleaseRepo) RemoveVote(_ context.Context, gameID, userID uint) (domain.RereleaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.removeErrs) > 0 {
		err := f.removeErrs[0]
		f.removeErrs = f.removeErrs[1:]
		return domain.RereleaseRequest{}, err
	}

	req, ok := f.requests[gameID]
	if !ok {
		return domain.RereleaseRequest{}, repository.ErrRequestNotFound
	}
	if !req.AcceptsVotes() {
		return domain.RereleaseRequest{}, repository.ErrInvalidState
	}
	if _, voted := f.votes[req.ID][userID]; !voted {
		return domain.RereleaseRequest{}, repository.ErrVoteNotFound
	}

	delete(f.votes[req.ID], userID)
	if req.TotalVotes > 0 {
		req.TotalVotes--
	}

	return *req, nil
}

func (f *fakeRereleaseRepo) UpdateStatus(_ context.Context, gameID uint, status domain.RereleaseStatus, fulfilledDate *time.Time) (domain.RereleaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[gameID]
	if !ok {
		return domain.RereleaseRequest{}, repository.ErrRequestNotFound
	}
	if req.Status != domain.RereleaseActive {
		return domain.RereleaseRequest{}, repository.ErrInvalidState
	}
	req.Status = status
	req.FulfilledDate = fulfilledDate

	return *req, nil
}

func (f *fakeRereleaseRepo) FindByGameID(_ context.Context, gameID uint) (domain.RereleaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[gameID]
	if !ok {
		return domain.RereleaseRequest{}, repository.ErrRequestNotFound
	}

	return *req, nil
}

func (f *fakeRereleaseRepo) ListMostVoted(_ context.Context, limit, offset int) ([]domain.RereleaseRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++

	var ranked []domain.RereleaseRequest
	for _, req := range f.requests {
		if req.Status != domain.RereleaseArchived {
			ranked = append(ranked, *req)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalVotes != ranked[j].TotalVotes {
			return ranked[i].TotalVotes > ranked[j].TotalVotes
		}
		return ranked[i].ID < ranked[j].ID
	})

	if offset >= len(ranked) {
		return []domain.RereleaseRequest{}, nil
	}
	ranked = ranked[offset:]
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

func (f *fakeRereleaseRepo) HasVoted(_ context.Context, requestID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.votes[requestID][userID]

	return ok, nil
}

func (f *fakeRereleaseRepo) ListVotes(_ context.Context, requestID uint, limit, offset int) ([]domain.RereleaseVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	votes := make([]domain.RereleaseVote, 0, len(f.votes[requestID]))
	for _, v := range f.votes[requestID] {
		votes = append(votes, v)
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].UserID < votes[j].UserID })

	if offset >= len(votes) {
		return []domain.RereleaseVote{}, nil
	}
	votes = votes[offset:]
	if limit < len(votes) {
		votes = votes[:limit]
	}

	return votes, nil
}

// seed inserts a request directly, bypassing vote bookkeeping.
func (f *fakeRereleaseRepo) seed(req domain.RereleaseRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := req
	f.requests[req.GameID] = &r
	f.votes[req.ID] = map[uint]domain.RereleaseVote{}
	if req.ID > f.nextID {
		f.nextID = req.ID
	}
}

type fakeCache struct {
	mu            sync.Mutex
	pages         map[string][]domain.RereleaseRequest
	getErr        error
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: map[string][]domain.RereleaseRequest{}}
}

func (c *fakeCache) Get(_ context.Context, limit, offset int) ([]domain.RereleaseRequest, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, false, c.getErr
	}
	page, ok := c.pages[fmt.Sprintf("%d:%d", limit, offset)]

	return page, ok, nil
}

func (c *fakeCache) Set(_ context.Context, limit, offset int, page []domain.RereleaseRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages[fmt.Sprintf("%d:%d", limit, offset)] = page

	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidations++
	c.pages = map[string][]domain.RereleaseRequest{}

	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.RereleaseEvent
}

func (p *fakePublisher) Publish(event domain.RereleaseEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
}

func (p *fakePublisher) last() domain.RereleaseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.events[len(p.events)-1]
}

var errBoom = errors.New("boom")
