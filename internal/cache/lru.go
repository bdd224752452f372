package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gamevault/gamevault-api/internal/domain"
)

type lruItem struct {
	page      []domain.RereleaseRequest
	expiresAt time.Time
}

// LRU is the in-process leaderboard cache.
type LRU struct {
	entries *lru.Cache[string, lruItem]
	ttl     atomic.Int64
	now     func() time.Time
}

func NewLRU(size int, ttl time.Duration) (*LRU, error) {
	entries, err := lru.New[string, lruItem](size)
	if err != nil {
		return nil, fmt.Errorf("lru.New -> %w", err)
	}

	c := &LRU{
		entries: entries,
		now:     time.Now,
	}
	c.SetTTL(ttl)

	return c, nil
}

func (c *LRU) Get(_ context.Context, limit, offset int) ([]domain.RereleaseRequest, bool, error) {
	key := pageKey(limit, offset)

	item, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if c.now().After(item.expiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}

	page := make([]domain.RereleaseRequest, len(item.page))
	copy(page, item.page)

	return page, true, nil
}

func (c *LRU) Set(_ context.Context, limit, offset int, page []domain.RereleaseRequest) error {
	stored := make([]domain.RereleaseRequest, len(page))
	copy(stored, page)

	c.entries.Add(pageKey(limit, offset), lruItem{
		page:      stored,
		expiresAt: c.now().Add(time.Duration(c.ttl.Load())),
	})

	return nil
}

func (c *LRU) Invalidate(_ context.Context) error {
	c.entries.Purge()

	return nil
}

// SetTTL applies to entries stored from now on.
func (c *LRU) SetTTL(ttl time.Duration) {
	c.ttl.Store(int64(ttl))
}
