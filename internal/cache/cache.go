// Package cache holds read-through caches for the most-voted leaderboard.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gamevault/gamevault-api/internal/domain"
)

// Leaderboard caches ranked pages keyed by (limit, offset). Any vote or
// status change must call Invalidate since every page may shift.
type Leaderboard interface {
	Get(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, bool, error)
	Set(ctx context.Context, limit, offset int, page []domain.RereleaseRequest) error
	Invalidate(ctx context.Context) error
	SetTTL(ttl time.Duration)
}

func pageKey(limit, offset int) string {
	return fmt.Sprintf("%d:%d", limit, offset)
}
