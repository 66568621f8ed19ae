package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Catalog defines read and sync access to catalog definitions.
// Getters return nil, nil for unknown ids.
type Catalog interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error)
	ListBadges(ctx context.Context) ([]domain.Badge, error)
	GetDailyReward(ctx context.Context, day int) (*domain.DailyReward, error)
	ListDailyRewards(ctx context.Context) ([]domain.DailyReward, error)

	// Upserts replace definitions but keep earned counters
	UpsertItem(ctx context.Context, item *domain.Item) error
	UpsertBadge(ctx context.Context, badge *domain.Badge) error
	UpsertDailyReward(ctx context.Context, reward *domain.DailyReward) error
}
