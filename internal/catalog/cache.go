package catalog

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
)

// Source is the uncached catalog read path
type Source interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error)
	ListBadges(ctx context.Context) ([]domain.Badge, error)
	GetDailyReward(ctx context.Context, day int) (*domain.DailyReward, error)
}

// CachedCatalog serves catalog reads from in-memory LRUs with time-based
// expiration. Misses are not cached, so a definition synced after a miss is
// visible on the next read.
type CachedCatalog struct {
	source Source
	items  *expirable.LRU[string, domain.Item]
	badges *expirable.LRU[string, domain.Badge]
	lists  *expirable.LRU[string, []domain.Badge]
	daily  *expirable.LRU[int, domain.DailyReward]
}

// NewCachedCatalog wraps source. size bounds each LRU, ttl bounds staleness.
func NewCachedCatalog(source Source, size int, ttl time.Duration) *CachedCatalog {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedCatalog{
		source: source,
		items:  expirable.NewLRU[string, domain.Item](size, nil, ttl),
		badges: expirable.NewLRU[string, domain.Badge](size, nil, ttl),
		lists:  expirable.NewLRU[string, []domain.Badge](1, nil, ttl),
		daily:  expirable.NewLRU[int, domain.DailyReward](size, nil, ttl),
	}
}

func (c *CachedCatalog) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	if item, ok := c.items.Get(itemID); ok {
		return &item, nil
	}
	item, err := c.source.GetItem(ctx, itemID)
	if err != nil || item == nil {
		return item, err
	}
	c.items.Add(itemID, *item)
	return item, nil
}

func (c *CachedCatalog) GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error) {
	if badge, ok := c.badges.Get(badgeID); ok {
		return &badge, nil
	}
	badge, err := c.source.GetBadge(ctx, badgeID)
	if err != nil || badge == nil {
		return badge, err
	}
	c.badges.Add(badgeID, *badge)
	return badge, nil
}

// ListBadges returns a copy of the cached list
func (c *CachedCatalog) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	if list, ok := c.lists.Get(badgeListKey); ok {
		return append([]domain.Badge(nil), list...), nil
	}
	list, err := c.source.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	c.lists.Add(badgeListKey, append([]domain.Badge(nil), list...))
	return list, nil
}

func (c *CachedCatalog) GetDailyReward(ctx context.Context, day int) (*domain.DailyReward, error) {
	if reward, ok := c.daily.Get(day); ok {
		return &reward, nil
	}
	reward, err := c.source.GetDailyReward(ctx, day)
	if err != nil || reward == nil {
		return reward, err
	}
	c.daily.Add(day, *reward)
	return reward, nil
}

// Invalidate drops every cached entry. Call it after Sync.
func (c *CachedCatalog) Invalidate(ctx context.Context) {
	c.items.Purge()
	c.badges.Purge()
	c.lists.Purge()
	c.daily.Purge()
	logger.FromContext(ctx).Debug(LogMsgCacheInvalidated)
}
