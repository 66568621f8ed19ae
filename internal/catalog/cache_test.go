package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/database/memory"
	"github.com/osse101/brandish-progression/internal/domain"
)

type countingSource struct {
	Source
	itemReads  int
	badgeLists int
}

func (c *countingSource) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	c.itemReads++
	return c.Source.GetItem(ctx, id)
}

func (c *countingSource) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	c.badgeLists++
	return c.Source.ListBadges(ctx)
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	l := NewLoader()
	cfg, err := l.LoadDefault()
	require.NoError(t, err)
	_, err = l.Sync(context.Background(), cfg, store)
	require.NoError(t, err)
	return store
}

func TestCachedCatalog_ServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Source: seededStore(t)}
	c := NewCachedCatalog(src, 16, time.Minute)

	for i := 0; i < 3; i++ {
		item, err := c.GetItem(ctx, domain.ItemLevelChest)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, domain.ItemLevelChest, item.ID)
	}
	assert.Equal(t, 1, src.itemReads)

	for i := 0; i < 2; i++ {
		list, err := c.ListBadges(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, list)
	}
	assert.Equal(t, 1, src.badgeLists)
}

func TestCachedCatalog_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	src := &countingSource{Source: store}
	c := NewCachedCatalog(src, 16, time.Minute)

	item, err := c.GetItem(ctx, "late")
	require.NoError(t, err)
	assert.Nil(t, item)

	require.NoError(t, store.UpsertItem(ctx, &domain.Item{ID: "late", Name: "Late", Type: domain.ItemTypeBoost, MaxStackSize: 1}))

	item, err = c.GetItem(ctx, "late")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2, src.itemReads)
}

func TestCachedCatalog_InvalidateReloads(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	c := NewCachedCatalog(store, 16, time.Minute)

	before, err := c.GetDailyReward(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, before)

	updated := domain.DailyReward{Day: 1, Rewards: []domain.Reward{domain.CurrencyReward{Currency: domain.CurrencyGems, Amount: 1}}}
	require.NoError(t, store.UpsertDailyReward(ctx, &updated))

	cached, err := c.GetDailyReward(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before.Rewards, cached.Rewards)

	c.Invalidate(ctx)

	fresh, err := c.GetDailyReward(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated.Rewards, fresh.Rewards)
}

func TestCachedCatalog_ListIsCopied(t *testing.T) {
	ctx := context.Background()
	c := NewCachedCatalog(seededStore(t), 0, 0)

	list, err := c.ListBadges(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	list[0].Name = "mutated"

	again, err := c.ListBadges(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Name)
}
