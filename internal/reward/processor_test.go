package reward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/database/memory"
	"github.com/osse101/brandish-progression/internal/domain"
)

type mockExperience struct{ mock.Mock }

func (m *mockExperience) AddExperience(ctx context.Context, playerID string, amount int64, source string) (*domain.LevelUpResult, error) {
	args := m.Called(ctx, playerID, amount, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelUpResult), args.Error(1)
}

type mockItems struct{ mock.Mock }

func (m *mockItems) AddItem(ctx context.Context, playerID, itemID string, qty int, source string) (*domain.InventorySlot, error) {
	args := m.Called(ctx, playerID, itemID, qty, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventorySlot), args.Error(1)
}

type mockBadges struct{ mock.Mock }

func (m *mockBadges) AwardBadge(ctx context.Context, playerID, badgeID, source string) (*domain.Badge, bool, error) {
	args := m.Called(ctx, playerID, badgeID, source)
	var badge *domain.Badge
	if b := args.Get(0); b != nil {
		badge = b.(*domain.Badge)
	}
	return badge, args.Bool(1), args.Error(2)
}

type fixture struct {
	store      *memory.Store
	processor  *Processor
	experience *mockExperience
	items      *mockItems
	badges     *mockBadges
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      memory.NewStore(),
		experience: &mockExperience{},
		items:      &mockItems{},
		badges:     &mockBadges{},
		now:        time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	f.processor = NewProcessor(f.store, concurrency.NewPlayerLocks(concurrency.NewLockManager()))
	f.processor.clock = func() time.Time { return f.now }
	f.processor.Wire(f.experience, f.items, f.badges)
	t.Cleanup(func() {
		f.experience.AssertExpectations(t)
		f.items.AssertExpectations(t)
		f.badges.AssertExpectations(t)
	})
	return f
}

func TestApplyReward_CurrencyCreditsWalletAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	applied, err := f.processor.ApplyReward(ctx, "p1", domain.CurrencyReward{Currency: domain.CurrencyGems, Amount: 7}, "quest:intro")
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusApplied, applied.Status)
	assert.Equal(t, f.now, applied.AppliedAt)

	w, err := f.store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), w.Gems)

	history, err := f.processor.History(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RewardKindCurrency, history[0].RewardType)
	assert.Equal(t, "quest", history[0].SourceType)
	assert.Equal(t, "intro", history[0].SourceID)
}

func TestApplyReward_GoldUsesLevelPerk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpsertLevelState(ctx, &domain.PlayerLevelState{PlayerID: "p1", CurrentLevel: 40}))

	applied, err := f.processor.ApplyReward(ctx, "p1", domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: 100}, "quest:q")
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: 120}, applied.Reward)

	w, err := f.store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), w.Gold)
}

func TestApplyReward_LevelUpGoldUsesEnteredLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpsertLevelState(ctx, &domain.PlayerLevelState{PlayerID: "p1", CurrentLevel: 25}))
	gold := domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: 100}

	tests := []struct {
		source string
		want   int64
	}{
		{domain.LevelUpSource(2), 100},  // no gold boost below level 20
		{domain.LevelUpSource(30), 115}, // 15% at level 30
		{"quest:q", 112},                // current level 25: 12.5%
	}
	for _, tt := range tests {
		applied, err := f.processor.ApplyReward(ctx, "p1", gold, tt.source)
		require.NoError(t, err, tt.source)
		assert.Equal(t, tt.want, applied.Reward.(domain.CurrencyReward).Amount, tt.source)
	}

	w, err := f.store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(327), w.Gold)
}

func TestApplyReward_TitleOnlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	title := domain.TitleReward{Title: "Adept"}

	first, err := f.processor.ApplyReward(ctx, "p1", title, "quest:a")
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusApplied, first.Status)

	second, err := f.processor.ApplyReward(ctx, "p1", title, "quest:b")
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusSkipped, second.Status)

	titles, err := f.store.ListTitles(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Adept"}, titles)
}

func TestApplyReward_DelegatesOwnedKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.experience.On("AddExperience", mock.Anything, "p1", int64(40), "quest:x").Return(&domain.LevelUpResult{}, nil).Once()
	f.items.On("AddItem", mock.Anything, "p1", "potion", 2, "quest:x").Return(&domain.InventorySlot{}, nil).Once()
	f.badges.On("AwardBadge", mock.Anything, "p1", "hero", "quest:x").Return(&domain.Badge{ID: "hero"}, true, nil).Once()

	results := f.processor.ApplyRewards(ctx, "p1", []domain.Reward{
		domain.ExperienceReward{Amount: 40},
		domain.ItemReward{ItemID: "potion", Quantity: 2},
		domain.BadgeReward{BadgeID: "hero"},
	}, "quest:x")

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, domain.RewardStatusApplied, r.Status, r.Reward.Kind())
	}
}

func TestApplyReward_BadgeAlreadyHeldIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.badges.On("AwardBadge", mock.Anything, "p1", "hero", "src").Return(&domain.Badge{ID: "hero"}, false, nil).Once()

	applied, err := f.processor.ApplyReward(context.Background(), "p1", domain.BadgeReward{BadgeID: "hero"}, "src")
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusSkipped, applied.Status)
}

func TestApplyRewards_FailureDoesNotStopOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.items.On("AddItem", mock.Anything, "p1", "ghost", 1, "src").Return(nil, domain.ErrItemNotFound).Once()

	results := f.processor.ApplyRewards(ctx, "p1", []domain.Reward{
		domain.ItemReward{ItemID: "ghost", Quantity: 1},
		domain.CurrencyReward{Currency: domain.CurrencyGems, Amount: 2},
	}, "src")

	require.Len(t, results, 2)
	assert.Equal(t, domain.RewardStatusFailed, results[0].Status)
	assert.Contains(t, results[0].Error, domain.ErrMsgItemNotFound)
	assert.Equal(t, domain.RewardStatusApplied, results[1].Status)
}

func TestApplyRewardOnce_SkipsWhenSourceAlreadyGranted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gems := domain.CurrencyReward{Currency: domain.CurrencyGems, Amount: 5}
	source := domain.LevelUpSource(3)

	first, err := f.processor.ApplyRewardOnce(ctx, "p1", gems, source)
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusApplied, first.Status)

	second, err := f.processor.ApplyRewardOnce(ctx, "p1", gems, source)
	require.NoError(t, err)
	assert.Equal(t, domain.RewardStatusSkipped, second.Status)

	w, err := f.store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), w.Gems)
}

func TestApplyReward_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	applied, err := f.processor.ApplyReward(ctx, "", domain.ExperienceReward{Amount: 1}, "src")
	assert.ErrorIs(t, err, domain.ErrEmptyPlayerID)
	assert.Equal(t, domain.RewardStatusFailed, applied.Status)

	applied, err = f.processor.ApplyReward(ctx, "p1", nil, "src")
	assert.ErrorIs(t, err, domain.ErrUnknownRewardKind)
	assert.Equal(t, domain.RewardStatusFailed, applied.Status)

	applied, err = f.processor.ApplyReward(ctx, "p1", domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: -1}, "src")
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, domain.RewardStatusFailed, applied.Status)

	w, err := f.store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, w.Gold)
}

func TestApplyReward_NotWired(t *testing.T) {
	p := NewProcessor(memory.NewStore(), concurrency.NewPlayerLocks(concurrency.NewLockManager()))
	applied, err := p.ApplyReward(context.Background(), "p1", domain.ExperienceReward{Amount: 1}, "src")
	require.Error(t, err)
	assert.Equal(t, domain.RewardStatusFailed, applied.Status)
}
