package inventory

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

var testNow = time.Date(2026, 7, 1, 18, 30, 0, 0, time.UTC)

var testItems = []domain.Item{
	{ID: "potion", Name: "Potion", Type: domain.ItemTypeConsumable, MaxStackSize: 10, Consumable: true,
		Effects: domain.ItemEffects{InstantExp: 50, InstantGold: 25}},
	{ID: "elixir", Name: "Elixir", Type: domain.ItemTypeBoost, MaxStackSize: 5, Consumable: true,
		Effects: domain.ItemEffects{ExpBoost: 20, GoldBoost: 10, Duration: time.Hour}},
	{ID: "sword", Name: "Sword", Type: domain.ItemTypeEquipment, MaxStackSize: 1},
}

func newInventory(t *testing.T) (*service, *memory.Store, *mockExperience) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	for i := range testItems {
		require.NoError(t, store.UpsertItem(ctx, &testItems[i]))
	}
	exp := &mockExperience{}
	svc := NewService(store, store, exp, concurrency.NewPlayerLocks(concurrency.NewLockManager())).(*service)
	svc.clock = func() time.Time { return testNow }
	t.Cleanup(func() { exp.AssertExpectations(t) })
	return svc, store, exp
}

func quantity(t *testing.T, store *memory.Store, playerID, itemID string) int {
	t.Helper()
	slot, err := store.GetSlot(context.Background(), playerID, itemID)
	require.NoError(t, err)
	if slot == nil {
		return 0
	}
	return slot.Quantity
}

func TestAddItem_StacksAndRecordsHistory(t *testing.T) {
	svc, store, _ := newInventory(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "p1", "potion", 3, "quest:a")
	require.NoError(t, err)
	slot, err := svc.AddItem(ctx, "p1", "potion", 2, "quest:b")
	require.NoError(t, err)
	assert.Equal(t, 5, slot.Quantity)
	assert.Equal(t, testNow, slot.AcquiredAt)

	history, err := store.ListRewardHistory(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RewardKindItem, history[0].RewardType)
}

func TestAddItem_StackLimitRejectsWholeAdd(t *testing.T) {
	svc, store, _ := newInventory(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "p1", "potion", 8, "quest:a")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "p1", "potion", 3, "quest:b")
	require.ErrorIs(t, err, domain.ErrStackLimitExceeded)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, 8, quantity(t, store, "p1", "potion"))

	slot, err := svc.AddItem(ctx, "p1", "potion", 2, "quest:c")
	require.NoError(t, err)
	assert.Equal(t, 10, slot.Quantity)
}

func TestAddItem_Rejections(t *testing.T) {
	svc, _, _ := newInventory(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "p1", "ghost", 1, "src")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddItem(ctx, "p1", "potion", 0, "src")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, "", "potion", 1, "src")
	assert.ErrorIs(t, err, domain.ErrEmptyPlayerID)
}

func TestUseItem_AppliesInstantEffects(t *testing.T) {
	svc, store, exp := newInventory(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "p1", "potion", 3, "src")
	require.NoError(t, err)

	exp.On("AddExperience", mock.Anything, "p1", int64(100), domain.ItemUseSource("potion")).
		Return(&domain.LevelUpResult{ExperienceGained: 100, NewLevel: 2, LeveledUp: true}, nil).Once()

	result, err := svc.UseItem(ctx, "p1", "potion", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.QuantityUsed)
	assert.Equal(t, 1, result.RemainingQuantity)
	require.NotNil(t, result.Experience)
	assert.True(t, result.Experience.LeveledUp)
	assert.Equal(t, int64(50), result.GoldCredited)

	wallet, err := store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), wallet.Gold)

	slot, err := store.GetSlot(ctx, "p1", "potion")
	require.NoError(t, err)
	require.NotNil(t, slot.LastUsedAt)
	assert.Equal(t, testNow, *slot.LastUsedAt)
}

func TestUseItem_BoostsScaleDuration(t *testing.T) {
	svc, store, _ := newInventory(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "p1", "elixir", 2, "src")
	require.NoError(t, err)

	result, err := svc.UseItem(ctx, "p1", "elixir", 2)
	require.NoError(t, err)
	assert.Zero(t, result.RemainingQuantity)
	require.Len(t, result.TimedEffects, 2)

	boost := result.TimedEffects[0]
	assert.Equal(t, domain.EffectExpBoost, boost.Kind)
	assert.Equal(t, 20, boost.Percent)
	assert.Equal(t, 2*time.Hour, boost.Duration)
	assert.Equal(t, testNow.Add(2*time.Hour), boost.ExpiresAt)
	assert.Equal(t, domain.EffectGoldBoost, result.TimedEffects[1].Kind)

	slots, err := svc.GetInventory(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, quantity(t, store, "p1", "elixir"))
}

func TestUseItem_Rejections(t *testing.T) {
	svc, store, _ := newInventory(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "p1", "sword", 1, "src")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "p1", "potion", 1, "src")
	require.NoError(t, err)

	_, err = svc.UseItem(ctx, "p1", "sword", 1)
	assert.ErrorIs(t, err, domain.ErrItemNotConsumable)
	assert.Equal(t, 1, quantity(t, store, "p1", "sword"))

	_, err = svc.UseItem(ctx, "p1", "potion", 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	assert.Equal(t, 1, quantity(t, store, "p1", "potion"))

	// quantity is checked before consumability
	_, err = svc.UseItem(ctx, "p1", "sword", 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	_, err = svc.UseItem(ctx, "p1", "ghost", 1)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestUseItem_EffectFailureRollsBack(t *testing.T) {
	svc, store, exp := newInventory(t)
	ctx := context.Background()
	_, err := svc.AddItem(ctx, "p1", "potion", 2, "src")
	require.NoError(t, err)

	exp.On("AddExperience", mock.Anything, "p1", int64(50), mock.Anything).
		Return(nil, errors.New("level store down")).Once()

	_, err = svc.UseItem(ctx, "p1", "potion", 1)
	require.Error(t, err)

	assert.Equal(t, 2, quantity(t, store, "p1", "potion"))
	wallet, err := store.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, wallet.Gold)
}

func TestScale_Saturates(t *testing.T) {
	assert.Equal(t, int64(30), scale(10, 3))
	assert.Equal(t, int64(1<<63-1), scale(1<<62, 4))
}
