// Package progression wires the progression services into one engine and
// exposes the operations quest, battle, login and item callers use.
package progression

import (
	"context"
	"time"

	"github.com/osse101/brandish-progression/internal/badge"
	"github.com/osse101/brandish-progression/internal/catalog"
	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/daily"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/economy"
	"github.com/osse101/brandish-progression/internal/experience"
	"github.com/osse101/brandish-progression/internal/inventory"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/reward"
	"github.com/osse101/brandish-progression/internal/stats"
)

// Dependencies are the collaborators an Engine is built from
type Dependencies struct {
	Store repository.Store
	// Catalog serves item, badge and daily reward definitions. Defaults to Store.
	Catalog catalog.Source
	// Notifier receives level up and badge unlock notifications. May be nil.
	Notifier domain.NotificationSink
	// Locker serializes each player's mutations. Defaults to an in-process LockManager.
	Locker concurrency.Locker
	Daily  daily.Config
	Clock  func() time.Time
}

// Engine is the inbound surface of the progression core
type Engine interface {
	AddExperience(ctx context.Context, playerID string, amount int64, source string) (*domain.LevelUpResult, error)
	ClaimDailyReward(ctx context.Context, playerID string) (*domain.RewardResult, error)
	CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) ([]domain.Badge, error)
	AddItemToInventory(ctx context.Context, playerID, itemID string, qty int, source string) (*domain.InventorySlot, error)
	UseItem(ctx context.Context, playerID, itemID string, qty int) (*domain.UseItemResult, error)
	RecordQuestCompletion(ctx context.Context, playerID string, qc domain.QuestCompletion) (*domain.PlayerStats, []domain.Badge, error)
	ApplyReward(ctx context.Context, playerID string, r domain.Reward, source string) (*domain.AppliedReward, error)
	ReconcileLevelRewards(ctx context.Context, playerID string) (int, error)

	GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error)
	GetDailyStatus(ctx context.Context, playerID string) (*domain.DailyStatus, error)
	GetInventory(ctx context.Context, playerID string) ([]domain.InventorySlot, error)
	GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error)
	ListTitles(ctx context.Context, playerID string) ([]string, error)
	ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error)
	Statistics(ctx context.Context, playerID string) (*domain.BadgeStatistics, error)
	RewardHistory(ctx context.Context, playerID string, limit int) ([]domain.RewardHistoryEntry, error)
}

type engine struct {
	experience experience.Service
	daily      daily.Service
	badges     badge.Service
	inventory  inventory.Service
	stats      stats.Service
	economy    economy.Service
	rewards    *reward.Processor
	clock      func() time.Time
}

// NewEngine builds every service over deps and wires the reward processor
// to the services that own experience, item and badge rewards.
func NewEngine(deps Dependencies) Engine {
	store := deps.Store
	source := deps.Catalog
	if source == nil {
		source = store
	}
	locker := deps.Locker
	if locker == nil {
		locker = concurrency.NewLockManager()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	locks := concurrency.NewPlayerLocks(locker)

	processor := reward.NewProcessor(store, locks)
	exp := experience.NewService(store, processor, deps.Notifier, locks)
	badges := badge.NewService(store, source, processor, deps.Notifier, locks)
	inv := inventory.NewService(store, source, exp, locks)
	processor.Wire(exp, inv, badges)
	exp.WireBadges(badges)

	return &engine{
		experience: exp,
		daily:      daily.NewService(store, source, processor, badges, locks, deps.Daily),
		badges:     badges,
		inventory:  inv,
		stats:      stats.NewService(store, badges, locks),
		economy:    economy.NewService(store),
		rewards:    processor,
		clock:      clock,
	}
}

func (e *engine) AddExperience(ctx context.Context, playerID string, amount int64, source string) (*domain.LevelUpResult, error) {
	return e.experience.AddExperience(ctx, playerID, amount, source)
}

func (e *engine) ClaimDailyReward(ctx context.Context, playerID string) (*domain.RewardResult, error) {
	return e.daily.ClaimDailyReward(ctx, playerID, e.clock())
}

func (e *engine) CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) ([]domain.Badge, error) {
	return e.badges.CheckAndAwardBadges(ctx, playerID, trigger)
}

func (e *engine) AddItemToInventory(ctx context.Context, playerID, itemID string, qty int, source string) (*domain.InventorySlot, error) {
	return e.inventory.AddItem(ctx, playerID, itemID, qty, source)
}

func (e *engine) UseItem(ctx context.Context, playerID, itemID string, qty int) (*domain.UseItemResult, error) {
	return e.inventory.UseItem(ctx, playerID, itemID, qty)
}

func (e *engine) RecordQuestCompletion(ctx context.Context, playerID string, qc domain.QuestCompletion) (*domain.PlayerStats, []domain.Badge, error) {
	return e.stats.RecordQuestCompletion(ctx, playerID, qc)
}

func (e *engine) ApplyReward(ctx context.Context, playerID string, r domain.Reward, source string) (*domain.AppliedReward, error) {
	return e.rewards.ApplyReward(ctx, playerID, r, source)
}

func (e *engine) ReconcileLevelRewards(ctx context.Context, playerID string) (int, error) {
	logger.FromContext(ctx).Info(LogMsgReconcileRequested, "player_id", playerID)
	return e.experience.ReconcileLevelRewards(ctx, playerID)
}

func (e *engine) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	return e.experience.GetProgress(ctx, playerID)
}

func (e *engine) GetDailyStatus(ctx context.Context, playerID string) (*domain.DailyStatus, error) {
	return e.daily.GetStatus(ctx, playerID, e.clock())
}

func (e *engine) GetInventory(ctx context.Context, playerID string) ([]domain.InventorySlot, error) {
	return e.inventory.GetInventory(ctx, playerID)
}

func (e *engine) GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error) {
	return e.economy.GetWallet(ctx, playerID)
}

func (e *engine) ListTitles(ctx context.Context, playerID string) ([]string, error) {
	return e.economy.ListTitles(ctx, playerID)
}

func (e *engine) ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error) {
	return e.badges.ListPlayerBadges(ctx, playerID)
}

func (e *engine) Statistics(ctx context.Context, playerID string) (*domain.BadgeStatistics, error) {
	return e.stats.Statistics(ctx, playerID)
}

func (e *engine) RewardHistory(ctx context.Context, playerID string, limit int) ([]domain.RewardHistoryEntry, error) {
	return e.rewards.History(ctx, playerID, limit)
}
