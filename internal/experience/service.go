// Package experience applies experience grants and runs the level cascade.
package experience

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/levelcurve"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/telemetry"
)

// RewardApplier applies level rewards. ApplyRewardOnce makes the cascade and
// reconciliation safe to repeat.
type RewardApplier interface {
	ApplyRewardOnce(ctx context.Context, playerID string, r domain.Reward, source string) (*domain.AppliedReward, error)
}

// BadgeChecker evaluates level badges once a level up has committed
type BadgeChecker interface {
	CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) ([]domain.Badge, error)
}

// Repository is the persistence used by the engine
type Repository interface {
	repository.TxRunner
	repository.LevelStates
	repository.RewardHistory
}

// Service defines the experience operations
type Service interface {
	AddExperience(ctx context.Context, playerID string, baseAmount int64, source string) (*domain.LevelUpResult, error)
	GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error)
	ReconcileLevelRewards(ctx context.Context, playerID string) (int, error)
	// WireBadges sets the checker run after every level up. The badge
	// service depends on the reward processor, which depends on this
	// service, so it is wired after construction.
	WireBadges(badges BadgeChecker)
}

type service struct {
	repo     Repository
	rewards  RewardApplier
	notifier domain.NotificationSink
	badges   BadgeChecker
	locks    *concurrency.PlayerLocks
	clock    func() time.Time
}

// NewService creates the experience engine. notifier may be nil.
func NewService(repo Repository, rewards RewardApplier, notifier domain.NotificationSink, locks *concurrency.PlayerLocks) Service {
	return &service{
		repo:     repo,
		rewards:  rewards,
		notifier: notifier,
		locks:    locks,
		clock:    time.Now,
	}
}

func (s *service) WireBadges(badges BadgeChecker) {
	s.badges = badges
}

// AddExperience grants baseAmount boosted by the player's exp_boost perk.
//
// The new level state and its history entry commit together first. Each
// level entered then has its rewards applied one transaction at a time under
// the source level_up_<L>; a reward that fails is reported as FAILED and
// logged for reconciliation without stopping the rest. The level up
// notification and the level badge check run once everything has committed,
// whichever path the experience arrived through.
func (s *service) AddExperience(ctx context.Context, playerID string, baseAmount int64, source string) (result *domain.LevelUpResult, err error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	if baseAmount < 0 {
		return nil, domain.ErrNegativeAmount
	}

	ctx, span := telemetry.StartSpan(ctx, SpanAddExperience, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpAddExperience)()

	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		var levels []int
		var txErr error
		result, levels, txErr = s.commitGrant(ctx, playerID, baseAmount, source)
		if txErr != nil {
			return txErr
		}

		log := logger.FromContext(ctx)
		log.Info(LogMsgExperienceAdded, "player_id", playerID, "amount", result.ExperienceGained, "total", result.TotalExperience, "source", source)
		metrics.ExperienceGranted.Add(float64(result.ExperienceGained))

		if len(levels) == 0 {
			return nil
		}

		log.Info(LogMsgLevelUp, "player_id", playerID, "old_level", result.OldLevel, "new_level", result.NewLevel)
		var granted []domain.Reward
		for _, level := range levels {
			for _, r := range levelcurve.LevelRewards(level) {
				applied := s.applyLevelReward(ctx, playerID, level, r)
				result.Rewards = append(result.Rewards, applied)
				granted = append(granted, r)
			}
		}

		evt := domain.LevelUpEvent{
			PlayerID:   playerID,
			OldLevel:   result.OldLevel,
			NewLevel:   result.NewLevel,
			Rewards:    domain.SpecsFor(granted),
			OccurredAt: s.clock(),
		}
		repository.AfterCommit(ctx, func(ctx context.Context) {
			s.notify(ctx, evt)
			s.checkLevelBadges(ctx, playerID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// commitGrant updates the level state and records the grant in one transaction.
// It returns the levels entered, in order.
func (s *service) commitGrant(ctx context.Context, playerID string, baseAmount int64, source string) (*domain.LevelUpResult, []int, error) {
	var result *domain.LevelUpResult
	var levels []int

	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		now := s.clock()
		state, err := s.repo.GetLevelState(ctx, playerID)
		if err != nil {
			return fmt.Errorf(ErrMsgLoadState, err)
		}
		if state == nil {
			state = domain.NewPlayerLevelState(playerID, now)
		}

		oldLevel := state.CurrentLevel
		gained := levelcurve.ApplyBoost(baseAmount, levelcurve.PerksFor(oldLevel).ExpBoost)
		levels = advance(state, gained, now)
		state.UpdatedAt = now

		if err := s.repo.UpsertLevelState(ctx, state); err != nil {
			return fmt.Errorf(ErrMsgSaveState, err)
		}
		if gained > 0 {
			entry := domain.NewRewardHistoryEntry(playerID, domain.ExperienceReward{Amount: gained}, source, now)
			if err := s.repo.AppendRewardHistory(ctx, entry); err != nil {
				return fmt.Errorf(ErrMsgAppendHistory, err)
			}
		}

		result = &domain.LevelUpResult{
			LeveledUp:        len(levels) > 0,
			OldLevel:         oldLevel,
			NewLevel:         state.CurrentLevel,
			LevelsGained:     levels,
			ExperienceGained: gained,
			TotalExperience:  state.TotalExperienceEarned,
			Rewards:          []domain.AppliedReward{},
			NextLevelExp:     nextLevelExp(state.CurrentLevel),
			ProgressPercent:  state.LevelProgressPercent,
		}
		return nil
	})
	return result, levels, err
}

// advance adds gained to state and enters every level the new total reaches
func advance(state *domain.PlayerLevelState, gained int64, now time.Time) []int {
	state.TotalExperienceEarned = saturatingAdd(state.TotalExperienceEarned, gained)

	var levels []int
	for state.CurrentLevel < levelcurve.MaxLevel &&
		state.TotalExperienceEarned >= levelcurve.RequiredExperience(state.CurrentLevel+1) {
		state.CurrentLevel++
		levels = append(levels, state.CurrentLevel)
		t := now
		state.LastLevelUpAt = &t
	}
	if state.CurrentLevel > state.HighestLevelEverReached {
		state.HighestLevelEverReached = state.CurrentLevel
	}

	state.CurrentExperienceInLevel = state.TotalExperienceEarned - levelcurve.RequiredExperience(state.CurrentLevel)
	state.LevelProgressPercent = levelcurve.ProgressPercent(state.CurrentLevel, state.TotalExperienceEarned)
	return levels
}

func (s *service) applyLevelReward(ctx context.Context, playerID string, level int, r domain.Reward) domain.AppliedReward {
	source := domain.LevelUpSource(level)
	applied, err := s.rewards.ApplyRewardOnce(ctx, playerID, r, source)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgLevelRewardFailed,
			"reconcile", true, "player_id", playerID, "level", level,
			"kind", r.Kind(), "value", r.Value(), "error", err)
	}
	if applied == nil {
		applied = &domain.AppliedReward{Reward: r, Source: source, Status: domain.RewardStatusFailed}
		if err != nil {
			applied.Error = err.Error()
		}
	}
	return *applied
}

func (s *service) notify(ctx context.Context, evt domain.LevelUpEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyLevelUp(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgNotifyFailed, "player_id", evt.PlayerID, "new_level", evt.NewLevel, "error", err)
	}
}

// checkLevelBadges costs only the badge on failure; the next level up
// evaluates it again.
func (s *service) checkLevelBadges(ctx context.Context, playerID string) {
	if s.badges == nil {
		return
	}
	if _, err := s.badges.CheckAndAwardBadges(ctx, playerID, domain.TriggerLevel); err != nil {
		logger.FromContext(ctx).Warn(LogMsgLevelBadgeCheck, "player_id", playerID, "error", err)
	}
}

// GetProgress returns the player's level progress. Unknown players are at level 1.
func (s *service) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	state, err := s.repo.GetLevelState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadState, err)
	}
	if state == nil {
		state = domain.NewPlayerLevelState(playerID, s.clock())
	}

	level := state.CurrentLevel
	progress := &domain.PlayerProgress{
		PlayerID:        playerID,
		Level:           level,
		Title:           levelcurve.Title(level),
		TotalExperience: state.TotalExperienceEarned,
		ExperienceInto:  state.TotalExperienceEarned - levelcurve.RequiredExperience(level),
		NextLevelExp:    nextLevelExp(level),
		ProgressPercent: levelcurve.ProgressPercent(level, state.TotalExperienceEarned),
		AtMaxLevel:      level >= levelcurve.MaxLevel,
		Perks:           levelcurve.PerksFor(level),
	}
	if !progress.AtMaxLevel {
		progress.ExperienceToNext = progress.NextLevelExp - state.TotalExperienceEarned
	}
	return progress, nil
}

// ReconcileLevelRewards applies every level reward for levels 2..current that
// has no history entry yet and returns how many were applied.
func (s *service) ReconcileLevelRewards(ctx context.Context, playerID string) (applied int, err error) {
	if playerID == "" {
		return 0, domain.ErrEmptyPlayerID
	}

	ctx, span := telemetry.StartSpan(ctx, SpanReconcile, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpReconcileRewards)()

	failed := 0
	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		state, err := s.repo.GetLevelState(ctx, playerID)
		if err != nil {
			return fmt.Errorf(ErrMsgLoadState, err)
		}
		if state == nil {
			return nil
		}
		for level := levelcurve.MinLevel + 1; level <= state.CurrentLevel; level++ {
			for _, r := range levelcurve.LevelRewards(level) {
				switch s.applyLevelReward(ctx, playerID, level, r).Status {
				case domain.RewardStatusApplied:
					applied++
				case domain.RewardStatusFailed:
					failed++
				}
			}
		}
		return nil
	})
	if err != nil {
		return applied, err
	}

	log := logger.FromContext(ctx)
	if failed > 0 {
		log.Warn(LogMsgReconcileIncomplete, "player_id", playerID, "applied", applied, "failed", failed)
	} else {
		log.Info(LogMsgRewardsReconciled, "player_id", playerID, "applied", applied)
	}
	return applied, nil
}

// nextLevelExp is the cumulative threshold of the next level, or of the cap
// level once reached.
func nextLevelExp(level int) int64 {
	if level >= levelcurve.MaxLevel {
		return levelcurve.RequiredExperience(levelcurve.MaxLevel)
	}
	return levelcurve.RequiredExperience(level + 1)
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
