// Package badge evaluates badge requirements and awards each badge at most
// once per player.
package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/stats"
	"github.com/osse101/brandish-progression/internal/telemetry"
)

// BadgeCatalog resolves badge definitions
type BadgeCatalog interface {
	GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error)
	ListBadges(ctx context.Context) ([]domain.Badge, error)
}

// RewardApplier applies the reward attached to a badge
type RewardApplier interface {
	ApplyRewardOnce(ctx context.Context, playerID string, r domain.Reward, source string) (*domain.AppliedReward, error)
}

// Repository is the persistence used by the evaluator
type Repository interface {
	repository.TxRunner
	repository.Badges
	repository.RewardHistory
	stats.SnapshotRepository
}

// Service defines the badge operations
type Service interface {
	CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) ([]domain.Badge, error)
	AwardBadge(ctx context.Context, playerID, badgeID, source string) (*domain.Badge, bool, error)
	ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error)
}

type service struct {
	repo     Repository
	catalog  BadgeCatalog
	rewards  RewardApplier
	notifier domain.NotificationSink
	locks    *concurrency.PlayerLocks
	clock    func() time.Time
}

// NewService creates the badge evaluator. notifier may be nil.
func NewService(repo Repository, catalog BadgeCatalog, rewards RewardApplier, notifier domain.NotificationSink, locks *concurrency.PlayerLocks) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		rewards:  rewards,
		notifier: notifier,
		locks:    locks,
		clock:    time.Now,
	}
}

// CheckAndAwardBadges evaluates every unearned badge whose requirement the
// trigger covers and awards those now satisfied. Unsatisfied badges have their
// progress stored when it increased.
func (s *service) CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) (awarded []domain.Badge, err error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	if !validTrigger(trigger) {
		return nil, fmt.Errorf("%w: "+ErrMsgUnknownTrigger, domain.ErrValidation, trigger)
	}

	ctx, span := telemetry.StartSpan(ctx, SpanCheckAndAward, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpCheckAndAward)()

	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		badges, err := s.catalog.ListBadges(ctx)
		if err != nil {
			return fmt.Errorf(ErrMsgLoadBadges, err)
		}
		snapshot, err := stats.Snapshot(ctx, s.repo, playerID)
		if err != nil {
			return fmt.Errorf(ErrMsgStatistics, err)
		}
		held, err := s.playerBadges(ctx, playerID)
		if err != nil {
			return err
		}

		source := domain.AchievementSource(trigger)
		for i := range badges {
			b := &badges[i]
			if b.Requirement == nil {
				logger.FromContext(ctx).Debug(LogMsgSkipNoRequirement, "badge_id", b.ID)
				continue
			}
			existing := held[b.ID]
			if existing.Earned() || !trigger.Covers(b.Requirement.Type()) {
				continue
			}

			if Satisfied(b.Requirement, snapshot) {
				ok, err := s.award(ctx, playerID, b, source)
				if err != nil {
					return err
				}
				if ok {
					awarded = append(awarded, *b)
				}
				continue
			}

			if err := s.recordProgress(ctx, playerID, b, existing, Progress(b.Requirement, snapshot)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}

// AwardBadge awards badgeID directly, regardless of its requirement. awarded
// is false when the player already held it.
func (s *service) AwardBadge(ctx context.Context, playerID, badgeID, source string) (badge *domain.Badge, awarded bool, err error) {
	if playerID == "" {
		return nil, false, domain.ErrEmptyPlayerID
	}

	ctx, span := telemetry.StartSpan(ctx, SpanAwardBadge, playerID)
	defer func() { telemetry.End(span, err) }()

	badge, err = s.catalog.GetBadge(ctx, badgeID)
	if err != nil {
		return nil, false, fmt.Errorf(ErrMsgLoadBadge, err)
	}
	if badge == nil {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrBadgeNotFound, badgeID)
	}

	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		var err error
		awarded, err = s.award(ctx, playerID, badge, source)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return badge, awarded, nil
}

// ListPlayerBadges returns every badge row of playerID, earned or in progress
func (s *service) ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	rows, err := s.repo.ListPlayerBadges(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadProgress, err)
	}
	return rows, nil
}

// award marks b earned, counts it and records it in one transaction. The
// badge's own reward and the unlock notification follow once that commits.
func (s *service) award(ctx context.Context, playerID string, b *domain.Badge, source string) (bool, error) {
	marked := false
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		now := s.clock()
		var err error
		marked, err = s.repo.MarkBadgeEarned(ctx, playerID, b.ID, now)
		if err != nil {
			return fmt.Errorf(ErrMsgMarkEarned, err)
		}
		if !marked {
			return nil
		}
		if err := s.repo.IncrementBadgeEarned(ctx, b.ID, playerID, now); err != nil {
			return fmt.Errorf(ErrMsgIncrement, err)
		}
		entry := domain.NewRewardHistoryEntry(playerID, domain.BadgeReward{BadgeID: b.ID}, source, now)
		if err := s.repo.AppendRewardHistory(ctx, entry); err != nil {
			return fmt.Errorf(ErrMsgAppendHistory, err)
		}

		badge := *b
		repository.AfterCommit(ctx, func(ctx context.Context) { s.afterAward(ctx, playerID, badge, now) })
		return nil
	})
	if err != nil || !marked {
		return false, err
	}

	logger.FromContext(ctx).Info(LogMsgBadgeAwarded, "player_id", playerID, "badge_id", b.ID, "source", source)
	return true, nil
}

func (s *service) afterAward(ctx context.Context, playerID string, b domain.Badge, at time.Time) {
	log := logger.FromContext(ctx)
	if b.Reward != nil && s.rewards != nil {
		// The processor logs failures for reconciliation
		if _, err := s.rewards.ApplyRewardOnce(ctx, playerID, b.Reward, domain.BadgeSource(b.ID)); err != nil {
			log.Warn(LogMsgBadgeRewardFailed, "player_id", playerID, "badge_id", b.ID, "error", err)
		}
	}

	if s.notifier == nil {
		return
	}
	evt := domain.BadgeUnlockEvent{PlayerID: playerID, BadgeID: b.ID, Name: b.Name, Rarity: b.Rarity, OccurredAt: at}
	if err := s.notifier.NotifyBadgeUnlock(ctx, evt); err != nil {
		log.Warn(LogMsgNotifyFailed, "player_id", playerID, "badge_id", b.ID, "error", err)
	}
}

func (s *service) recordProgress(ctx context.Context, playerID string, b *domain.Badge, existing *domain.PlayerBadge, pct float64) error {
	if pct <= 0 || (existing != nil && pct <= existing.ProgressPercent) {
		return nil
	}
	row := &domain.PlayerBadge{PlayerID: playerID, BadgeID: b.ID, ProgressPercent: pct}
	if err := s.repo.UpsertBadgeProgress(ctx, row); err != nil {
		return fmt.Errorf(ErrMsgSaveProgress, err)
	}
	return nil
}

func (s *service) playerBadges(ctx context.Context, playerID string) (map[string]*domain.PlayerBadge, error) {
	rows, err := s.repo.ListPlayerBadges(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadProgress, err)
	}
	held := make(map[string]*domain.PlayerBadge, len(rows))
	for i := range rows {
		held[rows[i].BadgeID] = &rows[i]
	}
	return held, nil
}

func validTrigger(t domain.BadgeTrigger) bool {
	switch t {
	case domain.TriggerAll, domain.TriggerQuest, domain.TriggerLevel, domain.TriggerDailyLogin, domain.TriggerPerfectScore:
		return true
	}
	return false
}
