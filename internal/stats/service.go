// Package stats keeps the lifetime player counters that badge requirements
// are evaluated against.
package stats

import (
	"context"
	"fmt"
	"maps"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/levelcurve"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/telemetry"
	"github.com/osse101/brandish-progression/internal/validation"
)

// BadgeChecker evaluates badges after counters change
type BadgeChecker interface {
	CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) ([]domain.Badge, error)
}

// Service defines the statistics operations
type Service interface {
	RecordQuestCompletion(ctx context.Context, playerID string, qc domain.QuestCompletion) (*domain.PlayerStats, []domain.Badge, error)
	Statistics(ctx context.Context, playerID string) (*domain.BadgeStatistics, error)
}

type service struct {
	repo   Repository
	badges BadgeChecker
	locks  *concurrency.PlayerLocks
}

// NewService creates the stats service
func NewService(repo Repository, badges BadgeChecker, locks *concurrency.PlayerLocks) Service {
	return &service{repo: repo, badges: badges, locks: locks}
}

// RecordQuestCompletion increments the quest counters and then checks the
// quest badges, plus perfect score badges for a perfect run. A failing badge
// check is logged and does not undo the recorded completion.
func (s *service) RecordQuestCompletion(ctx context.Context, playerID string, qc domain.QuestCompletion) (stats *domain.PlayerStats, awarded []domain.Badge, err error) {
	if playerID == "" {
		return nil, nil, domain.ErrEmptyPlayerID
	}
	if err := validation.Struct(qc); err != nil {
		return nil, nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, SpanRecordQuest, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpRecordQuest)()

	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		err := s.repo.WithTx(ctx, func(ctx context.Context) error {
			var err error
			stats, err = s.repo.RecordQuest(ctx, playerID, qc.Subject, qc.Perfect)
			return err
		})
		if err != nil {
			return fmt.Errorf(ErrMsgRecordQuest, err)
		}

		log := logger.FromContext(ctx)
		log.Info(LogMsgQuestRecorded, "player_id", playerID, "quest_id", qc.QuestID, "subject", qc.Subject, "perfect", qc.Perfect)

		if s.badges == nil {
			return nil
		}
		// The quest trigger already covers perfect score badges
		awarded, err = s.badges.CheckAndAwardBadges(ctx, playerID, domain.TriggerQuest)
		if err != nil {
			log.Warn(LogMsgBadgeCheckFailed, "player_id", playerID, "error", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return stats, awarded, nil
}

// Statistics returns the badge statistics snapshot of playerID
func (s *service) Statistics(ctx context.Context, playerID string) (*domain.BadgeStatistics, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	return Snapshot(ctx, s.repo, playerID)
}

// Snapshot gathers the statistics a badge requirement can measure. The
// streak is the stored one; a streak broken since the last claim only resets
// on the next claim.
func Snapshot(ctx context.Context, repo SnapshotRepository, playerID string) (*domain.BadgeStatistics, error) {
	snap := &domain.BadgeStatistics{
		SubjectCounts: map[string]int{},
		CurrentLevel:  levelcurve.MinLevel,
	}

	st, err := repo.GetStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadStats, err)
	}
	if st != nil {
		snap.QuestsCompleted = st.QuestsCompleted
		snap.PerfectScores = st.PerfectScores
		if st.SubjectCounts != nil {
			snap.SubjectCounts = maps.Clone(st.SubjectCounts)
		}
	}

	level, err := repo.GetLevelState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadLevel, err)
	}
	if level != nil {
		snap.CurrentLevel = level.CurrentLevel
	}

	daily, err := repo.GetDailyState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadStreak, err)
	}
	if daily != nil {
		snap.CurrentStreak = daily.CurrentStreak
	}
	return snap, nil
}
