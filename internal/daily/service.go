// Package daily implements the calendar-day login streak and its rewards.
package daily

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/telemetry"
)

// RewardCatalog resolves the catalog reward of a streak day
type RewardCatalog interface {
	GetDailyReward(ctx context.Context, day int) (*domain.DailyReward, error)
}

// RewardApplier applies claim rewards
type RewardApplier interface {
	ApplyReward(ctx context.Context, playerID string, r domain.Reward, source string) (*domain.AppliedReward, error)
}

// BadgeChecker evaluates streak badges after a claim
type BadgeChecker interface {
	CheckAndAwardBadges(ctx context.Context, playerID string, trigger domain.BadgeTrigger) ([]domain.Badge, error)
}

// Repository is the persistence used by the tracker
type Repository interface {
	repository.TxRunner
	repository.DailyRewards
}

// Config fixes the calendar the streak is counted in
type Config struct {
	// Location decides where a calendar day starts. Defaults to UTC.
	Location *time.Location
	// Language selects the message catalog. Defaults to English.
	Language language.Tag
}

// Service defines the daily reward operations
type Service interface {
	ClaimDailyReward(ctx context.Context, playerID string, now time.Time) (*domain.RewardResult, error)
	GetStatus(ctx context.Context, playerID string, now time.Time) (*domain.DailyStatus, error)
}

type service struct {
	repo    Repository
	catalog RewardCatalog
	rewards RewardApplier
	badges  BadgeChecker
	locks   *concurrency.PlayerLocks
	loc     *time.Location
	printer *message.Printer
}

// NewService creates the daily reward tracker. badges may be nil.
func NewService(repo Repository, catalog RewardCatalog, rewards RewardApplier, badges BadgeChecker, locks *concurrency.PlayerLocks, cfg Config) Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	tag := cfg.Language
	if tag == language.Und {
		tag = language.English
	}
	return &service{
		repo:    repo,
		catalog: catalog,
		rewards: rewards,
		badges:  badges,
		locks:   locks,
		loc:     loc,
		printer: message.NewPrinter(tag),
	}
}

// ClaimDailyReward claims the reward for the calendar day of now. A second
// claim on the same day, or a now before the last claim, returns
// Success=false without error.
//
// The streak update and the base and milestone rewards commit together so a
// day can never be claimed twice; a reward that fails inside the claim is
// reported as FAILED and logged for reconciliation without undoing the claim.
func (s *service) ClaimDailyReward(ctx context.Context, playerID string, now time.Time) (result *domain.RewardResult, err error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}

	ctx, span := telemetry.StartSpan(ctx, SpanClaimDailyReward, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpClaimDailyReward)()

	today := domain.CalendarDate(now, s.loc)
	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		err := s.repo.WithTx(ctx, func(ctx context.Context) error {
			var err error
			result, err = s.claim(ctx, playerID, today, now)
			return err
		})
		if err != nil || !result.Success {
			return err
		}

		if s.badges != nil {
			awarded, err := s.badges.CheckAndAwardBadges(ctx, playerID, domain.TriggerDailyLogin)
			if err != nil {
				logger.FromContext(ctx).Warn(LogMsgBadgeCheckFailed, "player_id", playerID, "error", err)
			}
			result.AwardedBadges = awarded
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	if !result.Success {
		metrics.DailyClaims.WithLabelValues(metrics.ClaimResultAlreadyClaimed).Inc()
		log.Info(LogMsgAlreadyClaimed, "player_id", playerID, "date", today.Format(time.DateOnly))
		return result, nil
	}
	metrics.DailyClaims.WithLabelValues(metrics.ClaimResultClaimed).Inc()
	log.Info(LogMsgClaimed, "player_id", playerID, "day", result.Day, "streak", result.Streak)
	return result, nil
}

func (s *service) claim(ctx context.Context, playerID string, today, now time.Time) (*domain.RewardResult, error) {
	state, err := s.repo.GetDailyState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadState, err)
	}
	if state == nil {
		state = &domain.DailyRewardState{PlayerID: playerID, CreatedAt: now}
	}

	if state.LastClaimDate != nil && !state.LastClaimDate.Before(today) {
		return &domain.RewardResult{
			Success: false,
			Day:     streakDay(state.CurrentStreak),
			Streak:  state.CurrentStreak,
			Rewards: []domain.AppliedReward{},
			Message: s.printer.Sprintf(MsgKeyAlreadyClaimed),
		}, nil
	}

	advance(state, today, now)
	day := streakDay(state.CurrentStreak)

	base, err := s.rewardsForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	result := &domain.RewardResult{Success: true, Day: day, Streak: state.CurrentStreak}
	result.Rewards = s.apply(ctx, playerID, base, domain.DailyLoginSource(day))

	milestone, isMilestone := milestoneRewards[state.CurrentStreak]
	if isMilestone {
		result.BonusRewards = s.apply(ctx, playerID, []domain.Reward{milestone}, domain.StreakBonusSource(state.CurrentStreak))
	}
	result.Message = claimMessage(s.printer, day, state.CurrentStreak, isMilestone)

	if err := s.repo.UpsertDailyState(ctx, state); err != nil {
		return nil, fmt.Errorf(ErrMsgSaveState, err)
	}
	return result, nil
}

// advance moves the streak to today: +1 after a claim yesterday, otherwise a
// fresh streak of 1. The monthly log restarts when the month changes.
func advance(state *domain.DailyRewardState, today, now time.Time) {
	if state.LastClaimDate != nil && state.LastClaimDate.Equal(today.AddDate(0, 0, -1)) {
		state.CurrentStreak++
	} else {
		state.CurrentStreak = 1
	}
	state.LongestStreak = max(state.LongestStreak, state.CurrentStreak)

	if state.LastClaimDate == nil || !sameMonth(*state.LastClaimDate, today) {
		state.MonthlyClaimLog = nil
	}
	state.MonthlyClaimLog = append(state.MonthlyClaimLog, today)

	d := today
	state.LastClaimDate = &d
	state.TotalClaims++
	state.UpdatedAt = now
}

// apply grants each reward independently; failures are already logged by the processor
func (s *service) apply(ctx context.Context, playerID string, rewards []domain.Reward, source string) []domain.AppliedReward {
	out := make([]domain.AppliedReward, 0, len(rewards))
	for _, r := range rewards {
		applied, _ := s.rewards.ApplyReward(ctx, playerID, r, source)
		out = append(out, *applied)
	}
	return out
}

func (s *service) rewardsForDay(ctx context.Context, day int) ([]domain.Reward, error) {
	entry, err := s.catalog.GetDailyReward(ctx, day)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadCatalog, day, err)
	}
	if entry != nil && len(entry.Rewards) > 0 {
		return entry.Rewards, nil
	}
	logger.FromContext(ctx).Debug(LogMsgCatalogFallback, "day", day)
	return []domain.Reward{FallbackReward(day)}, nil
}

// GetStatus previews the next claim without changing anything
func (s *service) GetStatus(ctx context.Context, playerID string, now time.Time) (*domain.DailyStatus, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	state, err := s.repo.GetDailyState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadState, err)
	}

	today := domain.CalendarDate(now, s.loc)
	status := &domain.DailyStatus{CanClaim: true, NextDay: 1}
	if state != nil {
		status.LongestStreak = state.LongestStreak
		status.TotalClaims = state.TotalClaims
		status.LastClaimDate = state.LastClaimDate
		if last := state.LastClaimDate; last != nil {
			switch {
			case !last.Before(today):
				status.CanClaim = false
				status.CurrentStreak = state.CurrentStreak
				status.NextDay = streakDay(state.CurrentStreak + 1)
			case last.Equal(today.AddDate(0, 0, -1)):
				status.CurrentStreak = state.CurrentStreak
				status.NextDay = streakDay(state.CurrentStreak + 1)
			}
		}
	}

	status.NextRewards, err = s.rewardsForDay(ctx, status.NextDay)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// FallbackReward is the gold granted for day when the catalog has no entry
func FallbackReward(day int) domain.Reward {
	return domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: int64(FallbackBaseGold + FallbackGoldPerDay*day)}
}

// streakDay maps a streak onto the repeating 30 day cycle
func streakDay(streak int) int {
	if streak < 1 {
		return 1
	}
	return min(streak, domain.StreakCycleDays)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
