// Package reward applies reward descriptors of every kind and keeps the
// append-only reward history.
package reward

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/levelcurve"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/telemetry"
)

// ExperienceGranter receives experience rewards
type ExperienceGranter interface {
	AddExperience(ctx context.Context, playerID string, amount int64, source string) (*domain.LevelUpResult, error)
}

// ItemGranter receives item rewards
type ItemGranter interface {
	AddItem(ctx context.Context, playerID, itemID string, qty int, source string) (*domain.InventorySlot, error)
}

// BadgeAwarder receives badge rewards. awarded is false when the player
// already held the badge.
type BadgeAwarder interface {
	AwardBadge(ctx context.Context, playerID, badgeID, source string) (badge *domain.Badge, awarded bool, err error)
}

// Repository is the persistence the processor writes to directly
type Repository interface {
	repository.TxRunner
	repository.LevelStates
	repository.Wallets
	repository.Titles
	repository.RewardHistory
}

// Processor dispatches rewards to the component that owns each kind.
// Currency and title rewards are applied here; the owning component records
// history for the other kinds in the same transaction as its mutation.
type Processor struct {
	repo  Repository
	locks *concurrency.PlayerLocks
	clock func() time.Time

	experience ExperienceGranter
	items      ItemGranter
	badges     BadgeAwarder
}

// NewProcessor creates a processor. Collaborators that themselves apply
// rewards are attached afterwards with Wire.
func NewProcessor(repo Repository, locks *concurrency.PlayerLocks) *Processor {
	return &Processor{
		repo:  repo,
		locks: locks,
		clock: time.Now,
	}
}

// Wire attaches the components that own experience, item and badge rewards
func (p *Processor) Wire(experience ExperienceGranter, items ItemGranter, badges BadgeAwarder) {
	p.experience = experience
	p.items = items
	p.badges = badges
}

// ApplyReward applies r to playerID. A failed application leaves no partial
// effect and is reported with Status FAILED alongside the error.
func (p *Processor) ApplyReward(ctx context.Context, playerID string, r domain.Reward, source string) (applied *domain.AppliedReward, err error) {
	return p.apply(ctx, playerID, r, source, false)
}

// ApplyRewardOnce is ApplyReward unless playerID already has a history entry
// of the same kind from source, in which case the reward is SKIPPED.
func (p *Processor) ApplyRewardOnce(ctx context.Context, playerID string, r domain.Reward, source string) (*domain.AppliedReward, error) {
	return p.apply(ctx, playerID, r, source, true)
}

// ApplyRewards applies each reward in its own transaction. A failure does
// not stop the remaining rewards.
func (p *Processor) ApplyRewards(ctx context.Context, playerID string, rewards []domain.Reward, source string) []domain.AppliedReward {
	out := make([]domain.AppliedReward, 0, len(rewards))
	for _, r := range rewards {
		applied, _ := p.ApplyReward(ctx, playerID, r, source)
		out = append(out, *applied)
	}
	return out
}

// History returns the newest reward history entries of playerID
func (p *Processor) History(ctx context.Context, playerID string, limit int) ([]domain.RewardHistoryEntry, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := p.repo.ListRewardHistory(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListHistory, err)
	}
	return entries, nil
}

func (p *Processor) apply(ctx context.Context, playerID string, r domain.Reward, source string, once bool) (applied *domain.AppliedReward, err error) {
	applied = &domain.AppliedReward{Reward: r, Source: source, Status: domain.RewardStatusPending}
	if r == nil {
		applied.Status = domain.RewardStatusFailed
		applied.Error = domain.ErrMsgUnknownRewardKind
		return applied, domain.ErrUnknownRewardKind
	}
	if playerID == "" {
		err = domain.ErrEmptyPlayerID
		p.fail(ctx, playerID, applied, err)
		return applied, err
	}

	ctx, span := telemetry.StartSpan(ctx, SpanApplyReward, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpApplyReward)()

	err = p.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		if once {
			seen, err := p.repo.HasRewardFromSource(ctx, playerID, r.Kind(), domain.ParseSource(source))
			if err != nil {
				return fmt.Errorf(ErrMsgCheckHistory, err)
			}
			if seen {
				applied.Status = domain.RewardStatusSkipped
				return nil
			}
		}

		granted, err := p.dispatch(ctx, playerID, r, source)
		if err != nil {
			return err
		}
		applied.Reward = granted
		if granted == nil {
			applied.Reward = r
			applied.Status = domain.RewardStatusSkipped
			return nil
		}
		applied.Status = domain.RewardStatusApplied
		applied.AppliedAt = p.clock()
		return nil
	})

	log := logger.FromContext(ctx)
	switch {
	case err != nil:
		p.fail(ctx, playerID, applied, err)
	case applied.Status == domain.RewardStatusSkipped:
		log.Debug(LogMsgRewardSkipped, "player_id", playerID, "kind", r.Kind(), "source", source)
	default:
		log.Info(LogMsgRewardApplied, "player_id", playerID, "kind", applied.Reward.Kind(), "value", applied.Reward.Value(), "source", source)
	}
	metrics.RewardsApplied.WithLabelValues(string(r.Kind()), string(applied.Status)).Inc()
	return applied, err
}

// fail marks applied FAILED and logs everything an operator needs to grant it by hand
func (p *Processor) fail(ctx context.Context, playerID string, applied *domain.AppliedReward, err error) {
	applied.Status = domain.RewardStatusFailed
	applied.Error = err.Error()
	logger.FromContext(ctx).Error(LogMsgRewardFailed,
		"reconcile", true,
		"player_id", playerID,
		"kind", applied.Reward.Kind(),
		"value", applied.Reward.Value(),
		"source", applied.Source,
		"error", err)
}

// dispatch applies r and returns the reward actually granted (currency after
// perks), or nil when there was nothing to grant.
func (p *Processor) dispatch(ctx context.Context, playerID string, r domain.Reward, source string) (domain.Reward, error) {
	switch v := r.(type) {
	case domain.ExperienceReward:
		if p.experience == nil {
			return nil, p.notWired(ctx, v)
		}
		if _, err := p.experience.AddExperience(ctx, playerID, v.Amount, source); err != nil {
			return nil, fmt.Errorf(ErrMsgGrantExperience, err)
		}
		return v, nil

	case domain.CurrencyReward:
		return p.creditCurrency(ctx, playerID, v, source)

	case domain.ItemReward:
		if p.items == nil {
			return nil, p.notWired(ctx, v)
		}
		if _, err := p.items.AddItem(ctx, playerID, v.ItemID, v.Quantity, source); err != nil {
			return nil, fmt.Errorf(ErrMsgAddItem, err)
		}
		return v, nil

	case domain.BadgeReward:
		if p.badges == nil {
			return nil, p.notWired(ctx, v)
		}
		_, awarded, err := p.badges.AwardBadge(ctx, playerID, v.BadgeID, source)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgAwardBadge, err)
		}
		if !awarded {
			return nil, nil
		}
		return v, nil

	case domain.TitleReward:
		return p.addTitle(ctx, playerID, v, source)
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrUnknownRewardKind, r)
}

func (p *Processor) notWired(ctx context.Context, r domain.Reward) error {
	logger.FromContext(ctx).Error(LogMsgMissingCollaborator, "kind", r.Kind())
	return fmt.Errorf(ErrMsgNotWired, r.Kind())
}

func (p *Processor) creditCurrency(ctx context.Context, playerID string, r domain.CurrencyReward, source string) (domain.Reward, error) {
	if r.Amount < 0 {
		return nil, domain.ErrNegativeAmount
	}
	granted := r
	err := p.repo.WithTx(ctx, func(ctx context.Context) error {
		if r.Currency == domain.CurrencyGold {
			level, err := p.perkLevel(ctx, playerID, source)
			if err != nil {
				return err
			}
			granted.Amount = levelcurve.ApplyBoost(r.Amount, levelcurve.PerksFor(level).GoldBoost)
		}

		if _, err := p.repo.Credit(ctx, playerID, granted.Currency, granted.Amount); err != nil {
			return fmt.Errorf(ErrMsgCreditCurrency, granted.Currency, err)
		}
		if err := p.repo.AppendRewardHistory(ctx, domain.NewRewardHistoryEntry(playerID, granted, source, p.clock())); err != nil {
			return fmt.Errorf(ErrMsgAppendHistory, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return granted, nil
}

func (p *Processor) addTitle(ctx context.Context, playerID string, r domain.TitleReward, source string) (domain.Reward, error) {
	added := false
	err := p.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		added, err = p.repo.AddTitle(ctx, playerID, r.Title)
		if err != nil {
			return fmt.Errorf(ErrMsgAddTitle, err)
		}
		if !added {
			return nil
		}
		if err := p.repo.AppendRewardHistory(ctx, domain.NewRewardHistoryEntry(playerID, r, source, p.clock())); err != nil {
			return fmt.Errorf(ErrMsgAppendHistory, err)
		}
		return nil
	})
	if err != nil || !added {
		return nil, err
	}
	return r, nil
}

// perkLevel is the level whose perks boost a gold grant. Level-up rewards use
// the level being entered, so every reward of a cascade is boosted the same
// whether it is applied live or later by reconciliation; everything else uses
// the player's current level.
func (p *Processor) perkLevel(ctx context.Context, playerID, source string) (int, error) {
	if src := domain.ParseSource(source); src.Type == domain.SourceLevelUp {
		if level, err := strconv.Atoi(src.ID); err == nil && level >= levelcurve.MinLevel {
			return level, nil
		}
	}
	state, err := p.repo.GetLevelState(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgLoadLevelState, err)
	}
	if state == nil {
		return levelcurve.MinLevel, nil
	}
	return state.CurrentLevel, nil
}
