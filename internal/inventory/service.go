// Package inventory manages per-player item stacks and consumable effects.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/telemetry"
)

// ItemCatalog resolves item definitions
type ItemCatalog interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
}

// ExperienceGranter receives instant_exp effects
type ExperienceGranter interface {
	AddExperience(ctx context.Context, playerID string, amount int64, source string) (*domain.LevelUpResult, error)
}

// Repository is the persistence used by the inventory
type Repository interface {
	repository.TxRunner
	repository.Inventory
	repository.Wallets
	repository.RewardHistory
}

// Service defines the inventory operations
type Service interface {
	AddItem(ctx context.Context, playerID, itemID string, qty int, source string) (*domain.InventorySlot, error)
	UseItem(ctx context.Context, playerID, itemID string, qty int) (*domain.UseItemResult, error)
	GetInventory(ctx context.Context, playerID string) ([]domain.InventorySlot, error)
}

type service struct {
	repo       Repository
	items      ItemCatalog
	experience ExperienceGranter
	locks      *concurrency.PlayerLocks
	clock      func() time.Time
}

// NewService creates the inventory service
func NewService(repo Repository, items ItemCatalog, experience ExperienceGranter, locks *concurrency.PlayerLocks) Service {
	return &service{
		repo:       repo,
		items:      items,
		experience: experience,
		locks:      locks,
		clock:      time.Now,
	}
}

// AddItem adds qty of itemID. The whole add is rejected with
// ErrStackLimitExceeded when the stack would exceed the item's max stack size.
func (s *service) AddItem(ctx context.Context, playerID, itemID string, qty int, source string) (slot *domain.InventorySlot, err error) {
	if err := validate(playerID, qty); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, SpanAddItem, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpAddItem)()

	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context) error {
			item, err := s.lookup(ctx, itemID)
			if err != nil {
				return err
			}

			now := s.clock()
			current, err := s.repo.GetSlot(ctx, playerID, itemID)
			if err != nil {
				return fmt.Errorf(ErrMsgLoadSlot, err)
			}
			if current == nil {
				current = &domain.InventorySlot{PlayerID: playerID, ItemID: itemID, AcquiredAt: now}
			}
			if qty > item.MaxStackSize-current.Quantity {
				return fmt.Errorf("%w: %s holds %d of %d, cannot add %d",
					domain.ErrStackLimitExceeded, itemID, current.Quantity, item.MaxStackSize, qty)
			}

			current.Quantity += qty
			if err := s.repo.UpsertSlot(ctx, current); err != nil {
				return fmt.Errorf(ErrMsgSaveSlot, err)
			}
			entry := domain.NewRewardHistoryEntry(playerID, domain.ItemReward{ItemID: itemID, Quantity: qty}, source, now)
			if err := s.repo.AppendRewardHistory(ctx, entry); err != nil {
				return fmt.Errorf(ErrMsgAppendHistory, err)
			}
			slot = current
			return nil
		})
	})
	if err != nil {
		s.reject(ctx, playerID, itemID, err)
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgItemAdded, "player_id", playerID, "item_id", itemID, "quantity", qty, "source", source)
	return slot, nil
}

// UseItem consumes qty of itemID and applies its effects. The decrement and
// every effect commit in one transaction; instant experience runs the level
// cascade, whose notifications go out after that transaction commits.
func (s *service) UseItem(ctx context.Context, playerID, itemID string, qty int) (result *domain.UseItemResult, err error) {
	if err := validate(playerID, qty); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, SpanUseItem, playerID)
	defer func() { telemetry.End(span, err) }()
	defer metrics.ObserveOperation(OpUseItem)()

	err = s.locks.WithPlayer(ctx, playerID, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, func(ctx context.Context) error {
			item, err := s.lookup(ctx, itemID)
			if err != nil {
				return err
			}

			slot, err := s.repo.GetSlot(ctx, playerID, itemID)
			if err != nil {
				return fmt.Errorf(ErrMsgLoadSlot, err)
			}
			held := 0
			if slot != nil {
				held = slot.Quantity
			}
			if held < qty {
				return fmt.Errorf("%w: %s holds %d, requested %d", domain.ErrInsufficientQuantity, itemID, held, qty)
			}
			if !item.Usable() {
				return fmt.Errorf("%w: %s is %s", domain.ErrItemNotConsumable, itemID, item.Type)
			}

			now := s.clock()
			slot.Quantity -= qty
			if slot.Quantity == 0 {
				err = s.repo.DeleteSlot(ctx, playerID, itemID)
			} else {
				slot.LastUsedAt = &now
				err = s.repo.UpsertSlot(ctx, slot)
			}
			if err != nil {
				return fmt.Errorf(ErrMsgSaveSlot, err)
			}

			result = &domain.UseItemResult{ItemID: itemID, QuantityUsed: qty, RemainingQuantity: slot.Quantity}
			return s.applyEffects(ctx, playerID, item, qty, now, result)
		})
	})
	if err != nil {
		s.reject(ctx, playerID, itemID, err)
		return nil, err
	}

	metrics.ItemsUsed.WithLabelValues(itemID).Add(float64(qty))
	logger.FromContext(ctx).Info(LogMsgItemUsed, "player_id", playerID, "item_id", itemID, "quantity", qty)
	return result, nil
}

// applyEffects routes each effect of qty units of item
func (s *service) applyEffects(ctx context.Context, playerID string, item *domain.Item, qty int, now time.Time, result *domain.UseItemResult) error {
	source := domain.ItemUseSource(item.ID)
	fx := item.Effects

	if fx.InstantExp > 0 {
		lr, err := s.experience.AddExperience(ctx, playerID, scale(fx.InstantExp, qty), source)
		if err != nil {
			return fmt.Errorf(ErrMsgItemExp, err)
		}
		result.Experience = lr
	}

	if fx.InstantGold > 0 {
		gold := domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: scale(fx.InstantGold, qty)}
		if _, err := s.repo.Credit(ctx, playerID, gold.Currency, gold.Amount); err != nil {
			return fmt.Errorf(ErrMsgCreditGold, err)
		}
		if err := s.repo.AppendRewardHistory(ctx, domain.NewRewardHistoryEntry(playerID, gold, source, now)); err != nil {
			return fmt.Errorf(ErrMsgAppendHistory, err)
		}
		result.GoldCredited = gold.Amount
	}

	// Stacked boosts extend the duration rather than the percentage
	duration := fx.Duration * time.Duration(qty)
	if fx.ExpBoost > 0 {
		result.TimedEffects = append(result.TimedEffects, timedEffect(domain.EffectExpBoost, fx.ExpBoost, duration, now, item.ID))
	}
	if fx.GoldBoost > 0 {
		result.TimedEffects = append(result.TimedEffects, timedEffect(domain.EffectGoldBoost, fx.GoldBoost, duration, now, item.ID))
	}
	return nil
}

// GetInventory lists the player's item stacks
func (s *service) GetInventory(ctx context.Context, playerID string) ([]domain.InventorySlot, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	slots, err := s.repo.ListSlots(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListSlots, err)
	}
	return slots, nil
}

func (s *service) lookup(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadItem, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	return item, nil
}

func (s *service) reject(ctx context.Context, playerID, itemID string, err error) {
	reason := ""
	switch {
	case errors.Is(err, domain.ErrStackLimitExceeded):
		reason = metrics.RejectStackLimit
	case errors.Is(err, domain.ErrInsufficientQuantity):
		reason = metrics.RejectInsufficientQuantity
	case errors.Is(err, domain.ErrItemNotConsumable):
		reason = metrics.RejectNotConsumable
	case errors.Is(err, domain.ErrItemNotFound):
		reason = metrics.RejectUnknownItem
	default:
		return
	}
	metrics.InventoryRejections.WithLabelValues(reason).Inc()
	logger.FromContext(ctx).Info(LogMsgItemRejected, "player_id", playerID, "item_id", itemID, "reason", reason)
}

func validate(playerID string, qty int) error {
	if playerID == "" {
		return domain.ErrEmptyPlayerID
	}
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

func timedEffect(kind domain.EffectKind, percent int, duration time.Duration, now time.Time, itemID string) domain.TimedEffect {
	return domain.TimedEffect{
		Kind:      kind,
		Percent:   percent,
		Duration:  duration,
		ExpiresAt: now.Add(duration),
		ItemID:    itemID,
	}
}

// scale multiplies a per-unit effect by qty, saturating at math.MaxInt64
func scale(perUnit int64, qty int) int64 {
	if perUnit > math.MaxInt64/int64(qty) {
		return math.MaxInt64
	}
	return perUnit * int64(qty)
}
