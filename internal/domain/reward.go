package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RewardKind identifies one of the closed set of reward variants
type RewardKind string

const (
	RewardKindExperience RewardKind = "experience"
	RewardKindCurrency   RewardKind = "currency"
	RewardKindItem       RewardKind = "item"
	RewardKindBadge      RewardKind = "badge"
	RewardKindTitle      RewardKind = "title"
)

// Currency is the denomination of a currency reward
type Currency string

const (
	CurrencyGold Currency = "gold"
	CurrencyGems Currency = "gems"
)

// Reward is a typed instruction to grant one unit of value. The set of
// implementations is closed: ExperienceReward, CurrencyReward, ItemReward,
// BadgeReward and TitleReward.
type Reward interface {
	Kind() RewardKind
	// Value is the human readable form stored in reward history
	Value() string
	isReward()
}

type ExperienceReward struct {
	Amount int64
}

type CurrencyReward struct {
	Currency Currency
	Amount   int64
}

type ItemReward struct {
	ItemID   string
	Quantity int
}

type BadgeReward struct {
	BadgeID string
}

type TitleReward struct {
	Title string
}

func (ExperienceReward) Kind() RewardKind { return RewardKindExperience }
func (CurrencyReward) Kind() RewardKind   { return RewardKindCurrency }
func (ItemReward) Kind() RewardKind       { return RewardKindItem }
func (BadgeReward) Kind() RewardKind      { return RewardKindBadge }
func (TitleReward) Kind() RewardKind      { return RewardKindTitle }

func (r ExperienceReward) Value() string { return strconv.FormatInt(r.Amount, 10) }
func (r CurrencyReward) Value() string   { return fmt.Sprintf("%d %s", r.Amount, r.Currency) }
func (r ItemReward) Value() string       { return fmt.Sprintf("%s x%d", r.ItemID, r.Quantity) }
func (r BadgeReward) Value() string      { return r.BadgeID }
func (r TitleReward) Value() string      { return r.Title }

func (ExperienceReward) isReward() {}
func (CurrencyReward) isReward()   {}
func (ItemReward) isReward()       {}
func (BadgeReward) isReward()      {}
func (TitleReward) isReward()      {}

// RewardSpec is the serialized form of a Reward used by catalogs, events and
// database columns.
type RewardSpec struct {
	Type     RewardKind `json:"type" yaml:"type" validate:"required,oneof=experience currency item badge title"`
	Amount   int64      `json:"amount,omitempty" yaml:"amount,omitempty" validate:"gte=0"`
	Currency Currency   `json:"currency,omitempty" yaml:"currency,omitempty"`
	ItemID   string     `json:"item_id,omitempty" yaml:"item_id,omitempty"`
	Quantity int        `json:"quantity,omitempty" yaml:"quantity,omitempty" validate:"gte=0"`
	BadgeID  string     `json:"badge_id,omitempty" yaml:"badge_id,omitempty"`
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
}

// Reward converts the spec into its typed variant
func (s RewardSpec) Reward() (Reward, error) {
	switch s.Type {
	case RewardKindExperience:
		if s.Amount < 0 {
			return nil, ErrNegativeAmount
		}
		return ExperienceReward{Amount: s.Amount}, nil
	case RewardKindCurrency:
		if s.Amount < 0 {
			return nil, ErrNegativeAmount
		}
		switch s.Currency {
		case CurrencyGold, CurrencyGems:
		case "":
			s.Currency = CurrencyGold
		default:
			return nil, fmt.Errorf("%w: unknown currency %q", ErrValidation, s.Currency)
		}
		return CurrencyReward{Currency: s.Currency, Amount: s.Amount}, nil
	case RewardKindItem:
		if s.ItemID == "" {
			return nil, fmt.Errorf("%w: item reward requires item_id", ErrValidation)
		}
		qty := s.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, ErrInvalidQuantity
		}
		return ItemReward{ItemID: s.ItemID, Quantity: qty}, nil
	case RewardKindBadge:
		if s.BadgeID == "" {
			return nil, fmt.Errorf("%w: badge reward requires badge_id", ErrValidation)
		}
		return BadgeReward{BadgeID: s.BadgeID}, nil
	case RewardKindTitle:
		if s.Title == "" {
			return nil, fmt.Errorf("%w: title reward requires title", ErrValidation)
		}
		return TitleReward{Title: s.Title}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRewardKind, s.Type)
	}
}

// SpecFor returns the serialized form of r
func SpecFor(r Reward) RewardSpec {
	switch v := r.(type) {
	case ExperienceReward:
		return RewardSpec{Type: RewardKindExperience, Amount: v.Amount}
	case CurrencyReward:
		return RewardSpec{Type: RewardKindCurrency, Currency: v.Currency, Amount: v.Amount}
	case ItemReward:
		return RewardSpec{Type: RewardKindItem, ItemID: v.ItemID, Quantity: v.Quantity}
	case BadgeReward:
		return RewardSpec{Type: RewardKindBadge, BadgeID: v.BadgeID}
	case TitleReward:
		return RewardSpec{Type: RewardKindTitle, Title: v.Title}
	}
	return RewardSpec{}
}

// SpecsFor converts a reward list to its serialized form
func SpecsFor(rewards []Reward) []RewardSpec {
	specs := make([]RewardSpec, 0, len(rewards))
	for _, r := range rewards {
		specs = append(specs, SpecFor(r))
	}
	return specs
}

// RewardsFromSpecs decodes a list of specs, failing on the first invalid entry
func RewardsFromSpecs(specs []RewardSpec) ([]Reward, error) {
	rewards := make([]Reward, 0, len(specs))
	for i, s := range specs {
		r, err := s.Reward()
		if err != nil {
			return nil, fmt.Errorf("reward %d: %w", i, err)
		}
		rewards = append(rewards, r)
	}
	return rewards, nil
}

// RewardStatus is the terminal state of a single reward application
type RewardStatus string

const (
	RewardStatusPending RewardStatus = "PENDING"
	RewardStatusApplied RewardStatus = "APPLIED"
	RewardStatusSkipped RewardStatus = "SKIPPED"
	RewardStatusFailed  RewardStatus = "FAILED"
)

// AppliedReward reports what happened to one reward descriptor
type AppliedReward struct {
	Reward    Reward       `json:"-"`
	Source    string       `json:"source"`
	Status    RewardStatus `json:"status"`
	Error     string       `json:"error,omitempty"`
	AppliedAt time.Time    `json:"applied_at,omitempty"`
}

// MarshalJSON renders the reward through its spec form
func (a AppliedReward) MarshalJSON() ([]byte, error) {
	type alias AppliedReward
	var spec *RewardSpec
	if a.Reward != nil {
		s := SpecFor(a.Reward)
		spec = &s
	}
	return json.Marshal(struct {
		alias
		Reward *RewardSpec `json:"reward,omitempty"`
	}{alias: alias(a), Reward: spec})
}

// RewardHistoryEntry is the append-only audit record of one granted reward
type RewardHistoryEntry struct {
	ID          uuid.UUID  `json:"id"`
	PlayerID    string     `json:"player_id"`
	RewardType  RewardKind `json:"reward_type"`
	RewardValue string     `json:"reward_value"`
	SourceType  string     `json:"source_type"`
	SourceID    string     `json:"source_id,omitempty"`
	AppliedAt   time.Time  `json:"applied_at"`
}

// Source reassembles the source string the entry was recorded from
func (e RewardHistoryEntry) Source() string {
	return Source{Type: e.SourceType, ID: e.SourceID}.String()
}

// NewRewardHistoryEntry builds a history entry for reward granted from source
func NewRewardHistoryEntry(playerID string, r Reward, source string, now time.Time) *RewardHistoryEntry {
	src := ParseSource(source)
	return &RewardHistoryEntry{
		ID:          uuid.New(),
		PlayerID:    playerID,
		RewardType:  r.Kind(),
		RewardValue: r.Value(),
		SourceType:  src.Type,
		SourceID:    src.ID,
		AppliedAt:   now,
	}
}
