package catalog

import (
	"encoding/json"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Config is the file form of a catalog
type Config struct {
	Version      string              `json:"version"`
	Description  string              `json:"description,omitempty"`
	Items        []ItemConfig        `json:"items" validate:"dive"`
	Badges       []BadgeConfig       `json:"badges" validate:"dive"`
	DailyRewards []DailyRewardConfig `json:"daily_rewards" validate:"dive"`
}

// ItemConfig is one catalog item. Duration uses time.ParseDuration syntax.
type ItemConfig struct {
	ID           string        `json:"id" validate:"required"`
	Name         string        `json:"name" validate:"notblank"`
	Description  string        `json:"description,omitempty"`
	Type         string        `json:"type" validate:"oneof=boost consumable equipment"`
	Rarity       string        `json:"rarity,omitempty" validate:"omitempty,oneof=common uncommon rare epic legendary"`
	MaxStackSize int           `json:"max_stack_size" validate:"gte=1"`
	Consumable   bool          `json:"consumable,omitempty"`
	Effects      EffectsConfig `json:"effects,omitempty"`
}

type EffectsConfig struct {
	InstantExp  int64  `json:"instant_exp,omitempty" validate:"gte=0"`
	InstantGold int64  `json:"instant_gold,omitempty" validate:"gte=0"`
	ExpBoost    int    `json:"exp_boost,omitempty" validate:"gte=0,lte=500"`
	GoldBoost   int    `json:"gold_boost,omitempty" validate:"gte=0,lte=500"`
	Duration    string `json:"duration,omitempty"`
}

// BadgeConfig is one catalog badge
type BadgeConfig struct {
	ID          string             `json:"id" validate:"required"`
	Name        string             `json:"name" validate:"notblank"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Rarity      string             `json:"rarity,omitempty" validate:"omitempty,oneof=common uncommon rare epic legendary"`
	Requirement RequirementConfig  `json:"requirement"`
	Reward      *domain.RewardSpec `json:"reward,omitempty"`
}

// RequirementConfig holds either a bare threshold or the requirement's object form
type RequirementConfig struct {
	Type  domain.RequirementType `json:"type" validate:"required"`
	Value json.RawMessage        `json:"value"`
}

type DailyRewardConfig struct {
	Day         int                 `json:"day" validate:"gte=1,lte=30"`
	Description string              `json:"description,omitempty"`
	Rewards     []domain.RewardSpec `json:"rewards" validate:"min=1,dive"`
}

// Definitions is a validated catalog in domain form
type Definitions struct {
	Items        []domain.Item
	Badges       []domain.Badge
	DailyRewards []domain.DailyReward
}

// SyncResult counts the rows written by Sync
type SyncResult struct {
	ItemsUpserted        int
	BadgesUpserted       int
	DailyRewardsUpserted int
}
