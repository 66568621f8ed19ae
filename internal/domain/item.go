package domain

import "time"

// ItemType classifies catalog items
type ItemType string

const (
	ItemTypeBoost      ItemType = "boost"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeEquipment  ItemType = "equipment"
)

// Item IDs referenced by the engine itself
const (
	ItemLevelChest  = "level_chest"
	ItemWeeklyBoost = "weekly_boost"
)

// ItemEffects is the closed set of effects an item can carry
type ItemEffects struct {
	InstantExp  int64         `json:"instant_exp,omitempty" yaml:"instant_exp,omitempty" validate:"gte=0"`
	InstantGold int64         `json:"instant_gold,omitempty" yaml:"instant_gold,omitempty" validate:"gte=0"`
	ExpBoost    int           `json:"exp_boost,omitempty" yaml:"exp_boost,omitempty" validate:"gte=0,lte=500"`
	GoldBoost   int           `json:"gold_boost,omitempty" yaml:"gold_boost,omitempty" validate:"gte=0,lte=500"`
	Duration    time.Duration `json:"duration,omitempty" yaml:"duration,omitempty" validate:"gte=0"`
}

// Item is a catalog item definition
type Item struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Type         ItemType    `json:"type"`
	Rarity       Rarity      `json:"rarity"`
	Effects      ItemEffects `json:"effects"`
	MaxStackSize int         `json:"max_stack_size"`
	Consumable   bool        `json:"consumable"`
}

// Usable reports whether the item can be consumed through UseItem
func (i *Item) Usable() bool {
	return i.Type == ItemTypeBoost || i.Type == ItemTypeConsumable
}

// EffectKind names a timed effect tracked outside the engine
type EffectKind string

const (
	EffectExpBoost  EffectKind = "exp_boost"
	EffectGoldBoost EffectKind = "gold_boost"
)

// TimedEffect is a boost the caller must track until ExpiresAt
type TimedEffect struct {
	Kind      EffectKind    `json:"kind"`
	Percent   int           `json:"percent"`
	Duration  time.Duration `json:"duration"`
	ExpiresAt time.Time     `json:"expires_at"`
	ItemID    string        `json:"item_id"`
}
