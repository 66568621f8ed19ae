package domain

import "time"

// InventorySlot represents one item stack held by a player
type InventorySlot struct {
	PlayerID   string     `json:"player_id"`
	ItemID     string     `json:"item_id"`
	Quantity   int        `json:"quantity"`
	AcquiredAt time.Time  `json:"acquired_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// UseItemResult describes the effects applied by one UseItem call
type UseItemResult struct {
	ItemID            string         `json:"item_id"`
	QuantityUsed      int            `json:"quantity_used"`
	RemainingQuantity int            `json:"remaining_quantity"`
	Experience        *LevelUpResult `json:"experience,omitempty"`
	GoldCredited      int64          `json:"gold_credited,omitempty"`
	TimedEffects      []TimedEffect  `json:"timed_effects,omitempty"`
}
