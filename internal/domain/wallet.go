package domain

import "time"

// Wallet holds a player's currency balances
type Wallet struct {
	PlayerID  string    `json:"player_id"`
	Gold      int64     `json:"gold"`
	Gems      int64     `json:"gems"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance returns the amount held in currency c
func (w *Wallet) Balance(c Currency) int64 {
	if c == CurrencyGems {
		return w.Gems
	}
	return w.Gold
}
