package repository

import "context"

// Store is the complete persistence contract of the progression engine
type Store interface {
	TxRunner
	LevelStates
	DailyRewards
	Badges
	Inventory
	Wallets
	Titles
	Stats
	RewardHistory
	Catalog

	Ping(ctx context.Context) error
}
