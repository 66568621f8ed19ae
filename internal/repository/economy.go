package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Wallets defines the data access interface for currency balances
type Wallets interface {
	// GetWallet returns a zero wallet for unknown players
	GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error)
	Credit(ctx context.Context, playerID string, currency domain.Currency, amount int64) (*domain.Wallet, error)
}

// Titles defines the data access interface for unlocked titles
type Titles interface {
	// AddTitle returns false when the player already holds the title
	AddTitle(ctx context.Context, playerID, title string) (bool, error)
	ListTitles(ctx context.Context, playerID string) ([]string, error)
}
