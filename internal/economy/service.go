// Package economy exposes the currency balances and unlocked titles that
// currency and title rewards accumulate into.
package economy

import (
	"context"
	"fmt"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/repository"
)

// Repository is the read side of wallets and titles
type Repository interface {
	repository.Wallets
	repository.Titles
}

// Service defines the wallet queries
type Service interface {
	GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error)
	Balance(ctx context.Context, playerID string, currency domain.Currency) (int64, error)
	ListTitles(ctx context.Context, playerID string) ([]string, error)
}

type service struct {
	repo Repository
}

// NewService creates a new economy service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetWallet returns the player's balances. A player who never earned
// currency has an empty wallet.
func (s *service) GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	w, err := s.repo.GetWallet(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetWalletFailed, err)
	}
	if w == nil {
		w = &domain.Wallet{PlayerID: playerID}
	}
	logger.FromContext(ctx).Debug(LogMsgWalletLoaded, "player_id", playerID, "gold", w.Gold, "gems", w.Gems)
	return w, nil
}

func (s *service) Balance(ctx context.Context, playerID string, currency domain.Currency) (int64, error) {
	w, err := s.GetWallet(ctx, playerID)
	if err != nil {
		return 0, err
	}
	switch currency {
	case domain.CurrencyGold:
		return w.Gold, nil
	case domain.CurrencyGems:
		return w.Gems, nil
	}
	return 0, fmt.Errorf("%w: "+ErrMsgUnknownCurrency, domain.ErrValidation, currency)
}

// ListTitles returns the titles the player has unlocked, in unlock order
func (s *service) ListTitles(ctx context.Context, playerID string) ([]string, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	titles, err := s.repo.ListTitles(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListTitlesFailed, err)
	}
	return titles, nil
}
