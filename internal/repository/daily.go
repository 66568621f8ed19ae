package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// DailyRewards defines the data access interface for login streaks
type DailyRewards interface {
	// GetDailyState returns nil, nil for a player who never claimed
	GetDailyState(ctx context.Context, playerID string) (*domain.DailyRewardState, error)
	UpsertDailyState(ctx context.Context, state *domain.DailyRewardState) error
}
