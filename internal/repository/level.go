package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// LevelStates defines the data access interface for player level state
type LevelStates interface {
	// GetLevelState returns nil, nil for a player who never earned experience
	GetLevelState(ctx context.Context, playerID string) (*domain.PlayerLevelState, error)
	UpsertLevelState(ctx context.Context, state *domain.PlayerLevelState) error
}
