package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Stats defines the data access interface for lifetime player counters
type Stats interface {
	// GetStats returns zeroed stats for unknown players
	GetStats(ctx context.Context, playerID string) (*domain.PlayerStats, error)
	RecordQuest(ctx context.Context, playerID, subject string, perfect bool) (*domain.PlayerStats, error)
}
