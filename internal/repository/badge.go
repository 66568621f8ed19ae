package repository

import (
	"context"
	"time"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Badges defines the data access interface for per-player badge progress
type Badges interface {
	GetPlayerBadge(ctx context.Context, playerID, badgeID string) (*domain.PlayerBadge, error)
	ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error)
	// UpsertBadgeProgress stores progress for an unearned badge. It never
	// touches earned_at.
	UpsertBadgeProgress(ctx context.Context, pb *domain.PlayerBadge) error
	// MarkBadgeEarned sets progress to 100 and earned_at to at, creating the
	// row if needed. It returns false without changes when already earned.
	MarkBadgeEarned(ctx context.Context, playerID, badgeID string, at time.Time) (bool, error)
	// IncrementBadgeEarned bumps the catalog badge's total earned count and
	// records playerID as first earner if none is set.
	IncrementBadgeEarned(ctx context.Context, badgeID, playerID string, at time.Time) error
}
