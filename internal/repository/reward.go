package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// RewardHistory defines the append-only reward audit log
type RewardHistory interface {
	AppendRewardHistory(ctx context.Context, entry *domain.RewardHistoryEntry) error
	HasRewardFromSource(ctx context.Context, playerID string, kind domain.RewardKind, source domain.Source) (bool, error)
	// ListRewardHistory returns newest first; limit <= 0 returns everything
	ListRewardHistory(ctx context.Context, playerID string, limit int) ([]domain.RewardHistoryEntry, error)
}
