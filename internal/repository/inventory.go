package repository

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Inventory defines the data access interface for item stacks
type Inventory interface {
	GetSlot(ctx context.Context, playerID, itemID string) (*domain.InventorySlot, error)
	ListSlots(ctx context.Context, playerID string) ([]domain.InventorySlot, error)
	UpsertSlot(ctx context.Context, slot *domain.InventorySlot) error
	DeleteSlot(ctx context.Context, playerID, itemID string) error
}
