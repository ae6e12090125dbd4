package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting scheduled items.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListActive(ctx context.Context) ([]*Item, error)
	ListActiveByKind(ctx context.Context, kinds ...Kind) ([]*Item, error)
	ListAll(ctx context.Context) ([]*Item, error) // For admin purposes
	// Terminate marks the item inactive. Inactive items are never changed again.
	Terminate(ctx context.Context, id uuid.UUID) error
}

// SettlementStore applies the result of Settle. The posted transaction and
// the renewal or termination of current are committed together or not at
// all. current is the item as loaded before settling; if the stored item is
// no longer active with the same due date, nothing is written.
type SettlementStore interface {
	ApplySettlement(ctx context.Context, current *Item, s *Settlement) error
}
