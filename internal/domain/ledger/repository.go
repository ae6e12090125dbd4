package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the read side of the ledger. Transactions are written only
// as part of a settlement, see schedule.SettlementStore.
type Repository interface {
	ListByScheduledItem(ctx context.Context, scheduledItemID uuid.UUID) ([]*PostedTransaction, error)
}
