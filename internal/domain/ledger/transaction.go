package ledger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostedTransaction is a realised income or expense entry in the ledger.
// Corresponds to the 'posted_transactions' table.
type PostedTransaction struct {
	ID              uuid.UUID // assigned when the settlement is stored
	ScheduledItemID uuid.UUID
	Kind            string // INCOME or EXPENSE, copied from the scheduled item
	Description     string
	Amount          decimal.Decimal
	Date            time.Time
	CategoryID      sql.NullString
	CostCenterID    sql.NullString
	FundID          sql.NullString
	AccountID       sql.NullString
	CreatedAt       time.Time
}
