package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"church_finance_bot/internal/domain/schedule"
)

// ErrScheduledItemChanged means the item was cancelled, settled or edited
// after it was loaded. Nothing was posted.
var ErrScheduledItemChanged = errors.New("scheduled item changed since it was loaded")

// PostgresSettlementStore posts the transaction and updates the schedule in
// one database transaction.
type PostgresSettlementStore struct {
	db *sql.DB
}

func NewPostgresSettlementStore(db *sql.DB) *PostgresSettlementStore {
	return &PostgresSettlementStore{db: db}
}

func (r *PostgresSettlementStore) ApplySettlement(ctx context.Context, current *schedule.Item, s *schedule.Settlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting settlement transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := insertPostedTransaction(ctx, tx, &s.Transaction); err != nil {
		return err
	}

	var res sql.Result
	switch s.Outcome {
	case schedule.OutcomeRenewed:
		res, err = tx.ExecContext(ctx,
			`UPDATE scheduled_items
			 SET due_date = $1, remaining_occurrences = $2, updated_at = NOW()
			 WHERE id = $3 AND is_active = TRUE AND due_date = $4`,
			s.Next.DueDate, s.Next.RemainingOccurrences, current.ID, current.DueDate)
	default:
		res, err = tx.ExecContext(ctx,
			`UPDATE scheduled_items SET is_active = FALSE, updated_at = NOW()
			 WHERE id = $1 AND is_active = TRUE AND due_date = $2`,
			current.ID, current.DueDate)
	}
	if err != nil {
		return fmt.Errorf("error applying %s outcome: %w", s.Outcome, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading settled rows: %w", err)
	}
	if n == 0 {
		return ErrScheduledItemChanged
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing settlement: %w", err)
	}
	return nil
}
