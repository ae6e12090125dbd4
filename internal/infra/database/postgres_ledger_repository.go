package database

import (
	"context"
	"database/sql"
	"fmt"

	"church_finance_bot/internal/domain/ledger"

	"github.com/google/uuid"
)

type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertPostedTransaction assigns tx an ID and stores it through q.
func insertPostedTransaction(ctx context.Context, q queryRower, tx *ledger.PostedTransaction) error {
	tx.ID = uuid.New()
	query := `INSERT INTO posted_transactions (id, scheduled_item_id, kind, description, amount, txn_date,
	               category_id, cost_center_id, fund_id, account_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING created_at`
	err := q.QueryRowContext(ctx, query,
		tx.ID, tx.ScheduledItemID, tx.Kind, tx.Description, tx.Amount, tx.Date,
		tx.CategoryID, tx.CostCenterID, tx.FundID, tx.AccountID,
	).Scan(&tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording posted transaction: %w", err)
	}
	return nil
}

func (r *PostgresLedgerRepository) ListByScheduledItem(ctx context.Context, scheduledItemID uuid.UUID) ([]*ledger.PostedTransaction, error) {
	query := `SELECT id, scheduled_item_id, kind, description, amount, txn_date,
	                 category_id, cost_center_id, fund_id, account_id, created_at
	          FROM posted_transactions WHERE scheduled_item_id = $1 ORDER BY txn_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, scheduledItemID)
	if err != nil {
		return nil, fmt.Errorf("error listing posted transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*ledger.PostedTransaction, 0)
	for rows.Next() {
		tx := &ledger.PostedTransaction{}
		if err := rows.Scan(&tx.ID, &tx.ScheduledItemID, &tx.Kind, &tx.Description, &tx.Amount, &tx.Date,
			&tx.CategoryID, &tx.CostCenterID, &tx.FundID, &tx.AccountID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning posted transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted transactions: %w", err)
	}
	return txs, nil
}
