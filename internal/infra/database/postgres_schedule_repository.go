package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"church_finance_bot/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Custom errors
var ErrScheduledItemNotFound = errors.New("scheduled item not found")

const scheduledItemColumns = `id, kind, title, amount, due_date, recurrence, remaining_occurrences, is_active,
	category_id, cost_center_id, fund_id, account_id, created_at, updated_at`

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*schedule.Item, error) {
	it := &schedule.Item{}
	err := row.Scan(
		&it.ID, &it.Kind, &it.Title, &it.Amount, &it.DueDate, &it.Recurrence, &it.RemainingOccurrences, &it.IsActive,
		&it.Associations.CategoryID, &it.Associations.CostCenterID, &it.Associations.FundID, &it.Associations.AccountID,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.DueDate = schedule.CalendarDate(it.DueDate)
	return it, nil
}

func scanItems(rows *sql.Rows) ([]*schedule.Item, error) {
	items := make([]*schedule.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning scheduled item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled item rows: %w", err)
	}
	return items, nil
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, it *schedule.Item) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	query := `INSERT INTO scheduled_items (id, kind, title, amount, due_date, recurrence, remaining_occurrences, is_active,
	               category_id, cost_center_id, fund_id, account_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		it.ID, it.Kind, it.Title, it.Amount, it.DueDate, it.Recurrence, it.RemainingOccurrences, it.IsActive,
		it.Associations.CategoryID, it.Associations.CostCenterID, it.Associations.FundID, it.Associations.AccountID,
	).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating scheduled item: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*schedule.Item, error) {
	query := `SELECT ` + scheduledItemColumns + ` FROM scheduled_items WHERE id = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduledItemNotFound
		}
		return nil, fmt.Errorf("error getting scheduled item by ID: %w", err)
	}
	return it, nil
}

func (r *PostgresScheduleRepository) ListActive(ctx context.Context) ([]*schedule.Item, error) {
	query := `SELECT ` + scheduledItemColumns + ` FROM scheduled_items
	          WHERE is_active = TRUE ORDER BY due_date, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active scheduled items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListActiveByKind narrows ListActive to the given kinds.
func (r *PostgresScheduleRepository) ListActiveByKind(ctx context.Context, kinds ...schedule.Kind) ([]*schedule.Item, error) {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	query := `SELECT ` + scheduledItemColumns + ` FROM scheduled_items
	          WHERE is_active = TRUE AND kind = ANY($1::varchar[]) ORDER BY due_date, title`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("error listing active scheduled items by kind: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *PostgresScheduleRepository) ListAll(ctx context.Context) ([]*schedule.Item, error) {
	query := `SELECT ` + scheduledItemColumns + ` FROM scheduled_items ORDER BY is_active DESC, due_date, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing all scheduled items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Terminate only touches active rows; an inactive item reports ErrScheduledItemNotFound.
func (r *PostgresScheduleRepository) Terminate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE scheduled_items SET is_active = FALSE, updated_at = NOW()
	          WHERE id = $1 AND is_active = TRUE`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error terminating scheduled item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading terminated rows: %w", err)
	}
	if n == 0 {
		return ErrScheduledItemNotFound
	}
	return nil
}
