package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"church_finance_bot/internal/domain/reminder"
)

// PostgresReminderStateRepository keeps the reminder gate in a single row.
type PostgresReminderStateRepository struct {
	db *sql.DB
}

func NewPostgresReminderStateRepository(db *sql.DB) *PostgresReminderStateRepository {
	return &PostgresReminderStateRepository{db: db}
}

func (r *PostgresReminderStateRepository) Get(ctx context.Context) (reminder.State, error) {
	var st reminder.State
	err := r.db.QueryRowContext(ctx, `SELECT last_notified_date, updated_at FROM reminder_state WHERE id = 1`).
		Scan(&st.LastNotifiedDate, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reminder.State{}, nil // First run
		}
		return reminder.State{}, fmt.Errorf("error getting reminder state: %w", err)
	}
	return st, nil
}

func (r *PostgresReminderStateRepository) Save(ctx context.Context, st reminder.State) error {
	query := `INSERT INTO reminder_state (id, last_notified_date, updated_at)
	          VALUES (1, $1, NOW())
	          ON CONFLICT (id) DO UPDATE SET last_notified_date = EXCLUDED.last_notified_date, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, st.LastNotifiedDate); err != nil {
		return fmt.Errorf("error saving reminder state: %w", err)
	}
	return nil
}
