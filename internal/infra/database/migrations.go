package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS scheduled_items (
	id UUID PRIMARY KEY,
	kind VARCHAR(16) NOT NULL,
	title TEXT NOT NULL,
	amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
	due_date DATE NOT NULL,
	recurrence VARCHAR(16) NOT NULL DEFAULT 'NONE',
	remaining_occurrences INTEGER,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	category_id TEXT,
	cost_center_id TEXT,
	fund_id TEXT,
	account_id TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_scheduled_items_active_due ON scheduled_items(is_active, due_date);

CREATE TABLE IF NOT EXISTS posted_transactions (
	id UUID PRIMARY KEY,
	scheduled_item_id UUID REFERENCES scheduled_items(id),
	kind VARCHAR(16) NOT NULL,
	description TEXT NOT NULL,
	amount NUMERIC(14,2) NOT NULL,
	txn_date DATE NOT NULL,
	category_id TEXT,
	cost_center_id TEXT,
	fund_id TEXT,
	account_id TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_posted_transactions_item ON posted_transactions(scheduled_item_id);

CREATE TABLE IF NOT EXISTS reminder_state (
	id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	last_notified_date DATE,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the tables the bot needs if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
