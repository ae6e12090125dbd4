package schedule

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidItem = errors.New("invalid scheduled item")

// Associations are foreign keys owned by other parts of the system.
// They are copied onto renewals and posted transactions as-is.
type Associations struct {
	CategoryID   sql.NullString
	CostCenterID sql.NullString
	FundID       sql.NullString
	AccountID    sql.NullString
}

// Item is a recurring or one-off bill or expected income.
// Corresponds to the 'scheduled_items' table.
type Item struct {
	ID         uuid.UUID
	Kind       Kind
	Title      string
	Amount     decimal.Decimal
	DueDate    time.Time // calendar date, see CalendarDate
	Recurrence Recurrence
	// RemainingOccurrences counts the occurrences not yet paid, including the
	// current one. Invalid means the item repeats indefinitely.
	RemainingOccurrences sql.NullInt32
	IsActive             bool
	Associations         Associations
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Indefinite reports whether the item has no occurrence limit.
func (i *Item) Indefinite() bool {
	return !i.RemainingOccurrences.Valid
}

// ValidateNew checks the invariants an item must satisfy when it is created.
func (i *Item) ValidateNew() error {
	if !i.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidItem, i.Kind)
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidItem)
	}
	if !i.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidItem)
	}
	if i.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidItem)
	}
	if _, ok := ParseRecurrence(string(i.Recurrence)); !ok {
		return fmt.Errorf("%w: unsupported recurrence %q", ErrInvalidItem, i.Recurrence)
	}
	if i.Recurrence == RecurrenceNone && i.RemainingOccurrences.Valid {
		return fmt.Errorf("%w: a one-off item cannot have an occurrence count", ErrInvalidItem)
	}
	// A single occurrence is a one-off item; it must be created as NONE.
	if i.Recurrence != RecurrenceNone && i.RemainingOccurrences.Valid && i.RemainingOccurrences.Int32 < 2 {
		return fmt.Errorf("%w: occurrence count must be at least 2", ErrInvalidItem)
	}
	return nil
}
