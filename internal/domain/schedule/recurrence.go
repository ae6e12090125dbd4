package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"church_finance_bot/internal/domain/ledger"
)

var (
	ErrInactiveItem      = errors.New("scheduled item is not active")
	ErrUnknownRecurrence = errors.New("unknown recurrence")
)

// Outcome is what happens to a schedule after one of its occurrences is paid.
type Outcome string

const (
	OutcomeRenewed    Outcome = "RENEWED"
	OutcomeTerminated Outcome = "TERMINATED"
)

// PaymentEvent is the user marking an occurrence as paid. Amount and PaidOn
// may differ from the forecast; they only end up on the posted transaction.
type PaymentEvent struct {
	Amount decimal.Decimal
	PaidOn time.Time
}

// Settlement is the result of Settle.
type Settlement struct {
	Transaction ledger.PostedTransaction
	Outcome     Outcome
	// Next is set only when Outcome is OutcomeRenewed.
	Next *Item
	// Diagnostic holds a data-integrity problem that forced termination.
	Diagnostic error
}

// Advance moves a due date forward by one recurrence interval.
// Monthly and yearly steps clamp to the last day of a shorter month.
func Advance(due time.Time, r Recurrence) (time.Time, error) {
	due = CalendarDate(due)
	switch r {
	case RecurrenceWeekly:
		return due.AddDate(0, 0, 7), nil
	case RecurrenceMonthly:
		return addMonthsClamped(due, 1), nil
	case RecurrenceYearly:
		return addMonthsClamped(due, 12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownRecurrence, r)
	}
}

// Settle consumes the current occurrence of item. It never mutates item and
// never touches storage; the caller records the transaction and applies the
// outcome.
func Settle(item Item, event PaymentEvent) (Settlement, error) {
	if !item.IsActive {
		return Settlement{}, fmt.Errorf("%w: %s", ErrInactiveItem, item.ID)
	}

	result := Settlement{
		Transaction: ledger.PostedTransaction{
			ScheduledItemID: item.ID,
			Kind:            string(item.Kind),
			Description:     item.Title,
			Amount:          event.Amount,
			Date:            CalendarDate(event.PaidOn),
			CategoryID:      item.Associations.CategoryID,
			CostCenterID:    item.Associations.CostCenterID,
			FundID:          item.Associations.FundID,
			AccountID:       item.Associations.AccountID,
		},
		Outcome: OutcomeTerminated,
	}

	if item.Recurrence == RecurrenceNone {
		return result, nil
	}

	next, err := Advance(item.DueDate, item.Recurrence)
	if err != nil {
		result.Diagnostic = err
		return result, nil
	}

	renewed := item
	renewed.DueDate = next
	if item.RemainingOccurrences.Valid {
		if item.RemainingOccurrences.Int32 <= 1 {
			return result, nil
		}
		renewed.RemainingOccurrences.Int32 = item.RemainingOccurrences.Int32 - 1
	}

	result.Outcome = OutcomeRenewed
	result.Next = &renewed
	return result, nil
}
