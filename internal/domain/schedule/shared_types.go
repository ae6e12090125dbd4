// internal/domain/schedule/shared_types.go
package schedule

import "strings"

// Kind tells whether a scheduled item is money coming in or going out.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// Recurrence is the interval between two occurrences of a scheduled item.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "NONE"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
	RecurrenceYearly  Recurrence = "YEARLY"
)

// ParseRecurrence accepts the lower or upper case name of a recurrence.
func ParseRecurrence(s string) (Recurrence, bool) {
	r := Recurrence(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RecurrenceNone, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return r, true
	}
	return "", false
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}
