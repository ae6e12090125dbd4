// internal/domain/reminder/state.go
package reminder

import (
	"database/sql"
	"time"

	"church_finance_bot/internal/domain/schedule"
)

// State is the persisted daily gate. LastNotifiedDate is invalid until the
// first alert is delivered. Corresponds to the 'reminder_state' table.
type State struct {
	LastNotifiedDate sql.NullTime
	UpdatedAt        time.Time
}

// NotifiedOn reports whether an alert was already delivered on today.
// A stored date later than today (clock moved backwards) does not count.
func (s State) NotifiedOn(today time.Time) bool {
	if !s.LastNotifiedDate.Valid {
		return false
	}
	return schedule.CalendarDate(s.LastNotifiedDate.Time).Equal(schedule.CalendarDate(today))
}

// MarkNotified returns the state after an alert was delivered on today.
func (s State) MarkNotified(today time.Time) State {
	s.LastNotifiedDate = sql.NullTime{Time: schedule.CalendarDate(today), Valid: true}
	return s
}
