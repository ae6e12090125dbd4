// internal/domain/reminder/engine.go
package reminder

import (
	"fmt"
	"sort"
	"time"

	"church_finance_bot/internal/domain/schedule"
)

// UpcomingWindowDays is how many days ahead an unpaid bill counts as upcoming.
const UpcomingWindowDays = 3

// Bucket identifies which group of items an alert was built from.
type Bucket string

const (
	BucketOverdue  Bucket = "OVERDUE"
	BucketUpcoming Bucket = "UPCOMING"
)

// Alert is the single notification emitted for a day.
type Alert struct {
	Bucket Bucket
	Title  string
	Body   string
	Items  []*schedule.Item
}

// Scan classifies the active expense items against today and builds at most
// one alert. The returned State is the one to persist once the alert has
// actually been delivered; when Scan returns nil the state is unchanged.
func Scan(items []*schedule.Item, today time.Time, state State) (*Alert, State) {
	today = schedule.CalendarDate(today)
	if state.NotifiedOn(today) {
		return nil, state
	}

	overdue, upcoming := classify(items, today)

	var alert *Alert
	switch {
	case len(overdue) > 0:
		alert = buildAlert(BucketOverdue, overdue)
	case len(upcoming) > 0:
		alert = buildAlert(BucketUpcoming, upcoming)
	default:
		return nil, state
	}
	return alert, state.MarkNotified(today)
}

// classify splits the reminder-eligible items into overdue and upcoming,
// each sorted by due date then title. Income items never trigger reminders.
func classify(items []*schedule.Item, today time.Time) (overdue, upcoming []*schedule.Item) {
	for _, it := range items {
		if it == nil || !it.IsActive || it.Kind != schedule.KindExpense {
			continue
		}
		diff := schedule.DaysBetween(today, it.DueDate)
		switch {
		case diff < 0:
			overdue = append(overdue, it)
		case diff <= UpcomingWindowDays:
			upcoming = append(upcoming, it)
		}
	}
	sortByDue(overdue)
	sortByDue(upcoming)
	return overdue, upcoming
}

func sortByDue(items []*schedule.Item) {
	sort.SliceStable(items, func(a, b int) bool {
		if !items[a].DueDate.Equal(items[b].DueDate) {
			return items[a].DueDate.Before(items[b].DueDate)
		}
		return items[a].Title < items[b].Title
	})
}

func buildAlert(bucket Bucket, items []*schedule.Item) *Alert {
	a := &Alert{Bucket: bucket, Items: items}
	single := len(items) == 1
	switch {
	case bucket == BucketOverdue && single:
		a.Title = "Bill overdue"
		a.Body = fmt.Sprintf("%q was due on %s.", items[0].Title, items[0].DueDate.Format(schedule.DateLayout))
	case bucket == BucketOverdue:
		a.Title = "Bills overdue"
		a.Body = fmt.Sprintf("You have %d overdue bills.", len(items))
	case single:
		a.Title = "Bill due soon"
		a.Body = fmt.Sprintf("%q is due on %s.", items[0].Title, items[0].DueDate.Format(schedule.DateLayout))
	default:
		a.Title = "Bills due soon"
		a.Body = fmt.Sprintf("You have %d bills due in the next %d days.", len(items), UpcomingWindowDays)
	}
	return a
}

// Text renders the alert as a single chat message.
func (a *Alert) Text() string {
	return a.Title + "\n" + a.Body
}
