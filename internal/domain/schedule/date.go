package schedule

import "time"

// DateLayout is the wire and display format of calendar dates.
const DateLayout = "2006-01-02"

// CalendarDate drops the time of day from t, keeping the year, month and day
// as seen in t's location, and returns that date at UTC midnight.
// Every date the engines compare goes through this normalisation.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a normalised calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalised calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(t), nil
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDate(to).Sub(CalendarDate(from)).Hours() / 24)
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped moves d forward by n months, keeping the day of month when
// it exists and falling back to the last day of the target month otherwise.
func addMonthsClamped(d time.Time, n int) time.Time {
	y, m, day := d.Date()
	total := int(m) - 1 + n
	ty := y + total/12
	tm := time.Month(total%12 + 1)
	if last := daysIn(ty, tm); day > last {
		day = last
	}
	return Date(ty, tm, day)
}

// Today returns the current calendar date as observed in loc.
func Today(loc *time.Location) time.Time {
	return CalendarDate(time.Now().In(loc))
}
