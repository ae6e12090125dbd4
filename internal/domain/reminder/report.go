package reminder

import (
	"fmt"
	"strings"
	"time"

	"church_finance_bot/internal/domain/schedule"
)

// ReportLine is one item in a report section.
type ReportLine struct {
	Title   string
	Amount  string
	DueDate time.Time
}

// Report is the detailed follow-up to an alert. Both sections are always
// present, overdue first, whichever bucket produced the alert.
type Report struct {
	GeneratedOn time.Time
	Overdue     []ReportLine
	Upcoming    []ReportLine
}

// BuildReport lists every overdue and upcoming expense as of today.
func BuildReport(items []*schedule.Item, today time.Time) Report {
	today = schedule.CalendarDate(today)
	overdue, upcoming := classify(items, today)
	return Report{
		GeneratedOn: today,
		Overdue:     toLines(overdue),
		Upcoming:    toLines(upcoming),
	}
}

func toLines(items []*schedule.Item) []ReportLine {
	lines := make([]ReportLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, ReportLine{
			Title:   it.Title,
			Amount:  it.Amount.StringFixed(2),
			DueDate: it.DueDate,
		})
	}
	return lines
}

// Empty reports whether neither section has any line.
func (r Report) Empty() bool {
	return len(r.Overdue) == 0 && len(r.Upcoming) == 0
}

// Body renders the report as plain text.
func (r Report) Body() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Scheduled payments report for %s\n", r.GeneratedOn.Format(schedule.DateLayout)))
	writeSection(&b, string(BucketOverdue), r.Overdue)
	writeSection(&b, string(BucketUpcoming), r.Upcoming)
	return b.String()
}

func writeSection(b *strings.Builder, name string, lines []ReportLine) {
	b.WriteString("\n" + name + "\n")
	if len(lines) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("- %s | %s | %s\n", l.Title, l.Amount, l.DueDate.Format(schedule.DateLayout)))
	}
}
