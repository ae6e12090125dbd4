package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"church_finance_bot/internal/app"
	"church_finance_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type recordingChecker struct {
	days []time.Time
	err  error
}

func (c *recordingChecker) RunCheck(_ context.Context, today time.Time) (app.CheckResult, error) {
	c.days = append(c.days, today)
	return app.CheckResult{}, c.err
}

func TestRunCheckPassesTodayAsCalendarDate(t *testing.T) {
	l, _ := test.NewNullLogger()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	checker := &recordingChecker{}
	s := NewReminderScheduler(checker, logrus.NewEntry(l), loc, "0 * * * *")

	s.runCheck()

	if len(checker.days) != 1 {
		t.Fatalf("expected one check, got %d", len(checker.days))
	}
	if want := schedule.Today(loc); !checker.days[0].Equal(want) {
		t.Fatalf("expected %s, got %s", want, checker.days[0])
	}
}

func TestRunCheckLogsErrors(t *testing.T) {
	l, hook := test.NewNullLogger()
	s := NewReminderScheduler(&recordingChecker{err: errors.New("db down")}, logrus.NewEntry(l), time.UTC, "0 * * * *")

	s.runCheck()

	if e := hook.LastEntry(); e == nil || e.Level != logrus.ErrorLevel {
		t.Fatalf("expected an error log, got %+v", e)
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	l, _ := test.NewNullLogger()
	s := NewReminderScheduler(&recordingChecker{}, logrus.NewEntry(l), time.UTC, "not a cron spec")
	if err := s.Start(); err == nil {
		t.Fatal("expected invalid cron spec to fail")
	}
}
