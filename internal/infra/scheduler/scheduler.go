package scheduler

import (
	"context"
	"fmt"
	"time"

	"church_finance_bot/internal/app"
	"church_finance_bot/internal/domain/schedule"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderChecker is the part of app.ReminderService the scheduler drives.
type ReminderChecker interface {
	RunCheck(ctx context.Context, today time.Time) (app.CheckResult, error)
}

type ReminderScheduler struct {
	cronEngine           *cron.Cron
	checker              ReminderChecker
	logger               *logrus.Entry
	location             *time.Location
	cronSpecReminderScan string
}

func NewReminderScheduler(
	checker ReminderChecker,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecReminderScan string, // e.g., "0 * * * *" (hourly)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:           cron.New(cron.WithLocation(location)),
		checker:              checker,
		logger:               logger,
		location:             location,
		cronSpecReminderScan: cronSpecReminderScan,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	// Runs several times a day; the reminder gate lets only one alert through.
	if _, err := s.cronEngine.AddFunc(s.cronSpecReminderScan, s.runCheck); err != nil {
		return fmt.Errorf("could not add reminder scan cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecReminderScan).Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	today := schedule.Today(s.location)
	log := s.logger.WithField("today", today.Format(schedule.DateLayout))
	res, err := s.checker.RunCheck(ctx, today)
	if err != nil {
		log.WithError(err).Error("Reminder scan failed")
		return
	}
	if res.Alert != nil && !res.Delivered {
		log.Info("Reminder alert computed but not delivered; will retry on the next run")
	}
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped")
}
