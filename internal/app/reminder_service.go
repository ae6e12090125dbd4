// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"church_finance_bot/internal/domain/reminder"
	"church_finance_bot/internal/domain/schedule"
	domainTelegram "church_finance_bot/internal/domain/telegram"
	"church_finance_bot/internal/infra/observability"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// ReportCallbackUnique identifies the "Show report" button attached to alerts.
const ReportCallbackUnique = "reminder_report"

// CheckResult is the outcome of one reminder check.
type CheckResult struct {
	Alert     *reminder.Alert // nil when gated or nothing is due
	Delivered bool
}

// ReminderService is the read path: it runs the daily-gated reminder scan and
// sends the follow-up report when an alert is acknowledged.
type ReminderService struct {
	scheduleRepo   schedule.Repository
	stateRepo      reminder.StateRepository
	telegramClient domainTelegram.Client
	notifyChatID   int64 // 0 means no notification channel
	reportChatID   int64
	metrics        *observability.Metrics
	logger         *logrus.Entry

	// mu makes read-scan-deliver-commit of the gate one unit.
	mu sync.Mutex
}

func NewReminderService(
	sr schedule.Repository,
	stateRepo reminder.StateRepository,
	tc domainTelegram.Client,
	notifyChatID int64,
	reportChatID int64,
	metrics *observability.Metrics,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		scheduleRepo:   sr,
		stateRepo:      stateRepo,
		telegramClient: tc,
		notifyChatID:   notifyChatID,
		reportChatID:   reportChatID,
		metrics:        metrics,
		logger:         logger,
	}
}

// RunCheck scans the active expenses for today and delivers at most one alert
// per calendar day. The gate is committed only after a successful delivery;
// a missing channel or a failed send leaves the day open for a later check.
func (s *ReminderService) RunCheck(ctx context.Context, today time.Time) (CheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today = schedule.CalendarDate(today)
	log := s.logger.WithField("today", today.Format(schedule.DateLayout))

	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return CheckResult{}, fmt.Errorf("failed to load reminder state: %w", err)
	}
	if state.NotifiedOn(today) {
		log.Debug("Reminder already delivered today, skipping scan")
		s.metrics.ObserveScan(observability.ScanGated)
		return CheckResult{}, nil
	}

	items, err := s.scheduleRepo.ListActiveByKind(ctx, schedule.KindExpense)
	if err != nil {
		return CheckResult{}, fmt.Errorf("failed to list active expenses: %w", err)
	}

	alert, next := reminder.Scan(items, today, state)
	if alert == nil {
		log.WithField("items", len(items)).Debug("Nothing overdue or due soon")
		s.metrics.ObserveScan(observability.ScanNothingDue)
		return CheckResult{}, nil
	}
	log = log.WithFields(logrus.Fields{"bucket": alert.Bucket, "alert_items": len(alert.Items)})

	if s.telegramClient == nil || s.notifyChatID == 0 {
		log.Debug("No notification channel configured, alert not delivered")
		s.metrics.ObserveScan(observability.ScanUndelivered)
		return CheckResult{Alert: alert}, nil
	}

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Show report", ReportCallbackUnique)))
	if err := s.telegramClient.SendMessage(s.notifyChatID, alert.Text(), &telebot.SendOptions{ReplyMarkup: markup}); err != nil {
		log.WithError(err).Error("Failed to deliver reminder alert")
		s.metrics.ObserveDeliveryFailure("notification")
		s.metrics.ObserveScan(observability.ScanUndelivered)
		return CheckResult{Alert: alert}, nil
	}

	s.metrics.ObserveScan(observability.ScanDelivered)
	s.metrics.ObserveAlert(string(alert.Bucket))
	if err := s.stateRepo.Save(ctx, next); err != nil {
		return CheckResult{Alert: alert, Delivered: true}, fmt.Errorf("alert delivered but reminder state not saved: %w", err)
	}
	log.Info("Reminder alert delivered")
	return CheckResult{Alert: alert, Delivered: true}, nil
}

// SendReport delivers the overdue/upcoming report to the report chat. It is
// meant to run only when a user acknowledges an alert.
func (s *ReminderService) SendReport(ctx context.Context, today time.Time) (reminder.Report, error) {
	items, err := s.scheduleRepo.ListActiveByKind(ctx, schedule.KindExpense)
	if err != nil {
		return reminder.Report{}, fmt.Errorf("failed to list active expenses: %w", err)
	}
	report := reminder.BuildReport(items, today)

	if s.telegramClient == nil || s.reportChatID == 0 {
		return report, fmt.Errorf("no report destination configured")
	}
	if err := s.telegramClient.SendMessage(s.reportChatID, report.Body(), nil); err != nil {
		s.metrics.ObserveDeliveryFailure("report")
		return report, fmt.Errorf("failed to deliver report: %w", err)
	}
	s.metrics.ObserveReport()
	s.logger.WithFields(logrus.Fields{
		"overdue":  len(report.Overdue),
		"upcoming": len(report.Upcoming),
	}).Info("Reminder report delivered")
	return report, nil
}
