package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"church_finance_bot/internal/domain/schedule"
	idb "church_finance_bot/internal/infra/database"
	"church_finance_bot/internal/infra/observability"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrInvalidPayment = errors.New("invalid payment")

// PaymentService is the write path: it settles one occurrence of a scheduled
// item, posts the transaction and renews or terminates the schedule.
type PaymentService struct {
	scheduleRepo schedule.Repository
	settlements  schedule.SettlementStore
	locks        *ItemLocks
	metrics      *observability.Metrics
	logger       *logrus.Entry
	location     *time.Location
}

func NewPaymentService(
	sr schedule.Repository,
	store schedule.SettlementStore,
	locks *ItemLocks,
	metrics *observability.Metrics,
	logger *logrus.Entry,
	location *time.Location,
) *PaymentService {
	return &PaymentService{
		scheduleRepo: sr,
		settlements:  store,
		locks:        locks,
		metrics:      metrics,
		logger:       logger,
		location:     location,
	}
}

// MarkPaid settles the current occurrence of the item. A zero amount means
// the forecast amount was paid; a zero paidOn means it was paid today.
// Paying an inactive item returns schedule.ErrInactiveItem. The transaction
// and the schedule change are stored atomically.
func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidOn time.Time) (*schedule.Settlement, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	log := s.logger.WithField("item_id", id)

	item, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, idb.ErrScheduledItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load scheduled item: %w", err)
	}

	if amount.IsZero() {
		amount = item.Amount
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: paid amount must be greater than zero", ErrInvalidPayment)
	}
	if paidOn.IsZero() {
		paidOn = schedule.Today(s.location)
	}

	result, err := schedule.Settle(*item, schedule.PaymentEvent{Amount: amount, PaidOn: paidOn})
	if err != nil {
		log.WithError(err).Error("Refusing to settle scheduled item")
		return nil, err
	}
	if result.Diagnostic != nil {
		log.WithError(result.Diagnostic).WithField("recurrence", item.Recurrence).
			Warn("Data integrity: unrecognised recurrence, terminating schedule")
	}

	if err := s.settlements.ApplySettlement(ctx, item, &result); err != nil {
		if errors.Is(err, idb.ErrScheduledItemChanged) {
			log.WithError(err).Warn("Scheduled item changed during settlement, nothing posted")
			return nil, err
		}
		return nil, fmt.Errorf("failed to apply %s outcome: %w", result.Outcome, err)
	}

	s.metrics.ObserveSettlement(string(result.Outcome))
	fields := logrus.Fields{
		"outcome":        result.Outcome,
		"transaction_id": result.Transaction.ID,
		"amount":         result.Transaction.Amount.String(),
	}
	if result.Next != nil {
		fields["next_due_date"] = result.Next.DueDate.Format(schedule.DateLayout)
	}
	log.WithFields(fields).Info("Scheduled item settled")
	return &result, nil
}
