package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"church_finance_bot/internal/domain/ledger"
	"church_finance_bot/internal/domain/schedule"
	idb "church_finance_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = errors.New("performing user is not authorized as an admin")
var ErrItemAlreadyInactive = errors.New("scheduled item is already inactive")

// NewItemInput is what the treasurer provides to schedule a bill or income.
type NewItemInput struct {
	Kind       schedule.Kind
	Title      string
	Amount     decimal.Decimal
	DueDate    time.Time
	Recurrence schedule.Recurrence
	// Occurrences is 0 for an indefinite schedule.
	Occurrences  int32
	Associations schedule.Associations
}

type AdminService struct {
	scheduleRepo    schedule.Repository
	ledgerRepo      ledger.Repository
	locks           *ItemLocks
	adminTelegramID int64
	logger          *logrus.Entry
}

func NewAdminService(sr schedule.Repository, lr ledger.Repository, locks *ItemLocks, adminID int64, logger *logrus.Entry) *AdminService {
	return &AdminService{
		scheduleRepo:    sr,
		ledgerRepo:      lr,
		locks:           locks,
		adminTelegramID: adminID,
		logger:          logger,
	}
}

// AddScheduledItem validates and stores a new active scheduled item.
func (s *AdminService) AddScheduledItem(ctx context.Context, performingAdminID int64, in NewItemInput) (*schedule.Item, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	item := &schedule.Item{
		ID:           uuid.New(),
		Kind:         in.Kind,
		Title:        in.Title,
		Amount:       in.Amount,
		DueDate:      schedule.CalendarDate(in.DueDate),
		Recurrence:   in.Recurrence,
		IsActive:     true,
		Associations: in.Associations,
	}
	if in.Occurrences != 0 {
		item.RemainingOccurrences = sql.NullInt32{Int32: in.Occurrences, Valid: true}
	}
	if err := item.ValidateNew(); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create scheduled item in repository: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"item_id":    item.ID,
		"kind":       item.Kind,
		"recurrence": item.Recurrence,
		"due_date":   item.DueDate.Format(schedule.DateLayout),
	}).Info("Scheduled item created")
	return item, nil
}

// CancelScheduledItem terminates an item on the user's request. It waits for
// any payment of the same item in flight.
func (s *AdminService) CancelScheduledItem(ctx context.Context, performingAdminID int64, id uuid.UUID) (*schedule.Item, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	unlock := s.locks.lock(id)
	defer unlock()

	item, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, idb.ErrScheduledItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get scheduled item for cancellation: %w", err)
	}
	if !item.IsActive {
		return item, ErrItemAlreadyInactive
	}

	if err := s.scheduleRepo.Terminate(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to terminate scheduled item: %w", err)
	}
	item.IsActive = false
	s.logger.WithField("item_id", id).Info("Scheduled item cancelled")
	return item, nil
}

func (s *AdminService) ListActiveItems(ctx context.Context, performingAdminID int64) ([]*schedule.Item, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	return s.scheduleRepo.ListActive(ctx)
}

func (s *AdminService) ListAllItems(ctx context.Context, performingAdminID int64) ([]*schedule.Item, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	return s.scheduleRepo.ListAll(ctx)
}

// ItemHistory lists the transactions posted for an item, oldest first.
func (s *AdminService) ItemHistory(ctx context.Context, performingAdminID int64, id uuid.UUID) (*schedule.Item, []*ledger.PostedTransaction, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, nil, ErrAdminNotAuthorized
	}
	item, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, idb.ErrScheduledItemNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get scheduled item for history: %w", err)
	}
	txs, err := s.ledgerRepo.ListByScheduledItem(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list posted transactions: %w", err)
	}
	return item, txs, nil
}
