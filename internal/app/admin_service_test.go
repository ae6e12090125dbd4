package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"church_finance_bot/internal/domain/schedule"
	idb "church_finance_bot/internal/infra/database"
	"church_finance_bot/internal/infra/observability"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const adminID = int64(7)

func newAdminService(repo *fakeScheduleRepo) *AdminService {
	logger, _ := newTestLogger()
	return NewAdminService(repo, &fakeLedger{}, NewItemLocks(), adminID, logger)
}

func TestAddScheduledItem(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := newAdminService(repo)

	item, err := svc.AddScheduledItem(context.Background(), adminID, NewItemInput{
		Kind:        schedule.KindExpense,
		Title:       "Youth camp deposit",
		Amount:      decimal.RequireFromString("250"),
		DueDate:     time.Date(2024, time.May, 2, 15, 0, 0, 0, time.UTC),
		Recurrence:  schedule.RecurrenceMonthly,
		Occurrences: 3,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !item.IsActive || item.RemainingOccurrences.Int32 != 3 || !item.RemainingOccurrences.Valid {
		t.Fatalf("unexpected item %+v", item)
	}
	if !item.DueDate.Equal(schedule.Date(2024, time.May, 2)) {
		t.Fatalf("due date not normalised: %s", item.DueDate)
	}
	if _, err := repo.GetByID(context.Background(), item.ID); err != nil {
		t.Fatalf("item not stored: %v", err)
	}
}

func TestAddScheduledItemRejections(t *testing.T) {
	svc := newAdminService(newFakeScheduleRepo())
	valid := NewItemInput{
		Kind:       schedule.KindIncome,
		Title:      "Rental of hall",
		Amount:     decimal.RequireFromString("90"),
		DueDate:    schedule.Date(2024, time.May, 2),
		Recurrence: schedule.RecurrenceWeekly,
	}

	if _, err := svc.AddScheduledItem(context.Background(), 999, valid); !errors.Is(err, ErrAdminNotAuthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	single := valid
	single.Occurrences = 1
	if _, err := svc.AddScheduledItem(context.Background(), adminID, single); !errors.Is(err, schedule.ErrInvalidItem) {
		t.Errorf("expected single occurrence to be rejected, got %v", err)
	}

	oneOff := valid
	oneOff.Recurrence = schedule.RecurrenceNone
	oneOff.Occurrences = 4
	if _, err := svc.AddScheduledItem(context.Background(), adminID, oneOff); !errors.Is(err, schedule.ErrInvalidItem) {
		t.Errorf("expected one-off with count to be rejected, got %v", err)
	}
}

func TestCancelScheduledItem(t *testing.T) {
	it := bill("Copier lease", 5, schedule.KindExpense)
	repo := newFakeScheduleRepo(it)
	svc := newAdminService(repo)
	ctx := context.Background()

	cancelled, err := svc.CancelScheduledItem(ctx, adminID, it.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.IsActive {
		t.Fatal("expected cancelled item to be inactive")
	}
	if _, err := svc.CancelScheduledItem(ctx, adminID, it.ID); !errors.Is(err, ErrItemAlreadyInactive) {
		t.Fatalf("expected already inactive, got %v", err)
	}

	active, err := svc.ListActiveItems(ctx, adminID)
	if err != nil || len(active) != 0 {
		t.Fatalf("expected no active items, got %d (%v)", len(active), err)
	}
	all, err := svc.ListAllItems(ctx, adminID)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected 1 item overall, got %d (%v)", len(all), err)
	}
}

func TestCancelWaitsForPaymentInFlight(t *testing.T) {
	it := bill("Copier lease", 5, schedule.KindExpense)
	repo := newFakeScheduleRepo(it)
	locks := NewItemLocks()
	logger, _ := newTestLogger()
	svc := NewAdminService(repo, &fakeLedger{}, locks, adminID, logger)

	unlock := locks.lock(it.ID)
	done := make(chan error, 1)
	go func() {
		_, err := svc.CancelScheduledItem(context.Background(), adminID, it.ID)
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("cancel finished while the item was locked: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	if stored, _ := repo.GetByID(context.Background(), it.ID); !stored.IsActive {
		t.Fatal("item cancelled while the item was locked")
	}

	unlock()
	if err := <-done; err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func TestItemHistory(t *testing.T) {
	item := monthlyRent()
	repo := newFakeScheduleRepo(item)
	l := &fakeLedger{}
	locks := NewItemLocks()
	logger, _ := newTestLogger()
	admin := NewAdminService(repo, l, locks, adminID, logger)
	pay := NewPaymentService(repo, &fakeSettlementStore{items: repo, ledger: l}, locks, observability.NewMetrics(), logger, time.UTC)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := pay.MarkPaid(ctx, item.ID, decimal.Zero, time.Time{}); err != nil {
			t.Fatalf("mark paid: %v", err)
		}
	}

	got, txs, err := admin.ItemHistory(ctx, adminID, item.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if got.ID != item.ID || len(txs) != 2 {
		t.Fatalf("expected 2 transactions for %s, got %d", item.ID, len(txs))
	}
	if _, _, err := admin.ItemHistory(ctx, 999, item.ID); !errors.Is(err, ErrAdminNotAuthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	if _, _, err := admin.ItemHistory(ctx, adminID, uuid.New()); !errors.Is(err, idb.ErrScheduledItemNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
