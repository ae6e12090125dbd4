package app

import (
	"context"
	"errors"
	"sync"

	"church_finance_bot/internal/domain/ledger"
	"church_finance_bot/internal/domain/reminder"
	"church_finance_bot/internal/domain/schedule"
	idb "church_finance_bot/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/telebot.v3"
)

func newTestLogger() (*logrus.Entry, *test.Hook) {
	l, hook := test.NewNullLogger()
	return logrus.NewEntry(l), hook
}

type fakeScheduleRepo struct {
	mu         sync.Mutex
	items      map[uuid.UUID]schedule.Item
	renewed    int
	terminated int
	failUpdate error
}

func newFakeScheduleRepo(items ...schedule.Item) *fakeScheduleRepo {
	r := &fakeScheduleRepo{items: make(map[uuid.UUID]schedule.Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeScheduleRepo) Create(_ context.Context, it *schedule.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = *it
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*schedule.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, idb.ErrScheduledItemNotFound
	}
	return &it, nil
}

func (r *fakeScheduleRepo) list(keep func(schedule.Item) bool) []*schedule.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*schedule.Item, 0)
	for _, it := range r.items {
		if keep(it) {
			it := it
			out = append(out, &it)
		}
	}
	return out
}

func (r *fakeScheduleRepo) ListActive(context.Context) ([]*schedule.Item, error) {
	return r.list(func(it schedule.Item) bool { return it.IsActive }), nil
}

func (r *fakeScheduleRepo) ListActiveByKind(_ context.Context, kinds ...schedule.Kind) ([]*schedule.Item, error) {
	return r.list(func(it schedule.Item) bool {
		for _, k := range kinds {
			if it.IsActive && it.Kind == k {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeScheduleRepo) ListAll(context.Context) ([]*schedule.Item, error) {
	return r.list(func(schedule.Item) bool { return true }), nil
}

func (r *fakeScheduleRepo) Terminate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	cur, ok := r.items[id]
	if !ok || !cur.IsActive {
		return idb.ErrScheduledItemNotFound
	}
	cur.IsActive = false
	r.items[id] = cur
	r.terminated++
	return nil
}

type fakeLedger struct {
	mu  sync.Mutex
	txs []ledger.PostedTransaction
}

func (l *fakeLedger) add(tx *ledger.PostedTransaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx.ID = uuid.New()
	l.txs = append(l.txs, *tx)
}

func (l *fakeLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txs)
}

func (l *fakeLedger) ListByScheduledItem(_ context.Context, id uuid.UUID) ([]*ledger.PostedTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*ledger.PostedTransaction, 0)
	for _, tx := range l.txs {
		if tx.ScheduledItemID == id {
			tx := tx
			out = append(out, &tx)
		}
	}
	return out, nil
}

// fakeSettlementStore applies a settlement to the fake schedule and ledger
// under the schedule lock, so both change or neither does.
type fakeSettlementStore struct {
	items  *fakeScheduleRepo
	ledger *fakeLedger
	// beforeApply runs before the store checks the item, simulating a
	// concurrent writer.
	beforeApply func()
}

func (s *fakeSettlementStore) ApplySettlement(_ context.Context, current *schedule.Item, st *schedule.Settlement) error {
	if s.beforeApply != nil {
		s.beforeApply()
	}
	r := s.items
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	cur, ok := r.items[current.ID]
	if !ok || !cur.IsActive || !cur.DueDate.Equal(current.DueDate) {
		return idb.ErrScheduledItemChanged
	}
	switch st.Outcome {
	case schedule.OutcomeRenewed:
		cur.DueDate = st.Next.DueDate
		cur.RemainingOccurrences = st.Next.RemainingOccurrences
		r.renewed++
	default:
		cur.IsActive = false
		r.terminated++
	}
	r.items[cur.ID] = cur
	s.ledger.add(&st.Transaction)
	return nil
}

type fakeStateRepo struct {
	state reminder.State
	saves int
}

func (r *fakeStateRepo) Get(context.Context) (reminder.State, error) { return r.state, nil }

func (r *fakeStateRepo) Save(_ context.Context, st reminder.State) error {
	r.state = st
	r.saves++
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegram struct {
	sent []sentMessage
	err  error
}

func (f *fakeTelegram) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

var errChannelDown = errors.New("telegram unavailable")
