package app

import (
	"sync"

	"github.com/google/uuid"
)

// ItemLocks serialises writes to the same scheduled item. Payments and
// cancellations share one instance.
type ItemLocks struct {
	mu   sync.Mutex
	held map[uuid.UUID]*itemLock
}

type itemLock struct {
	sync.Mutex
	refs int
}

func NewItemLocks() *ItemLocks {
	return &ItemLocks{held: make(map[uuid.UUID]*itemLock)}
}

func (l *ItemLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	il, ok := l.held[id]
	if !ok {
		il = &itemLock{}
		l.held[id] = il
	}
	il.refs++
	l.mu.Unlock()

	il.Lock()
	return func() {
		il.Unlock()
		l.mu.Lock()
		il.refs--
		if il.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
