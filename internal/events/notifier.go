// Package events carries explicit in-process state-change notifications
// from the order lifecycle to interested components, currently catalog
// cache invalidation and logging. It replaces blanket query-cache
// invalidation as the way to tell the rest of the system that something
// changed.
package events

import (
	"sync"
	"time"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/google/uuid"
)

type EventType string

const (
	OrderPlaced        EventType = "ORDER_PLACED"
	OrderStatusChanged EventType = "ORDER_STATUS_CHANGED"
)

type OrderEvent struct {
	Type    EventType
	OrderID uuid.UUID
	UserID  uuid.UUID
	Status  domain.OrderStatus
	// ProductIDs lists the products whose stock the order changed, so
	// subscribers can invalidate per product.
	ProductIDs []uuid.UUID
	At         time.Time
}

// Notifier fans OrderEvents out to registered subscribers. Callbacks run
// synchronously on the notifying goroutine, so subscribers must not block.
type Notifier struct {
	mu   sync.RWMutex
	subs map[int]func(OrderEvent)
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(OrderEvent))}
}

// Subscribe registers a callback and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(OrderEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *Notifier) Notify(ev OrderEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.subs {
		fn(ev)
	}
}
