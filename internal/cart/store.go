// Package cart holds the in-memory per-session cart store. Carts live only
// for the browsing session; there is no durable persistence behind them and
// losing the process loses the carts. Stock is not checked here at all --
// adding is always accepted and validation happens at checkout.
package cart

import (
	"sync"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/shopspring/decimal"
)

// Store keeps one line-item sequence per session. Every operation is a total
// function over the snapshot: there are no error conditions.
type Store struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine // sessionID -> lines in insertion order
}

func NewStore() *Store {
	return &Store{
		carts: make(map[string][]domain.CartLine),
	}
}

// AddItem merges the line into the session's cart. If a line with the same
// composite identity (product, size, color) exists its quantity is bumped by
// the incoming quantity; otherwise the line is appended. A non-positive
// incoming quantity counts as 1.
func (s *Store) AddItem(sessionID string, line domain.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].LineID() == line.LineID() {
			lines[i].Quantity += line.Quantity
			return
		}
	}
	s.carts[sessionID] = append(lines, line)
}

// ReduceQuantity decrements the matching line by one, removing it entirely
// when the quantity reaches zero. An absent line is a no-op.
func (s *Store) ReduceQuantity(sessionID, lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].LineID() != lineID {
			continue
		}
		lines[i].Quantity--
		if lines[i].Quantity < 1 {
			s.carts[sessionID] = append(lines[:i], lines[i+1:]...)
		}
		return
	}
}

// RemoveItem drops the matching line regardless of quantity. An absent line
// is a no-op.
func (s *Store) RemoveItem(sessionID, lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	for i := range lines {
		if lines[i].LineID() == lineID {
			s.carts[sessionID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Clear resets the session to an empty cart. Used after a fully successful
// checkout.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Snapshot returns a copy of the session's lines with the subtotal
// recomputed from them.
func (s *Store) Snapshot(sessionID string) domain.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[sessionID]
	snapshot := domain.CartSnapshot{
		Lines:    make([]domain.CartLine, len(lines)),
		Subtotal: decimal.Zero,
	}
	copy(snapshot.Lines, lines)
	for _, line := range snapshot.Lines {
		snapshot.Subtotal = snapshot.Subtotal.Add(line.Subtotal())
	}
	return snapshot
}
