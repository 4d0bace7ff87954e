package checkout

import (
	"context"

	"github.com/Narutostha/ww/internal/domain"
)

// MockOrderPlacer implements OrderPlacer for testing
type MockOrderPlacer struct {
	Err         error
	PlacedOrder *domain.Order // Captures the order passed to PlaceOrder
	Calls       int
}

func (m *MockOrderPlacer) PlaceOrder(_ context.Context, order *domain.Order) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	m.PlacedOrder = order
	return nil
}

// MockCartClearer implements CartClearer for testing
type MockCartClearer struct {
	ClearedSessions []string
}

func (m *MockCartClearer) Clear(sessionID string) {
	m.ClearedSessions = append(m.ClearedSessions, sessionID)
}
