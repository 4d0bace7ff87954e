// Package orders is the back-office side of order management: listing,
// lookup and the status lifecycle driven by staff.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/events"
	"github.com/google/uuid"
)

var ErrIllegalTransition = errors.New("illegal order status transition")

type OrderRepository interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

type Service struct {
	repo     OrderRepository
	notifier *events.Notifier
}

func NewService(repo OrderRepository, notifier *events.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *Service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

func (s *Service) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAllOrders(ctx)
}

// UpdateStatus moves an order through its lifecycle. Illegal jumps (for
// example SHIPPED back to PENDING, or cancelling a shipped order) are
// rejected before anything is written.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransitionTo(order.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, next)
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, next); err != nil {
		return nil, err
	}
	order.Status = next

	s.notifier.Notify(events.OrderEvent{
		Type:    events.OrderStatusChanged,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  next,
	})

	log.Printf("order %s status changed to %s", id, next)
	return order, nil
}
