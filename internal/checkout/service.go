// Package checkout converts a non-empty cart snapshot plus a validated
// shipping form into a durable order. The whole conversion -- order header,
// line items and stock decrements -- happens in one storage transaction, so
// an order is either fully applied or not applied at all.
package checkout

import (
	"context"
	"errors"
	"log"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/events"
	"github.com/Narutostha/ww/internal/identity"
	"github.com/Narutostha/ww/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlacer is the storage contract: persist the order atomically or
// report a typed failure with nothing written.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order *domain.Order) error
}

// CartClearer empties the shopper's cart after a fully successful checkout.
type CartClearer interface {
	Clear(sessionID string)
}

type Service struct {
	repo        OrderPlacer
	carts       CartClearer
	notifier    *events.Notifier
	shippingFee decimal.Decimal
}

// NewService wires the sequencer. shippingFee is the flat surcharge added to
// every order regardless of destination or weight.
func NewService(repo OrderPlacer, carts CartClearer, notifier *events.Notifier, shippingFee decimal.Decimal) *Service {
	return &Service{
		repo:        repo,
		carts:       carts,
		notifier:    notifier,
		shippingFee: shippingFee,
	}
}

// Result reports the created order back to the caller for the receipt page.
type Result struct {
	OrderID string          `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// PlaceOrder runs the checkout sequence. On any failure the cart is left
// intact so the shopper can correct the issue and resubmit; only full
// success clears it.
func (s *Service) PlaceOrder(
	ctx context.Context,
	ident *identity.Identity,
	sessionID string,
	snapshot domain.CartSnapshot,
	form domain.ShippingForm,
	method domain.PaymentMethod,
) (*Result, error) {

	// Preconditions, checked before any durable write.
	if ident == nil {
		return nil, ErrNotAuthenticated
	}
	if snapshot.Empty() {
		return nil, ErrEmptyCart
	}
	if fields := validateShippingForm(form); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	total := snapshot.Subtotal.Add(s.shippingFee)

	order, err := domain.NewOrder(ident.ID, snapshot.Lines, total, form, method)
	if err != nil {
		return nil, err
	}

	if err := s.repo.PlaceOrder(ctx, order); err != nil {
		return nil, convertStorageError(err)
	}

	// Full success: only now does the cart get cleared.
	s.carts.Clear(sessionID)

	productIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}
	s.notifier.Notify(events.OrderEvent{
		Type:       events.OrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		ProductIDs: productIDs,
		At:         order.CreatedAt,
	})

	log.Printf("order %s placed for user %s, total %s", order.ID, order.UserID, total)
	return &Result{OrderID: order.ID.String(), Total: total}, nil
}

func convertStorageError(err error) error {
	var stockErr *repository.InsufficientStockError
	if errors.As(err, &stockErr) {
		return &InventoryError{
			ProductName: stockErr.ProductName,
			Requested:   stockErr.Requested,
			Available:   stockErr.Available,
		}
	}
	return &StorageError{Err: err}
}
