package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo enforces the back-office status machine:
// PENDING -> PROCESSING -> SHIPPED -> DELIVERED, with CANCELLED
// reachable only from PENDING.
func CanTransitionTo(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusShipped
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

type PaymentMethod string

const (
	// PaymentMethodFonepay is pay-by-QR with manual verification afterwards.
	// No in-system settlement happens for either method.
	PaymentMethodFonepay PaymentMethod = "fonepay"
	PaymentMethodCOD     PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodFonepay || m == PaymentMethodCOD
}

// ShippingForm is the address snapshot captured at checkout. It is stored
// verbatim on the order so later edits to anything else never touch it.
type ShippingForm struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem is one persisted line of a placed order. It carries its own
// snapshot of size, color, quantity and unit price so later product edits
// or deletions do not corrupt historical orders. Immutable after creation.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Color     string          `json:"selected_color"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	ShippingInfo  ShippingForm    `json:"shipping_info"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Items         []OrderItem     `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

var (
	ErrNoOrderItems      = errors.New("order must contain at least one item")
	ErrBadPaymentMethod  = errors.New("unknown payment method")
	ErrNonPositiveAmount = errors.New("order item quantity must be positive")
)

// NewOrder builds a PENDING order from a cart snapshot. Line items reference
// the new order ID and keep the prices snapshotted at add-to-cart time.
func NewOrder(userID uuid.UUID, lines []CartLine, total decimal.Decimal, shipping ShippingForm, method PaymentMethod) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoOrderItems
	}
	if !method.Valid() {
		return nil, ErrBadPaymentMethod
	}

	orderID := uuid.New()
	items := make([]OrderItem, len(lines))
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, ErrNonPositiveAmount
		}
		items[i] = OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
	}

	now := time.Now()
	return &Order{
		ID:            orderID,
		UserID:        userID,
		Status:        OrderStatusPending,
		Total:         total,
		ShippingInfo:  shipping,
		PaymentMethod: method,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
