package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_BuildsPendingOrderWithSnapshots(t *testing.T) {
	userID := uuid.New()
	lines := []CartLine{
		{ProductID: uuid.New(), Name: "Oversized Tee", UnitPrice: decimal.NewFromInt(1500), Quantity: 2, Size: "M", Color: "black"},
		{ProductID: uuid.New(), Name: "Zip Hoodie", UnitPrice: decimal.NewFromInt(3000), Quantity: 1, Size: "L", Color: "white"},
	}

	order, err := NewOrder(userID, lines, decimal.NewFromInt(6100), ShippingForm{City: "Kathmandu"}, PaymentMethodFonepay)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, userID, order.UserID)
	require.Len(t, order.Items, 2)
	for i, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, lines[i].Size, item.Size)
		assert.Equal(t, lines[i].Color, item.Color)
		assert.Equal(t, lines[i].Quantity, item.Quantity)
		assert.True(t, item.Price.Equal(lines[i].UnitPrice))
	}
}

func TestNewOrder_RejectsEmptyLines(t *testing.T) {
	_, err := NewOrder(uuid.New(), nil, decimal.Zero, ShippingForm{}, PaymentMethodCOD)
	assert.ErrorIs(t, err, ErrNoOrderItems)
}

func TestNewOrder_RejectsUnknownPaymentMethod(t *testing.T) {
	lines := []CartLine{{ProductID: uuid.New(), UnitPrice: decimal.NewFromInt(100), Quantity: 1}}
	_, err := NewOrder(uuid.New(), lines, decimal.NewFromInt(200), ShippingForm{}, "paypal")
	assert.ErrorIs(t, err, ErrBadPaymentMethod)
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, CanTransitionTo(OrderStatusPending, OrderStatusProcessing))
	assert.True(t, CanTransitionTo(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransitionTo(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransitionTo(OrderStatusShipped, OrderStatusDelivered))

	assert.False(t, CanTransitionTo(OrderStatusProcessing, OrderStatusCancelled))
	assert.False(t, CanTransitionTo(OrderStatusPending, OrderStatusShipped))
	assert.False(t, CanTransitionTo(OrderStatusDelivered, OrderStatusShipped))
	assert.False(t, CanTransitionTo(OrderStatusCancelled, OrderStatusPending))
}

func TestCartLine_LineID(t *testing.T) {
	productID := uuid.New()
	a := CartLine{ProductID: productID, Size: "M", Color: "black"}
	b := CartLine{ProductID: productID, Size: "M", Color: "black"}
	c := CartLine{ProductID: productID, Size: "L", Color: "black"}

	assert.Equal(t, a.LineID(), b.LineID())
	assert.NotEqual(t, a.LineID(), c.LineID())
}

func TestProduct_HasSize(t *testing.T) {
	sized := &Product{Sizes: []string{"S", "M"}}
	assert.True(t, sized.HasSize("M"))
	assert.False(t, sized.HasSize("XL"))
	assert.False(t, sized.HasSize(""))

	unsized := &Product{}
	assert.True(t, unsized.HasSize(""))
	assert.False(t, unsized.HasSize("M"))
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct("  ", decimal.NewFromInt(100), 1)
	assert.ErrorIs(t, err, ErrProductNameRequired)

	_, err = NewProduct("Tee", decimal.NewFromInt(-1), 1)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewProduct("Tee", decimal.NewFromInt(100), -1)
	assert.ErrorIs(t, err, ErrNegativeStock)
}
