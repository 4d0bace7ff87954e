package checkout

import (
	"errors"
	"fmt"
)

// Precondition failures, checked before any durable write.
var (
	ErrNotAuthenticated = errors.New("sign in to place an order")
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
)

// FieldError is a single shipping-form validation failure, surfaced inline
// next to its field rather than as an aggregate message.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError collects the per-field failures of one submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("shipping form has %d invalid field(s)", len(e.Fields))
}

// InventoryError means a specific product's stock was insufficient at
// checkout time. The whole order was rejected and nothing was written.
type InventoryError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("not enough stock for %s (only %d available)", e.ProductName, e.Available)
}

// StorageError wraps an infrastructure failure from the storage layer.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error processing order: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
