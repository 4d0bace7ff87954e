package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRate is a back-office managed delivery zone entry. Checkout itself
// charges a flat configured surcharge; these records drive the public
// shipping-prices page and are edited by staff.
type ShippingRate struct {
	ID                    uuid.UUID       `json:"id"`
	Region                string          `json:"region"`
	DeliveryTime          string          `json:"delivery_time"`
	Cost                  decimal.Decimal `json:"cost"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
