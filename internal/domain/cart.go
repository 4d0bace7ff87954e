package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one distinct product+size+color selection inside a shopper's
// in-progress cart. Name, unit price and image are denormalized snapshots
// taken at add-time and never re-fetched from the catalog.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	Size      string          `json:"size"`
	Color     string          `json:"selected_color"`
}

// LineID serializes the composite identity (productID, size, color) as a
// single opaque identifier. Two adds of the same combination merge into one
// line; a different size or color is a separate line.
func (l CartLine) LineID() string {
	return fmt.Sprintf("%s|%s|%s", l.ProductID, l.Size, l.Color)
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is the full cart state at an instant: lines in insertion
// order plus the subtotal. The subtotal is always recomputed from the lines,
// never stored independently, so it cannot drift.
type CartSnapshot struct {
	Lines    []CartLine      `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}
