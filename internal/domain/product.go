package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNameRequired = errors.New("product name is required")
	ErrNegativePrice       = errors.New("product price must not be negative")
	ErrNegativeStock       = errors.New("product stock must not be negative")
)

// Product is a catalog entry. Stock is the remaining purchasable quantity,
// shared across all shoppers and decremented at checkout time.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description []string        `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MainImage   string          `json:"main_image"`
	Photos      []string        `json:"photos"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

// NewProduct validates required fields at the boundary so the rest of the
// system never sees a half-formed product record.
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProductNameRequired
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasSize reports whether the product offers the given size. Products
// without sizing accept only the empty size.
func (p *Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return size == ""
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether the product offers the given color variant.
func (p *Product) HasColor(color string) bool {
	if len(p.Colors) == 0 {
		return color == ""
	}
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
