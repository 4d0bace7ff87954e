package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/google/uuid"
)

var ErrShippingRateNotFound = errors.New("shipping rate not found")

func (r *Repository) ListShippingRates(ctx context.Context) ([]*domain.ShippingRate, error) {
	query := `SELECT id, region, delivery_time, cost, free_shipping_threshold, created_at, updated_at
	          FROM shipping_rates ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query shipping rates: %w", err)
	}
	defer rows.Close()

	var rates []*domain.ShippingRate
	for rows.Next() {
		var rate domain.ShippingRate
		if err := rows.Scan(
			&rate.ID,
			&rate.Region,
			&rate.DeliveryTime,
			&rate.Cost,
			&rate.FreeShippingThreshold,
			&rate.CreatedAt,
			&rate.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shipping rate: %w", err)
		}
		rates = append(rates, &rate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return rates, nil
}

func (r *Repository) CreateShippingRate(ctx context.Context, rate *domain.ShippingRate) error {
	query := `INSERT INTO shipping_rates (id, region, delivery_time, cost, free_shipping_threshold, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		rate.ID,
		rate.Region,
		rate.DeliveryTime,
		rate.Cost,
		rate.FreeShippingThreshold,
	)
	if err != nil {
		return fmt.Errorf("insert shipping rate: %w", err)
	}
	return nil
}

func (r *Repository) UpdateShippingRate(ctx context.Context, rate *domain.ShippingRate) error {
	query := `UPDATE shipping_rates
	          SET region = $2, delivery_time = $3, cost = $4, free_shipping_threshold = $5, updated_at = NOW()
	          WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		rate.ID,
		rate.Region,
		rate.DeliveryTime,
		rate.Cost,
		rate.FreeShippingThreshold,
	)
	if err != nil {
		return fmt.Errorf("update shipping rate: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrShippingRateNotFound
	}
	return nil
}

func (r *Repository) GetShippingRate(ctx context.Context, id uuid.UUID) (*domain.ShippingRate, error) {
	query := `SELECT id, region, delivery_time, cost, free_shipping_threshold, created_at, updated_at
	          FROM shipping_rates WHERE id = $1`

	var rate domain.ShippingRate
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rate.ID,
		&rate.Region,
		&rate.DeliveryTime,
		&rate.Cost,
		&rate.FreeShippingThreshold,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShippingRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shipping rate: %w", err)
	}
	return &rate, nil
}
