package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, name, description, price, main_image, photos, sizes, colors, stock, created_at, updated_at`

// ListProducts returns all active (not soft-deleted) products, newest first.
func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products WHERE deleted_at IS NULL
	          ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products WHERE id = $1 AND deleted_at IS NULL`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, description, price, main_image, photos, sizes, colors, stock, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		pq.Array(p.Description),
		p.Price,
		p.MainImage,
		pq.Array(p.Photos),
		pq.Array(p.Sizes),
		pq.Array(p.Colors),
		p.Stock,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET name = $2, description = $3, price = $4, main_image = $5,
	              photos = $6, sizes = $7, colors = $8, stock = $9, updated_at = NOW()
	          WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		pq.Array(p.Description),
		p.Price,
		p.MainImage,
		pq.Array(p.Photos),
		pq.Array(p.Sizes),
		pq.Array(p.Colors),
		p.Stock,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SoftDeleteProduct hides the product from the catalog. The row stays so
// historical order items keep a valid reference.
func (r *Repository) SoftDeleteProduct(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET deleted_at = NOW(), updated_at = NOW()
	          WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetProductStock reads the live stock counter for one product.
func (r *Repository) GetProductStock(ctx context.Context, id uuid.UUID) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE id = $1 AND deleted_at IS NULL`, id).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query product stock: %w", err)
	}
	return stock, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		pq.Array(&p.Description),
		&p.Price,
		&p.MainImage,
		pq.Array(&p.Photos),
		pq.Array(&p.Sizes),
		pq.Array(&p.Colors),
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}
