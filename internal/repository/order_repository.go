package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// InsufficientStockError carries enough detail to surface a message naming
// the offending product and what is left of its stock.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s (only %d available)", e.ProductName, e.Available)
}

// PlaceOrder persists the order header, all line items and all stock
// decrements as one atomic unit. The stock write is conditional
// (stock = stock - q only where stock >= q), so two concurrent checkouts
// racing over the last unit cannot both succeed, and a failure on any line
// rolls the whole order back with no leftover side effects.
//
// An ORDER_PLACED outbox row is written in the same transaction so the event
// is published if and only if the order exists.
func (r *Repository) PlaceOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	shippingJSON, err := json.Marshal(order.ShippingInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping info: %w", err)
	}

	insertOrder := `INSERT INTO orders (id, user_id, status, total, shipping_info, payment_method, created_at, updated_at)
	                VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`
	if _, err := tx.ExecContext(ctx, insertOrder,
		order.ID,
		order.UserID,
		order.Status,
		order.Total,
		shippingJSON,
		order.PaymentMethod,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	decrementStock := `UPDATE products SET stock = stock - $2, updated_at = NOW()
	                   WHERE id = $1 AND deleted_at IS NULL AND stock >= $2`
	insertItem := `INSERT INTO order_items (id, order_id, product_id, size, selected_color, quantity, price, created_at)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx, decrementStock, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
		if affected == 0 {
			// Either the product vanished or the conditional write lost to
			// insufficient stock. Look up which, inside the same tx.
			return stockFailure(ctx, tx, item)
		}

		if _, err := tx.ExecContext(ctx, insertItem,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Size,
			item.Color,
			item.Quantity,
			item.Price,
		); err != nil {
			return fmt.Errorf("insert order item for product %s: %w", item.ProductID, err)
		}
	}

	if err := insertOutboxEvent(ctx, tx, order); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout transaction: %w", err)
	}
	return nil
}

func stockFailure(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	var name string
	var stock int
	err := tx.QueryRowContext(ctx,
		`SELECT name, stock FROM products WHERE id = $1 AND deleted_at IS NULL`,
		item.ProductID).Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s (%s): %w", item.Name, item.ProductID, ErrProductNotFound)
	}
	if err != nil {
		return fmt.Errorf("query stock for product %s: %w", item.ProductID, err)
	}
	return &InsufficientStockError{
		ProductID:   item.ProductID,
		ProductName: name,
		Requested:   item.Quantity,
		Available:   stock,
	}
}

func insertOutboxEvent(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	payload, err := json.Marshal(map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        order.UserID,
		"status":         order.Status,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
		"items":          order.Items,
		"placed_at":      order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (aggregate_id, event_type, payload, created_at)
		 VALUES ($1, $2, $3, NOW())`,
		order.ID.String(), "ORDER_PLACED", payload)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT id, user_id, status, total, shipping_info, payment_method, created_at, updated_at
	          FROM orders WHERE id = $1`

	var order domain.Order
	var shippingJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.Total,
		&shippingJSON,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if err := json.Unmarshal(shippingJSON, &order.ShippingInfo); err != nil {
		return nil, fmt.Errorf("unmarshal shipping info: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *Repository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT i.id, i.order_id, i.product_id, p.name, i.size, i.selected_color, i.quantity, i.price
	          FROM order_items i
	          JOIN products p ON p.id = i.product_id
	          WHERE i.order_id = $1
	          ORDER BY i.created_at`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Size,
			&item.Color,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, user_id, status, total, shipping_info, payment_method, created_at, updated_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, user_id, status, total, shipping_info, payment_method, created_at, updated_at
		 FROM orders ORDER BY created_at DESC`)
}

func (r *Repository) listOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var shippingJSON []byte
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.Total,
			&shippingJSON,
			&order.PaymentMethod,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if err := json.Unmarshal(shippingJSON, &order.ShippingInfo); err != nil {
			return nil, fmt.Errorf("unmarshal shipping info: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus writes the new status. Transition legality is enforced
// by the orders service before this is called.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
