package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderReader is the shopper-facing order history surface.
type OrderReader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderReader
	timeout time.Duration
}

func NewOrdersHandler(orders OrderReader, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

// ListMyOrders returns the authenticated shopper's order history.
func (h *OrdersHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ident := IdentityFrom(r.Context())
	if ident == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListUserOrders(ctx, ident.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order; shoppers can only see their own, staff can
// see any.
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ident := IdentityFrom(r.Context())
	if ident == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	order, err := h.orders.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	if order.UserID != ident.ID && !ident.IsAdmin() {
		respondError(w, http.StatusForbidden, "permission_denied", "not your order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
