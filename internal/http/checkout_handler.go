package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Narutostha/ww/internal/cart"
	"github.com/Narutostha/ww/internal/checkout"
	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/identity"
)

// OrderPlacer is the checkout sequencer entry point.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, ident *identity.Identity, sessionID string, snapshot domain.CartSnapshot, form domain.ShippingForm, method domain.PaymentMethod) (*checkout.Result, error)
}

type CheckoutHandler struct {
	service OrderPlacer
	carts   *cart.Store
	timeout time.Duration
}

func NewCheckoutHandler(service OrderPlacer, carts *cart.Store, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		carts:   carts,
		timeout: timeout,
	}
}

type PlaceOrderRequestDTO struct {
	domain.ShippingForm
	PaymentMethod string `json:"payment_method"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ident := IdentityFrom(r.Context())
	if ident == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to place an order")
		return
	}

	sessionID := SessionIDFrom(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	snapshot := h.carts.Snapshot(sessionID)
	result, err := h.service.PlaceOrder(ctx, ident, sessionID, snapshot, req.ShippingForm, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	var inventoryErr *checkout.InventoryError

	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrBadPaymentMethod):
		respondError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   validationErr.Error(),
			Code:    "invalid_shipping_form",
			Details: validationErr.Fields,
		})
	case errors.As(err, &inventoryErr):
		respondError(w, http.StatusConflict, "insufficient_stock", inventoryErr.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
