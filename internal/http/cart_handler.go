package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Narutostha/ww/internal/cart"
	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProductGetter is the slice of the catalog the cart handler needs to
// snapshot name, price and image at add-time.
type ProductGetter interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type CartHandler struct {
	carts   *cart.Store
	catalog ProductGetter
	timeout time.Duration
}

func NewCartHandler(carts *cart.Store, catalog ProductGetter, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"selected_color"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := SessionIDFrom(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a UUID")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Snapshot name, price and image from the live catalog. Stock is NOT
	// checked here; it is validated at checkout only.
	product, err := h.catalog.GetProduct(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	if !product.HasSize(req.Size) {
		respondError(w, http.StatusBadRequest, "invalid_size", "size not offered for this product")
		return
	}
	if !product.HasColor(req.Color) {
		respondError(w, http.StatusBadRequest, "invalid_color", "color not offered for this product")
		return
	}

	h.carts.AddItem(sessionID, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
		ImageURL:  product.MainImage,
		Size:      req.Size,
		Color:     req.Color,
	})

	respondJSON(w, http.StatusCreated, h.carts.Snapshot(sessionID))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFrom(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	respondJSON(w, http.StatusOK, h.carts.Snapshot(sessionID))
}

func (h *CartHandler) ReduceQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFrom(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	lineID := chi.URLParam(r, "line_id")
	h.carts.ReduceQuantity(sessionID, lineID)

	respondJSON(w, http.StatusOK, h.carts.Snapshot(sessionID))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFrom(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	lineID := chi.URLParam(r, "line_id")
	h.carts.RemoveItem(sessionID, lineID)

	respondJSON(w, http.StatusOK, h.carts.Snapshot(sessionID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFrom(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	h.carts.Clear(sessionID)
	respondJSON(w, http.StatusOK, h.carts.Snapshot(sessionID))
}
