package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Narutostha/ww/internal/domain"
	"github.com/Narutostha/ww/internal/orders"
	"github.com/Narutostha/ww/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminCatalog is the back-office product management surface.
type AdminCatalog interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ProductGetter
}

// AdminOrders is the back-office order management surface.
type AdminOrders interface {
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
}

// ShippingRates is the back-office shipping zone surface.
type ShippingRates interface {
	ListShippingRates(ctx context.Context) ([]*domain.ShippingRate, error)
	CreateShippingRate(ctx context.Context, rate *domain.ShippingRate) error
	UpdateShippingRate(ctx context.Context, rate *domain.ShippingRate) error
	GetShippingRate(ctx context.Context, id uuid.UUID) (*domain.ShippingRate, error)
}

type AdminHandler struct {
	catalog  AdminCatalog
	orders   AdminOrders
	shipping ShippingRates
	timeout  time.Duration
}

func NewAdminHandler(catalog AdminCatalog, orders AdminOrders, shipping ShippingRates, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		orders:   orders,
		shipping: shipping,
		timeout:  timeout,
	}
}

type ProductRequestDTO struct {
	Name        string          `json:"name"`
	Description []string        `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MainImage   string          `json:"main_image"`
	Photos      []string        `json:"photos"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := domain.NewProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}
	product.Description = req.Description
	product.MainImage = req.MainImage
	product.Photos = req.Photos
	product.Sizes = req.Sizes
	product.Colors = req.Colors

	if err := h.catalog.CreateProduct(ctx, product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a UUID")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, err := h.catalog.GetProduct(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.MainImage = req.MainImage
	product.Photos = req.Photos
	product.Sizes = req.Sizes
	product.Colors = req.Colors
	product.Stock = req.Stock

	if err := h.catalog.UpdateProduct(ctx, product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a UUID")
		return
	}

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	all, err := h.orders.ListAllOrders(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if all == nil {
		all = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, all)
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "not_found", "order not found")
		case errors.Is(err, orders.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order status")
		}
		return
	}

	respondJSON(w, http.StatusOK, order)
}

type ShippingRateRequestDTO struct {
	Region                string          `json:"region"`
	DeliveryTime          string          `json:"delivery_time"`
	Cost                  decimal.Decimal `json:"cost"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
}

func (h *AdminHandler) ListShippingRates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rates, err := h.shipping.ListShippingRates(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list shipping rates")
		return
	}
	if rates == nil {
		rates = []*domain.ShippingRate{}
	}

	respondJSON(w, http.StatusOK, rates)
}

func (h *AdminHandler) CreateShippingRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ShippingRateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Region == "" {
		respondError(w, http.StatusBadRequest, "invalid_region", "region is required")
		return
	}

	rate := &domain.ShippingRate{
		ID:                    uuid.New(),
		Region:                req.Region,
		DeliveryTime:          req.DeliveryTime,
		Cost:                  req.Cost,
		FreeShippingThreshold: req.FreeShippingThreshold,
	}

	if err := h.shipping.CreateShippingRate(ctx, rate); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create shipping rate")
		return
	}

	respondJSON(w, http.StatusCreated, rate)
}

func (h *AdminHandler) UpdateShippingRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_rate_id", "shipping rate id must be a UUID")
		return
	}

	var req ShippingRateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	rate, err := h.shipping.GetShippingRate(ctx, id)
	if errors.Is(err, repository.ErrShippingRateNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "shipping rate not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load shipping rate")
		return
	}

	rate.Region = req.Region
	rate.DeliveryTime = req.DeliveryTime
	rate.Cost = req.Cost
	rate.FreeShippingThreshold = req.FreeShippingThreshold

	if err := h.shipping.UpdateShippingRate(ctx, rate); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update shipping rate")
		return
	}

	respondJSON(w, http.StatusOK, rate)
}
