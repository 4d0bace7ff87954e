package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps collects the wired handlers and cross-cutting dependencies the
// router needs.
type RouterDeps struct {
	Cart           *CartHandler
	Checkout       *CheckoutHandler
	Products       *ProductHandler
	Orders         *OrdersHandler
	Admin          *AdminHandler
	Auth           AuthResolver
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)
	r.Use(AuthMiddleware(deps.Auth))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.ListProducts)
			r.Get("/{id}", deps.Products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Delete("/", deps.Cart.ClearCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Post("/items/{line_id}/reduce", deps.Cart.ReduceQuantity)
			r.Delete("/items/{line_id}", deps.Cart.RemoveItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Post("/checkout", deps.Checkout.PlaceOrder)
			r.Get("/orders", deps.Orders.ListMyOrders)
			r.Get("/orders/{id}", deps.Orders.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/products", deps.Admin.CreateProduct)
			r.Put("/products/{id}", deps.Admin.UpdateProduct)
			r.Delete("/products/{id}", deps.Admin.DeleteProduct)
			r.Get("/orders", deps.Admin.ListAllOrders)
			r.Put("/orders/{id}/status", deps.Admin.UpdateOrderStatus)
			r.Get("/shipping-rates", deps.Admin.ListShippingRates)
			r.Post("/shipping-rates", deps.Admin.CreateShippingRate)
			r.Put("/shipping-rates/{id}", deps.Admin.UpdateShippingRate)
		})
	})

	return r
}
