package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kasen/storefront/internal/identity"
)

// Handlers bundles everything the route tree needs.
type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Session  *SessionHandler
	Adapter  *identity.Adapter
}

// NewRouter builds the four logical views plus the JSON API. Unknown paths
// redirect to the storefront.
func NewRouter(h Handlers, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Views
	r.Get("/", h.Products.List)
	r.Group(func(r chi.Router) {
		r.Use(RequireUser(h.Adapter))
		r.Get("/dashboard", h.Orders.Dashboard)
	})
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Adapter))
		r.Get("/admin", h.Orders.AdminDashboard)
	})

	// API
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{product_id}", h.Products.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.Session.Current)
			r.Post("/signin", h.Session.SignIn)
			r.Post("/signout", h.Session.SignOut)
		})

		r.Post("/checkout", h.Checkout.Checkout)

		r.Group(func(r chi.Router) {
			r.Use(requireUserAPI(h.Adapter))
			r.Get("/orders", h.Orders.List)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdminAPI(h.Adapter))
			r.Get("/orders", h.Orders.AdminList)
			r.Get("/stats", h.Orders.AdminStats)
			r.Put("/orders/{order_id}/status", h.Orders.UpdateStatus)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return r
}
