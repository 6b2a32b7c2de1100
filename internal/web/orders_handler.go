package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kasen/storefront/internal/identity"
	"github.com/kasen/storefront/internal/order"
)

type OrdersHandler struct {
	orders  *order.Store
	adapter *identity.Adapter
}

func NewOrdersHandler(orders *order.Store, adapter *identity.Adapter) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		adapter: adapter,
	}
}

type OrderResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	UserName  string             `json:"user_name"`
	UserEmail string             `json:"user_email"`
	Items     []CartLineResponse `json:"items"`
	Total     string             `json:"total"`
	Status    string             `json:"status"`
	CreatedAt string             `json:"created_at"`
	PaymentID string             `json:"payment_id,omitempty"`
}

type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type StatsResponse struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Cancelled int    `json:"cancelled"`
	Revenue   string `json:"revenue"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

// List returns the signed-in user's own orders, newest first.
func (h *OrdersHandler) List(w http.ResponseWriter, _ *http.Request) {
	user, state := h.adapter.Current()
	if state != identity.StateSignedIn {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	respondJSON(w, http.StatusOK, toOrdersResponse(h.orders.ListByUser(user.ID)))
}

// AdminList returns every order, optionally filtered by ?status=.
func (h *OrdersHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter != "" && !order.Status(filter).Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	all := h.orders.List()
	if filter == "" {
		respondJSON(w, http.StatusOK, toOrdersResponse(all))
		return
	}

	filtered := make([]order.Order, 0, len(all))
	for _, o := range all {
		if o.Status == order.Status(filter) {
			filtered = append(filtered, o)
		}
	}
	respondJSON(w, http.StatusOK, toOrdersResponse(filtered))
}

func (h *OrdersHandler) AdminStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.orders.Stats()
	respondJSON(w, http.StatusOK, StatsResponse{
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending,
		Cancelled: stats.Cancelled,
		Revenue:   stats.Revenue.StringFixed(2),
	})
}

// PUT /api/v1/admin/orders/{order_id}/status
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := order.Status(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if !h.orders.SetStatus(orderID, status) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	o, _ := h.orders.Get(orderID)
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

// Dashboard is the customer view: the signed-in user and their orders.
func (h *OrdersHandler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	user, _ := h.adapter.Current()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"orders": toOrdersResponse(h.orders.ListByUser(user.ID)).Orders,
	})
}

// AdminDashboard is the admin view: stats plus every order.
func (h *OrdersHandler) AdminDashboard(w http.ResponseWriter, _ *http.Request) {
	stats := h.orders.Stats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats": StatsResponse{
			Total:     stats.Total,
			Completed: stats.Completed,
			Pending:   stats.Pending,
			Cancelled: stats.Cancelled,
			Revenue:   stats.Revenue.StringFixed(2),
		},
		"orders": toOrdersResponse(h.orders.List()).Orders,
	})
}

func toOrderResponse(o order.Order) OrderResponse {
	items := make([]CartLineResponse, len(o.Items))
	for i, l := range o.Items {
		items[i] = CartLineResponse{
			Product:  toProductResponse(l.Product),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal().StringFixed(2),
		}
	}
	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		UserName:  o.UserName,
		UserEmail: o.UserEmail,
		Items:     items,
		Total:     o.Total.StringFixed(2),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		PaymentID: o.PaymentID,
	}
}

func toOrdersResponse(orders []order.Order) OrdersResponse {
	result := make([]OrderResponse, len(orders))
	for i, o := range orders {
		result[i] = toOrderResponse(o)
	}
	return OrdersResponse{Orders: result}
}
