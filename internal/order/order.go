package order

import (
	"fmt"
	"time"

	"github.com/kasen/storefront/internal/cart"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// Order is created once by the checkout flow. Items and Total are a frozen
// snapshot of the cart at purchase time; only Status changes afterwards.
// Purchaser fields are a denormalized copy, not a live reference.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	UserEmail string          `json:"user_email"`
	Items     []cart.Line     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	PaymentID string          `json:"payment_id,omitempty"`
}

// NewID generates a time-based order id. Not globally unique under clock skew
// or concurrent checkouts; acceptable for in-session volume.
func NewID() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}
