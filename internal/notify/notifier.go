package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kasen/storefront/internal/cart"
	"github.com/shopspring/decimal"
)

// Status is the only thing a notification attempt yields. Delivery problems
// degrade to StatusLoggedFallback; they are never an error the caller must
// branch on.
type Status string

const (
	StatusDelivered      Status = "delivered"
	StatusLoggedFallback Status = "logged_fallback"
)

// OrderSummary carries the fields the notification template needs.
type OrderSummary struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Items         []cart.Line
	Total         decimal.Decimal
	PaymentID     string
	PlacedAt      time.Time
}

// ItemsList renders the itemized list the template expects, one line per cart
// line.
func (s OrderSummary) ItemsList() string {
	lines := make([]string, len(s.Items))
	for i, l := range s.Items {
		lines[i] = fmt.Sprintf("%s x %d - $%s", l.Product.Name, l.Quantity, l.Subtotal().StringFixed(2))
	}
	return strings.Join(lines, "\n")
}

func (s OrderSummary) FormattedTotal() string {
	return "$" + s.Total.StringFixed(2)
}

// Notifier covers both sides of a completed checkout: Notify reaches the
// shop admin through the configured channel, SendConfirmation produces the
// customer-facing order confirmation.
type Notifier interface {
	Notify(ctx context.Context, summary OrderSummary) Status
	SendConfirmation(ctx context.Context, summary OrderSummary) Status
}
