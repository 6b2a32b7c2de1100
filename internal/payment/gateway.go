package payment

import (
	"context"

	"github.com/kasen/storefront/internal/cart"
)

// Intent is a payment authorization handle from the gateway.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// Result is the outcome of a confirmation attempt. A declined payment is a
// Result with Success=false, not an error; errors are reserved for transport
// or gateway failures.
type Result struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"paymentId,omitempty"`
	Reason    string `json:"error,omitempty"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, lines []cart.Line, customerEmail string) (*Intent, error)
	Confirm(ctx context.Context, intentID, methodToken string) (*Result, error)
}
