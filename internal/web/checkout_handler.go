package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/kasen/storefront/internal/checkout"
	"github.com/kasen/storefront/internal/identity"
	"github.com/kasen/storefront/internal/payment"
)

type CheckoutHandler struct {
	svc     *checkout.Service
	adapter *identity.Adapter
}

func NewCheckoutHandler(svc *checkout.Service, adapter *identity.Adapter) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		adapter: adapter,
	}
}

type CheckoutRequestDTO struct {
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

type CheckoutResponseDTO struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Total   string `json:"total"`
}

var (
	nonDigits   = regexp.MustCompile(`\D`)
	expiryShape = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// validateCard applies the checkout form rules. Failures stay local to the
// handler; the orchestrator never sees them.
func validateCard(req CheckoutRequestDTO) string {
	number := nonDigits.ReplaceAllString(req.CardNumber, "")
	if len(number) < 13 || len(number) > 16 {
		return "Please enter a valid card number"
	}
	if !expiryShape.MatchString(req.ExpiryDate) {
		return "Please enter a valid expiry date"
	}
	cvv := nonDigits.ReplaceAllString(req.CVV, "")
	if len(cvv) < 3 || len(cvv) > 4 {
		return "Please enter a valid CVV"
	}
	if strings.TrimSpace(req.CardholderName) == "" {
		return "Please enter the cardholder name"
	}
	return ""
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, state := h.adapter.Current()
	if state != identity.StateSignedIn {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if msg := validateCard(req); msg != "" {
		respondError(w, http.StatusBadRequest, "invalid_card", msg)
		return
	}

	o, err := h.svc.Checkout(r.Context(), user, payment.NewMethodToken())
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID: o.ID,
		Status:  string(o.Status),
		Total:   o.Total.StringFixed(2),
	})
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var decline *checkout.DeclineError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrNotSignedIn):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.As(err, &decline):
		respondError(w, http.StatusPaymentRequired, "payment_declined", decline.Reason)
	default:
		respondError(w, http.StatusInternalServerError, "payment_error",
			"An unexpected error occurred. Please try again.")
	}
}
