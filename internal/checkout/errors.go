package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrNotSignedIn       = errors.New("checkout requires a signed-in user")
	ErrPaymentUnexpected = errors.New("an unexpected error occurred, please try again")
)

// DeclineError carries the gateway's decline reason. The cart and order store
// are untouched when this is returned.
type DeclineError struct {
	Reason string
}

func (e *DeclineError) Error() string {
	return e.Reason
}
