package checkout

import (
	"context"
	"time"

	"github.com/kasen/storefront/internal/cart"
	"github.com/kasen/storefront/internal/identity"
	"github.com/kasen/storefront/internal/notify"
	"github.com/kasen/storefront/internal/order"
	"github.com/kasen/storefront/internal/payment"
	"github.com/sirupsen/logrus"
)

// Service drives a checkout end to end: authorize, confirm, then on success
// append the order, clear the cart and fire the best-effort notification, in
// that order. There is no idempotency key; preventing a double submit is the
// caller's job.
type Service struct {
	cart     *cart.Store
	orders   *order.Store
	gateway  payment.Gateway
	notifier notify.Notifier
	log      *logrus.Logger
}

func NewService(cartStore *cart.Store, orders *order.Store, gateway payment.Gateway, notifier notify.Notifier, log *logrus.Logger) *Service {
	return &Service{
		cart:     cartStore,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) Checkout(ctx context.Context, user identity.User, methodToken string) (*order.Order, error) {
	if user.ID == "" {
		return nil, ErrNotSignedIn
	}

	lines, total := s.cart.Snapshot()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	intent, err := s.gateway.CreateIntent(ctx, lines, user.Email)
	if err != nil {
		s.log.WithError(err).Error("payment intent creation failed")
		return nil, ErrPaymentUnexpected
	}

	result, err := s.gateway.Confirm(ctx, intent.ID, methodToken)
	if err != nil {
		s.log.WithError(err).Error("payment confirmation failed")
		return nil, ErrPaymentUnexpected
	}

	if !result.Success {
		return nil, &DeclineError{Reason: result.Reason}
	}

	o := order.Order{
		ID:        order.NewID(),
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		Items:     lines,
		Total:     total,
		Status:    order.StatusCompleted,
		CreatedAt: time.Now(),
		PaymentID: result.PaymentID,
	}

	s.orders.Append(o)
	s.cart.Clear()

	summary := notify.OrderSummary{
		OrderID:       o.ID,
		CustomerName:  o.UserName,
		CustomerEmail: o.UserEmail,
		Items:         o.Items,
		Total:         o.Total,
		PaymentID:     o.PaymentID,
		PlacedAt:      o.CreatedAt,
	}
	status := s.notifier.Notify(ctx, summary)
	s.notifier.SendConfirmation(ctx, summary)

	s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"total":        o.Total.StringFixed(2),
		"notification": status,
	}).Info("checkout completed")

	return &o, nil
}
