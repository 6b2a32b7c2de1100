package web

import (
	"context"
	"io"

	"github.com/kasen/storefront/internal/cart"
	"github.com/kasen/storefront/internal/catalog"
	"github.com/kasen/storefront/internal/notify"
	"github.com/kasen/storefront/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type mockCatalog struct {
	products []*catalog.Product
	err      error
}

func (m *mockCatalog) GetAllProducts(context.Context) ([]*catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (m *mockCatalog) Close() error                { return nil }
func (m *mockCatalog) RunMigrations(string) error  { return nil }

func testProducts() []*catalog.Product {
	return []*catalog.Product{
		{ID: "a", Name: "Product A", Price: decimal.RequireFromString("10.00"), Category: "Test", Stock: 5},
		{ID: "b", Name: "Product B", Price: decimal.RequireFromString("5.00"), Category: "Test", Stock: 5},
	}
}

type nopPersistence struct{}

func (nopPersistence) Load(context.Context) ([]cart.Line, error) { return nil, cart.ErrNoSnapshot }
func (nopPersistence) Save(context.Context, []cart.Line) error   { return nil }
func (nopPersistence) Delete(context.Context) error              { return nil }

type stubGateway struct {
	approve bool
}

func (s *stubGateway) CreateIntent(_ context.Context, _ []cart.Line, _ string) (*payment.Intent, error) {
	return &payment.Intent{ID: "pi_mock_web1", ClientSecret: "secret"}, nil
}

func (s *stubGateway) Confirm(_ context.Context, intentID, _ string) (*payment.Result, error) {
	if s.approve {
		return &payment.Result{Success: true, PaymentID: intentID}, nil
	}
	return &payment.Result{Success: false, Reason: "Your card was declined. Please try a different payment method."}, nil
}

type stubNotifier struct {
	notified int
}

func (s *stubNotifier) Notify(context.Context, notify.OrderSummary) notify.Status {
	s.notified++
	return notify.StatusLoggedFallback
}

func (s *stubNotifier) SendConfirmation(context.Context, notify.OrderSummary) notify.Status {
	return notify.StatusLoggedFallback
}

func validCard() CheckoutRequestDTO {
	return CheckoutRequestDTO{
		CardNumber:     "4242 4242 4242 4242",
		ExpiryDate:     "12/30",
		CVV:            "123",
		CardholderName: "Ada Lovelace",
	}
}
