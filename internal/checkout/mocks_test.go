package checkout

import (
	"context"
	"io"
	"sync"

	"github.com/kasen/storefront/internal/cart"
	"github.com/kasen/storefront/internal/notify"
	"github.com/kasen/storefront/internal/payment"
	"github.com/sirupsen/logrus"
)

type mockGateway struct {
	intentErr  error
	confirmErr error
	result     *payment.Result

	intents  int
	confirms int
}

func (m *mockGateway) CreateIntent(_ context.Context, _ []cart.Line, _ string) (*payment.Intent, error) {
	m.intents++
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	return &payment.Intent{ID: "pi_mock_test1", ClientSecret: "pi_mock_test1_secret"}, nil
}

func (m *mockGateway) Confirm(_ context.Context, intentID, _ string) (*payment.Result, error) {
	m.confirms++
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &payment.Result{Success: true, PaymentID: intentID}, nil
}

type mockNotifier struct {
	m             sync.Mutex
	status        notify.Status
	summaries     []notify.OrderSummary
	confirmations []notify.OrderSummary
}

func (m *mockNotifier) Notify(_ context.Context, summary notify.OrderSummary) notify.Status {
	m.m.Lock()
	defer m.m.Unlock()
	m.summaries = append(m.summaries, summary)
	if m.status != "" {
		return m.status
	}
	return notify.StatusDelivered
}

func (m *mockNotifier) SendConfirmation(_ context.Context, summary notify.OrderSummary) notify.Status {
	m.m.Lock()
	defer m.m.Unlock()
	m.confirmations = append(m.confirmations, summary)
	return notify.StatusLoggedFallback
}

type mockPersistence struct{}

func (mockPersistence) Load(context.Context) ([]cart.Line, error)  { return nil, cart.ErrNoSnapshot }
func (mockPersistence) Save(context.Context, []cart.Line) error    { return nil }
func (mockPersistence) Delete(context.Context) error               { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
