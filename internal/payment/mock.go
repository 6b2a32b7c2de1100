package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kasen/storefront/internal/cart"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const declinedMessage = "Your card was declined. Please try a different payment method."

// Outcome decides whether a confirmation is approved. Injectable so tests can
// force both branches.
type Outcome interface {
	Approve() bool
}

// RandomOutcome declines roughly DeclineRate of confirmations.
type RandomOutcome struct {
	DeclineRate float64
}

func (r RandomOutcome) Approve() bool {
	return rand.Float64() >= r.DeclineRate
}

// MockGateway simulates the payment boundary. CreateIntent attempts the real
// endpoint when one is configured but always ends up with an intent:
// transport failures synthesize mock ids. Confirm models gateway latency with
// a fixed delay, then asks the outcome strategy.
type MockGateway struct {
	endpoint string
	client   *http.Client
	delay    time.Duration
	outcome  Outcome
	log      *logrus.Logger
}

func NewMockGateway(endpoint string, delay time.Duration, outcome Outcome, log *logrus.Logger) *MockGateway {
	return &MockGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		delay:    delay,
		outcome:  outcome,
		log:      log,
	}
}

type createIntentRequest struct {
	TotalCents    int64  `json:"total"`
	CustomerEmail string `json:"customerEmail"`
	Currency      string `json:"currency"`
}

func (g *MockGateway) CreateIntent(ctx context.Context, lines []cart.Line, customerEmail string) (*Intent, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}

	if g.endpoint != "" {
		intent, err := g.postIntent(ctx, total, customerEmail)
		if err == nil {
			return intent, nil
		}
		g.log.WithError(err).Warn("payment intent creation failed, synthesizing mock intent")
	}

	id := "pi_mock_" + shortToken()
	return &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%d", id, time.Now().UnixMilli()),
	}, nil
}

func (g *MockGateway) postIntent(ctx context.Context, total decimal.Decimal, customerEmail string) (*Intent, error) {
	body, err := json.Marshal(createIntentRequest{
		TotalCents:    total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		CustomerEmail: customerEmail,
		Currency:      "usd",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("intent endpoint returned %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	return &intent, nil
}

// Confirm never honors cancellation during the artificial delay: the mock
// always resolves, matching the gateway it stands in for.
func (g *MockGateway) Confirm(_ context.Context, intentID, methodToken string) (*Result, error) {
	g.log.WithFields(logrus.Fields{
		"intent_id":    intentID,
		"method_token": methodToken,
	}).Debug("confirming payment")

	time.Sleep(g.delay)

	if g.outcome.Approve() {
		return &Result{Success: true, PaymentID: intentID}, nil
	}
	return &Result{Success: false, Reason: declinedMessage}, nil
}

// NewMethodToken synthesizes the client-side payment method handle sent with
// a confirmation.
func NewMethodToken() string {
	return "pm_mock_" + shortToken()
}

func shortToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
