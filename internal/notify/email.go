package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailConfig identifies the transactional-email widget service and template.
// An incomplete config puts the notifier in fallback-only mode.
type EmailConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	AdminEmail string
}

func (c EmailConfig) configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// EmailNotifier sends the admin notification through the widget's JSON API.
// The send path sits behind a circuit breaker so a dead endpoint stops
// costing a round trip per checkout; every failure mode degrades to a
// structured log entry and a fallback status.
type EmailNotifier struct {
	cfg     EmailConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
	log     *logrus.Logger
}

func NewEmailNotifier(cfg EmailConfig, log *logrus.Logger) *EmailNotifier {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &EmailNotifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{Name: "email-widget"}),
		log:     log,
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (n *EmailNotifier) Notify(ctx context.Context, summary OrderSummary) Status {
	if !n.cfg.configured() {
		n.logFallback(summary, "email widget not configured")
		return StatusLoggedFallback
	}

	_, err := n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.send(ctx, summary)
	})
	if err != nil {
		n.logFallback(summary, err.Error())
		return StatusLoggedFallback
	}

	n.log.WithFields(logrus.Fields{
		"order_id":  summary.OrderID,
		"recipient": n.cfg.AdminEmail,
	}).Info("order notification delivered")
	return StatusDelivered
}

func (n *EmailNotifier) send(ctx context.Context, summary OrderSummary) error {
	body, err := json.Marshal(sendRequest{
		ServiceID:  n.cfg.ServiceID,
		TemplateID: n.cfg.TemplateID,
		UserID:     n.cfg.PublicKey,
		TemplateParams: map[string]string{
			"to_email":       n.cfg.AdminEmail,
			"to_name":        "Super Admin",
			"order_id":       summary.OrderID,
			"customer_name":  summary.CustomerName,
			"customer_email": summary.CustomerEmail,
			"total_amount":   summary.FormattedTotal(),
			"payment_id":     summary.PaymentID,
			"items_list":     summary.ItemsList(),
			"order_date":     summary.PlacedAt.Format(time.RFC1123),
		},
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email widget returned %d", resp.StatusCode)
	}
	return nil
}

// SendConfirmation writes the customer copy of the order confirmation to the
// log. The widget template only carries the admin notification, so the
// customer copy is log-only.
func (n *EmailNotifier) SendConfirmation(_ context.Context, summary OrderSummary) Status {
	n.log.WithFields(logrus.Fields{
		"recipient":     summary.CustomerEmail,
		"customer_name": summary.CustomerName,
		"order_id":      summary.OrderID,
		"total":         summary.FormattedTotal(),
		"payment_id":    summary.PaymentID,
		"items":         summary.ItemsList(),
		"order_date":    summary.PlacedAt.Format(time.RFC1123),
	}).Info("order confirmation logged for customer")
	return StatusLoggedFallback
}

// logFallback is the delivery of last resort: the order details land in the
// log so nothing is silently lost.
func (n *EmailNotifier) logFallback(summary OrderSummary, reason string) {
	n.log.WithFields(logrus.Fields{
		"reason":         reason,
		"recipient":      n.cfg.AdminEmail,
		"order_id":       summary.OrderID,
		"customer_name":  summary.CustomerName,
		"customer_email": summary.CustomerEmail,
		"total":          summary.FormattedTotal(),
		"payment_id":     summary.PaymentID,
		"items":          summary.ItemsList(),
		"placed_at":      summary.PlacedAt.Format(time.RFC1123),
	}).Info("order notification logged (fallback)")
}
