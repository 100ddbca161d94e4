package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/snatchedbeauties/booking-platform/internal/observability/metrics"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

var stripeTracer = otel.Tracer("snatched.internal.payments.stripe")

// StripeService talks to the Stripe Checkout Sessions API directly over
// HTTP. Form-encoded requests are all we need from the API surface, so no
// SDK dependency is carried.
type StripeService struct {
	secretKey  string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.Metrics
	dryRun     bool
}

// SessionParams describes the checkout session to create.
type SessionParams struct {
	AmountCents   int64
	Quantity      int
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CreatedSession is Stripe's reply to a session create.
type CreatedSession struct {
	SessionID   string
	CheckoutURL string
}

// NewStripeService creates a Stripe checkout client.
func NewStripeService(secretKey string, logger *logging.Logger) *StripeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StripeService{
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		apiVersion: "2024-12-18.acacia",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the Stripe API base URL (for testing).
func (s *StripeService) WithBaseURL(baseURL string) *StripeService {
	if baseURL != "" {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
	return s
}

// WithDryRun enables dry-run mode (returns fake sessions without calling Stripe).
func (s *StripeService) WithDryRun(enabled bool) *StripeService {
	s.dryRun = enabled
	return s
}

// WithMetrics wires request latency observation.
func (s *StripeService) WithMetrics(m *metrics.Metrics) *StripeService {
	s.metrics = m
	return s
}

// CreateCheckoutSession creates a hosted checkout session and returns its
// id and redirect URL.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, params SessionParams) (*CreatedSession, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.create_checkout_session")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("payments.amount_cents", params.AmountCents),
		attribute.Int("payments.quantity", params.Quantity),
	)

	if s.dryRun {
		fakeID := "cs_dryrun_" + uuid.NewString()[:8]
		s.logger.Info("stripe dry run: skipping checkout session creation",
			"amount_cents", params.AmountCents, "quantity", params.Quantity)
		return &CreatedSession{
			SessionID:   fakeID,
			CheckoutURL: "https://checkout.stripe.com/dry-run/" + fakeID,
		}, nil
	}

	quantity := params.Quantity
	if quantity < 1 {
		quantity = 1
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		description = "Beauty Service"
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", params.AmountCents))
	form.Set("line_items[0][price_data][product_data][name]", description)
	form.Set("line_items[0][quantity]", fmt.Sprintf("%d", quantity))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	form.Set("metadata[description]", description)
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var parsed stripeSession
	if err := s.do(ctx, http.MethodPost, "/v1/checkout/sessions", strings.NewReader(form.Encode()), &parsed); err != nil {
		return nil, err
	}
	if parsed.URL == "" {
		return nil, fmt.Errorf("payments: stripe response missing checkout url")
	}

	return &CreatedSession{SessionID: parsed.ID, CheckoutURL: parsed.URL}, nil
}

// GetCheckoutStatus fetches the current state of a checkout session.
func (s *StripeService) GetCheckoutStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.get_checkout_session")
	defer span.End()
	span.SetAttributes(attribute.String("payments.session_id", sessionID))

	if s.dryRun {
		return &SessionStatus{
			SessionID:     sessionID,
			Status:        "complete",
			PaymentStatus: "paid",
			Currency:      "usd",
		}, nil
	}

	var parsed stripeSession
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := s.do(ctx, http.MethodGet, path, nil, &parsed); err != nil {
		return nil, err
	}

	return &SessionStatus{
		SessionID:     parsed.ID,
		Status:        parsed.Status,
		PaymentStatus: parsed.PaymentStatus,
		AmountTotal:   parsed.AmountTotal,
		Currency:      parsed.Currency,
		Metadata:      parsed.Metadata,
	}, nil
}

func (s *StripeService) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("payments: stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Stripe-Version", s.apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	s.metrics.ObserveStripeLatency(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("payments: stripe http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payments: stripe api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("payments: stripe decode: %w", err)
	}
	return nil
}

// stripeSession is the subset of Stripe's Checkout Session we need.
type stripeSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}
