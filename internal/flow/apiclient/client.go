// Package apiclient is the HTTP implementation of flow.Client, used by the
// e2e script and by any Go program driving the booking API remotely.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	"github.com/snatchedbeauties/booking-platform/internal/flow"
	"github.com/snatchedbeauties/booking-platform/internal/payments"
)

// Client talks to the booking API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient swaps the underlying HTTP client (for tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

var _ flow.Client = (*Client)(nil)

// ListServices fetches the treatment catalog.
func (c *Client) ListServices(ctx context.Context) (map[string]catalog.ServiceOffering, error) {
	var out struct {
		Services map[string]catalog.ServiceOffering `json:"services"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// CaptureLead submits the coupon form.
func (c *Client) CaptureLead(ctx context.Context, req flow.LeadRequest) (*flow.LeadCoupon, error) {
	var out flow.LeadCoupon
	if err := c.do(ctx, http.MethodPost, "/api/leads", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking submits the booking draft.
func (c *Client) CreateBooking(ctx context.Context, req flow.BookingSubmission) (*flow.BookingConfirmation, error) {
	var out flow.BookingConfirmation
	if err := c.do(ctx, http.MethodPost, "/api/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckout creates the Stripe session and returns the redirect URL.
func (c *Client) CreateCheckout(ctx context.Context, req flow.CheckoutRequest) (string, error) {
	var out struct {
		CheckoutURL string `json:"checkout_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/payments/checkout", req, &out); err != nil {
		return "", err
	}
	if out.CheckoutURL == "" {
		return "", fmt.Errorf("apiclient: response missing checkout_url")
	}
	return out.CheckoutURL, nil
}

// GetCheckoutStatus polls a checkout session.
func (c *Client) GetCheckoutStatus(ctx context.Context, sessionID string) (*payments.SessionStatus, error) {
	var out payments.SessionStatus
	path := "/api/payments/checkout/status/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes the JSON reply. Non-2xx responses become
// *flow.APIError carrying the server's detail message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &flow.APIError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}
