// Package flow implements the customer-facing booking journey: the lead
// capture form, the three step booking wizard, and the payment confirmation
// poller that runs after the Stripe redirect. It talks to the REST API
// through the Client interface so the journey can run against the real
// server, a test double, or the in-process handlers.
package flow

import (
	"context"
	"fmt"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	"github.com/snatchedbeauties/booking-platform/internal/payments"
)

// Client is the slice of the booking API the flows consume.
type Client interface {
	ListServices(ctx context.Context) (map[string]catalog.ServiceOffering, error)
	CaptureLead(ctx context.Context, req LeadRequest) (*LeadCoupon, error)
	CreateBooking(ctx context.Context, req BookingSubmission) (*BookingConfirmation, error)
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
	GetCheckoutStatus(ctx context.Context, sessionID string) (*payments.SessionStatus, error)
}

// LeadRequest is the lead capture form payload.
type LeadRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// LeadCoupon is the coupon handed back after lead capture.
type LeadCoupon struct {
	CouponCode string `json:"couponCode"`
	Discount   string `json:"discount"`
	Message    string `json:"message,omitempty"`
	ExpiresAt  string `json:"expiresAt,omitempty"`
}

// BookingSubmission is the booking creation payload.
type BookingSubmission struct {
	ServicePackage  string `json:"service_package"`
	PreferredDate   string `json:"preferred_date"`
	PreferredTime   string `json:"preferred_time"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// BookingConfirmation is the server's reply to a successful booking.
type BookingConfirmation struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

// CheckoutRequest is the checkout session creation payload.
type CheckoutRequest struct {
	ServicePackage string `json:"service_package"`
	CustomerEmail  string `json:"customer_email"`
	CustomerName   string `json:"customer_name,omitempty"`
	Units          int    `json:"units"`
	SuccessURL     string `json:"success_url"`
	CancelURL      string `json:"cancel_url"`
}

// APIError carries the server's detail message for a non-2xx response so
// the flows can show it to the user verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api status %d", e.StatusCode)
}
