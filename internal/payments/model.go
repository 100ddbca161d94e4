package payments

import "time"

// Payment statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusExpired = "expired"
)

// Payment is our record of a checkout session handed to Stripe.
type Payment struct {
	ID             string
	SessionID      string
	ServicePackage string
	CustomerName   string
	CustomerEmail  string
	Units          int
	AmountCents    int64
	Currency       string
	Status         string
	CreatedAt      time.Time
}

// SessionStatus is the subset of a Stripe Checkout Session the confirmation
// page polls for, in the shape the frontend consumes.
type SessionStatus struct {
	SessionID     string            `json:"session_id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Paid reports whether the session has settled.
func (s *SessionStatus) Paid() bool {
	return s.PaymentStatus == "paid"
}

// Expired reports whether the session lapsed before payment.
func (s *SessionStatus) Expired() bool {
	return s.Status == "expired"
}

// Terminal reports whether the session will not change state again.
func (s *SessionStatus) Terminal() bool {
	return s.Paid() || s.Expired()
}
