package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	"github.com/snatchedbeauties/booking-platform/internal/observability/metrics"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// StripeClient is the slice of StripeService the handlers use; tests swap in
// a stub.
type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*CreatedSession, error)
	GetCheckoutStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// PaymentNotifier tells the studio a deposit came in.
type PaymentNotifier interface {
	PaymentReceived(ctx context.Context, p *Payment) error
}

// Handler serves checkout creation and status polling.
type Handler struct {
	catalog           catalog.Repository
	repo              Repository
	stripe            StripeClient
	cache             *StatusCache
	notifier          PaymentNotifier
	metrics           *metrics.Metrics
	logger            *logging.Logger
	maxUnits          int
	defaultSuccessURL string
	defaultCancelURL  string
}

// NewHandler creates a payments handler.
func NewHandler(cat catalog.Repository, repo Repository, stripe StripeClient, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		catalog:  cat,
		repo:     repo,
		stripe:   stripe,
		logger:   logger,
		maxUnits: 50,
	}
}

// WithCache wires the Redis status cache.
func (h *Handler) WithCache(c *StatusCache) *Handler {
	h.cache = c
	return h
}

// WithNotifier wires the deposit-received notification.
func (h *Handler) WithNotifier(n PaymentNotifier) *Handler {
	h.notifier = n
	return h
}

// WithMetrics wires prometheus counters.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

// WithDefaultRedirects sets the success and cancel URLs used when the request
// omits them. The success URL keeps Stripe's {CHECKOUT_SESSION_ID} placeholder.
func (h *Handler) WithDefaultRedirects(successURL, cancelURL string) *Handler {
	h.defaultSuccessURL = successURL
	h.defaultCancelURL = cancelURL
	return h
}

// WithMaxUnits overrides the unit clamp (default 50).
func (h *Handler) WithMaxUnits(n int) *Handler {
	if n > 0 {
		h.maxUnits = n
	}
	return h
}

type checkoutRequest struct {
	ServicePackage string `json:"service_package"`
	CustomerEmail  string `json:"customer_email"`
	CustomerName   string `json:"customer_name"`
	Units          int    `json:"units"`
	SuccessURL     string `json:"success_url"`
	CancelURL      string `json:"cancel_url"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckout handles POST /api/payments/checkout.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.Contains(req.CustomerEmail, "@") {
		writeDetail(w, http.StatusUnprocessableEntity, "a valid customer email is required")
		return
	}
	if req.SuccessURL == "" {
		req.SuccessURL = h.defaultSuccessURL
	}
	if req.CancelURL == "" {
		req.CancelURL = h.defaultCancelURL
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "success_url and cancel_url are required")
		return
	}

	svc, err := h.catalog.Get(r.Context(), req.ServicePackage)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			writeDetail(w, http.StatusUnprocessableEntity, "unknown service package")
			return
		}
		h.logger.Error("service lookup failed", "error", err, "service", req.ServicePackage)
		writeDetail(w, http.StatusInternalServerError, "Payment setup failed. Please try again.")
		return
	}

	// The catalog, not the client, decides what a service costs.
	if svc.VariablePricing {
		writeDetail(w, http.StatusUnprocessableEntity,
			"This service requires a consultation before payment. Please book a consultation first.")
		return
	}
	if svc.Complimentary() {
		writeDetail(w, http.StatusUnprocessableEntity,
			"This service is complimentary and does not require payment.")
		return
	}

	units := clampUnits(req.Units, h.maxUnits)
	if !svc.UnitBased {
		units = 1
	}
	amountCents := int64(math.Round(svc.Price * 100))

	payment := &Payment{
		ID:             uuid.NewString(),
		ServicePackage: req.ServicePackage,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		Units:          units,
		AmountCents:    amountCents * int64(units),
		Currency:       "usd",
	}

	session, err := h.stripe.CreateCheckoutSession(r.Context(), SessionParams{
		AmountCents:   amountCents,
		Quantity:      units,
		Description:   svc.Name,
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		Metadata: map[string]string{
			"service_package": req.ServicePackage,
			"units":           fmt.Sprintf("%d", units),
		},
	})
	if err != nil {
		h.logger.Error("stripe checkout failed", "error", err, "service", req.ServicePackage)
		h.metrics.ObserveCheckout("failed")
		writeDetail(w, http.StatusBadGateway, "Payment setup failed. Please try again.")
		return
	}

	payment.SessionID = session.SessionID
	if err := h.repo.CreatePending(r.Context(), payment); err != nil {
		// The session exists at Stripe; losing our row degrades reporting
		// but must not block the customer from paying.
		h.logger.Error("failed to persist payment", "error", err, "session_id", session.SessionID)
	}

	h.logger.Info("checkout session created",
		"session_id", session.SessionID,
		"service", req.ServicePackage,
		"units", units,
		"amount_cents", payment.AmountCents,
	)
	h.metrics.ObserveCheckout("created")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(checkoutResponse{CheckoutURL: session.CheckoutURL})
}

// GetCheckoutStatus handles GET /api/payments/checkout/status/{sessionID}.
func (h *Handler) GetCheckoutStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if sessionID == "" {
		writeDetail(w, http.StatusBadRequest, "missing session id")
		return
	}

	if cached := h.cache.Get(r.Context(), sessionID); cached != nil {
		h.metrics.ObserveStatusCheck(cached.PaymentStatus, "cache")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cached)
		return
	}

	status, err := h.stripe.GetCheckoutStatus(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("stripe status lookup failed", "error", err, "session_id", sessionID)
		h.metrics.ObserveStatusCheck("error", "stripe")
		writeDetail(w, http.StatusBadGateway, "failed to check payment status")
		return
	}

	h.cache.Put(r.Context(), status)
	h.metrics.ObserveStatusCheck(status.PaymentStatus, "stripe")

	switch {
	case status.Paid():
		h.settle(r.Context(), status)
	case status.Expired():
		if err := h.repo.MarkExpired(r.Context(), sessionID); err != nil {
			h.logger.Error("failed to mark payment expired", "error", err, "session_id", sessionID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// settle records the paid transition and fires the one-shot operator
// notification.
func (h *Handler) settle(ctx context.Context, status *SessionStatus) {
	transitioned, err := h.repo.MarkPaid(ctx, status.SessionID, status.AmountTotal, status.Currency)
	if err != nil {
		h.logger.Error("failed to mark payment paid", "error", err, "session_id", status.SessionID)
		return
	}
	if !transitioned {
		return
	}

	h.logger.Info("payment settled", "session_id", status.SessionID, "amount_cents", status.AmountTotal)

	if h.notifier == nil {
		return
	}
	payment, err := h.repo.GetBySessionID(ctx, status.SessionID)
	if err != nil {
		h.logger.Error("failed to load payment for notification", "error", err, "session_id", status.SessionID)
		return
	}
	if err := h.notifier.PaymentReceived(ctx, payment); err != nil {
		h.logger.Error("payment notification failed", "error", err, "session_id", status.SessionID)
	}
}

func clampUnits(units, max int) int {
	if units < 1 {
		return 1
	}
	if units > max {
		return max
	}
	return units
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
