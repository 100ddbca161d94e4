package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/snatchedbeauties/booking-platform/internal/observability/metrics"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// CouponNotifier delivers the issued coupon to the lead by email.
type CouponNotifier interface {
	LeadCoupon(ctx context.Context, lead *Lead) error
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo     Repository
	notifier CouponNotifier
	metrics  *metrics.Metrics
	logger   *logging.Logger

	discount string
	validity time.Duration
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, discount string, validity time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if discount == "" {
		discount = "15%"
	}
	if validity <= 0 {
		validity = 30 * 24 * time.Hour
	}
	return &Handler{
		repo:     repo,
		logger:   logger,
		discount: discount,
		validity: validity,
	}
}

// WithNotifier wires coupon email delivery.
func (h *Handler) WithNotifier(n CouponNotifier) *Handler {
	h.notifier = n
	return h
}

// WithMetrics wires prometheus counters.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

// couponResponse mirrors the shape the landing page consumes (camelCase).
type couponResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	CouponCode string `json:"couponCode"`
	Discount   string `json:"discount"`
	ExpiresAt  string `json:"expiresAt,omitempty"`
	Message    string `json:"message"`
}

// CreateLead handles POST /api/leads. Resubmitting a known email returns the
// existing coupon instead of minting a second one.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if existing, err := h.repo.GetByEmail(r.Context(), req.Email); err == nil {
		h.metrics.ObserveLead("returning")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(couponResponse{
			ID:         existing.ID,
			Email:      existing.Email,
			Name:       existing.Name,
			CouponCode: existing.CouponCode,
			Discount:   existing.Discount,
			Message:    "Welcome back! Here's your existing coupon.",
		})
		return
	} else if err != ErrLeadNotFound {
		h.logger.Error("lead lookup failed", "error", err, "email", req.Email)
		writeDetail(w, http.StatusInternalServerError, "failed to create lead")
		return
	}

	lead := NewLead(&req, h.discount, h.validity)
	if err := h.repo.Create(r.Context(), lead); err != nil {
		h.logger.Error("failed to create lead", "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to create lead")
		return
	}

	h.logger.Info("lead created", "id", lead.ID, "email", lead.Email, "coupon", lead.CouponCode)
	h.metrics.ObserveLead("new")

	if h.notifier != nil {
		if err := h.notifier.LeadCoupon(r.Context(), lead); err != nil {
			// Coupon delivery is best effort; the code is in the response.
			h.logger.Error("coupon email failed", "error", err, "email", lead.Email)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(couponResponse{
		ID:         lead.ID,
		Email:      lead.Email,
		Name:       lead.Name,
		CouponCode: lead.CouponCode,
		Discount:   lead.Discount,
		ExpiresAt:  lead.ExpiresAt.Format(time.RFC3339),
		Message:    "Success! Here's your exclusive discount code.",
	})
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads []*Lead `json:"leads"`
	Total int     `json:"total"`
}

// ListLeads handles GET /api/leads (admin only).
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListLeadsResponse{Leads: all, Total: len(all)})
}

// GetStats handles GET /api/leads/stats (admin only).
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Stats(r.Context(), 7*24*time.Hour)
	if err != nil {
		h.logger.Error("failed to aggregate lead stats", "error", err)
		writeDetail(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// writeDetail writes the {"detail": ...} error body the site's frontend
// expects.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
