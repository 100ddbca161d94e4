package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snatchedbeauties/booking-platform/internal/observability/metrics"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// ConfirmationNotifier emails the customer after a booking is created.
type ConfirmationNotifier interface {
	BookingCreated(ctx context.Context, b *Booking) error
}

// ServiceLookup checks that the requested service exists in the catalog.
type ServiceLookup interface {
	Exists(ctx context.Context, serviceID string) bool
}

// Handler handles HTTP requests for bookings
type Handler struct {
	repo     Repository
	services ServiceLookup
	notifier ConfirmationNotifier
	metrics  *metrics.Metrics
	logger   *logging.Logger

	// now is swapped in tests to pin date validation.
	now func() time.Time
}

// NewHandler creates a new bookings handler
func NewHandler(repo Repository, services ServiceLookup, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		services: services,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNotifier wires confirmation email delivery.
func (h *Handler) WithNotifier(n ConfirmationNotifier) *Handler {
	h.notifier = n
	return h
}

// WithMetrics wires prometheus counters.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

type createResponse struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(h.now().UTC()); err != nil {
		h.metrics.ObserveBooking("rejected")
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if h.services != nil && !h.services.Exists(r.Context(), req.ServicePackage) {
		h.metrics.ObserveBooking("rejected")
		writeDetail(w, http.StatusUnprocessableEntity, "unknown service package")
		return
	}

	booking := NewBooking(&req)
	if err := h.repo.Create(r.Context(), booking); err != nil {
		h.logger.Error("failed to create booking", "error", err)
		h.metrics.ObserveBooking("error")
		writeDetail(w, http.StatusInternalServerError, "Booking failed. Please try again.")
		return
	}

	h.logger.Info("booking created",
		"booking_id", booking.ID,
		"service", booking.ServicePackage,
		"date", booking.PreferredDate,
		"time", booking.PreferredTime,
	)
	h.metrics.ObserveBooking("created")

	if h.notifier != nil {
		if err := h.notifier.BookingCreated(r.Context(), booking); err != nil {
			// The booking stands even if the confirmation email bounces.
			h.logger.Error("booking confirmation email failed", "error", err, "booking_id", booking.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(createResponse{
		BookingID: booking.ID,
		Message:   "Booking created successfully! We'll contact you to confirm your appointment.",
	})
}

// GetBooking handles GET /api/bookings/{bookingID} (admin only).
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	if bookingID == "" {
		writeDetail(w, http.StatusBadRequest, "missing booking id")
		return
	}

	booking, err := h.repo.GetByID(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			writeDetail(w, http.StatusNotFound, "booking not found")
			return
		}
		h.logger.Error("failed to load booking", "error", err, "booking_id", bookingID)
		writeDetail(w, http.StatusInternalServerError, "failed to load booking")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
