package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type allowAllServices struct{}

func (allowAllServices) Exists(context.Context, string) bool { return true }

type denyAllServices struct{}

func (denyAllServices) Exists(context.Context, string) bool { return false }

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		ServicePackage: "ultrasonic_cavitation",
		PreferredDate:  "2026-06-15",
		PreferredTime:  "2:00 PM",
		CustomerName:   "Dana Cruz",
		CustomerEmail:  "dana@example.com",
		CustomerPhone:  "+13235551234",
	}
}

func newTestHandler(repo Repository, services ServiceLookup) *Handler {
	h := NewHandler(repo, services, nil)
	h.now = func() time.Time {
		return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return h
}

func postBooking(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	h.CreateBooking(w, req)
	return w
}

func TestCreateBooking_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	h := newTestHandler(repo, allowAllServices{})

	w := postBooking(t, h, validRequest())

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp createResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.BookingID == "" {
		t.Fatal("expected booking_id in response")
	}
	if resp.Message == "" {
		t.Error("expected confirmation message")
	}

	stored, err := repo.GetByID(t.Context(), resp.BookingID)
	if err != nil {
		t.Fatalf("expected booking persisted: %v", err)
	}
	if stored.Status != StatusPending {
		t.Errorf("expected pending status, got %q", stored.Status)
	}
	if stored.CustomerEmail != "dana@example.com" {
		t.Errorf("unexpected stored email %q", stored.CustomerEmail)
	}
}

func TestCreateBooking_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
		detail string
	}{
		{"missing name", func(r *CreateBookingRequest) { r.CustomerName = "" }, ErrMissingName.Error()},
		{"missing email", func(r *CreateBookingRequest) { r.CustomerEmail = "" }, ErrInvalidEmail.Error()},
		{"email without at", func(r *CreateBookingRequest) { r.CustomerEmail = "dana.example.com" }, ErrInvalidEmail.Error()},
		{"missing date", func(r *CreateBookingRequest) { r.PreferredDate = "" }, ErrInvalidDate.Error()},
		{"date in past", func(r *CreateBookingRequest) { r.PreferredDate = "2026-05-31" }, ErrDateInPast.Error()},
		{"missing time", func(r *CreateBookingRequest) { r.PreferredTime = "" }, ErrInvalidTimeSlot.Error()},
		{"off-menu time", func(r *CreateBookingRequest) { r.PreferredTime = "7:30 PM" }, ErrInvalidTimeSlot.Error()},
		{"missing service", func(r *CreateBookingRequest) { r.ServicePackage = "" }, ErrMissingService.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewInMemoryRepository()
			h := newTestHandler(repo, allowAllServices{})

			req := validRequest()
			tt.mutate(&req)
			w := postBooking(t, h, req)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
			}
			var errBody map[string]string
			json.NewDecoder(w.Body).Decode(&errBody)
			if errBody["detail"] != tt.detail {
				t.Errorf("expected detail %q, got %q", tt.detail, errBody["detail"])
			}
		})
	}
}

func TestCreateBooking_DateTodayAllowed(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository(), allowAllServices{})

	req := validRequest()
	req.PreferredDate = "2026-06-01"
	w := postBooking(t, h, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected same-day booking to be accepted, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateBooking_UnknownService(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository(), denyAllServices{})

	w := postBooking(t, h, validRequest())

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
	}
}

type recordingNotifier struct {
	got []*Booking
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *Booking) error {
	n.got = append(n.got, b)
	return nil
}

func TestCreateBooking_Notifies(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository(), allowAllServices{})
	notifier := &recordingNotifier{}
	h.WithNotifier(notifier)

	postBooking(t, h, validRequest())

	if len(notifier.got) != 1 {
		t.Fatalf("expected 1 confirmation, got %d", len(notifier.got))
	}
}

func TestCreateBooking_InvalidRequestDoesNotNotify(t *testing.T) {
	h := newTestHandler(NewInMemoryRepository(), allowAllServices{})
	notifier := &recordingNotifier{}
	h.WithNotifier(notifier)

	req := validRequest()
	req.CustomerName = ""
	postBooking(t, h, req)

	if len(notifier.got) != 0 {
		t.Fatalf("expected no confirmation, got %d", len(notifier.got))
	}
}
