package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	"github.com/snatchedbeauties/booking-platform/internal/payments"
)

type fakeClient struct {
	bookings     []BookingSubmission
	bookingResp  *BookingConfirmation
	bookingErr   error
	checkouts    []CheckoutRequest
	checkoutURL  string
	checkoutErr  error
	leadRequests []LeadRequest
	leadResp     *LeadCoupon
	leadErr      error
	statuses     []*payments.SessionStatus
	statusErr    error
	statusCalls  int
}

func (f *fakeClient) ListServices(ctx context.Context) (map[string]catalog.ServiceOffering, error) {
	return nil, nil
}

func (f *fakeClient) CaptureLead(ctx context.Context, req LeadRequest) (*LeadCoupon, error) {
	f.leadRequests = append(f.leadRequests, req)
	if f.leadErr != nil {
		return nil, f.leadErr
	}
	return f.leadResp, nil
}

func (f *fakeClient) CreateBooking(ctx context.Context, req BookingSubmission) (*BookingConfirmation, error) {
	f.bookings = append(f.bookings, req)
	if f.bookingErr != nil {
		return nil, f.bookingErr
	}
	if f.bookingResp != nil {
		return f.bookingResp, nil
	}
	return &BookingConfirmation{BookingID: "book-1", Message: "Booking created successfully! We'll contact you to confirm your appointment."}, nil
}

func (f *fakeClient) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	f.checkouts = append(f.checkouts, req)
	if f.checkoutErr != nil {
		return "", f.checkoutErr
	}
	if f.checkoutURL != "" {
		return f.checkoutURL, nil
	}
	return "https://pay.example/sess_1", nil
}

func (f *fakeClient) GetCheckoutStatus(ctx context.Context, sessionID string) (*payments.SessionStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return &payments.SessionStatus{SessionID: sessionID, Status: "open", PaymentStatus: "unpaid"}, nil
	}
	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return status, nil
}

func unitService() catalog.ServiceOffering {
	return catalog.ServiceOffering{
		ID:        "fat_dissolve_injections",
		Name:      "Fat Dissolve Injections",
		Price:     10,
		UnitBased: true,
	}
}

func flatService() catalog.ServiceOffering {
	return catalog.ServiceOffering{ID: "wood_therapy", Name: "Wood Therapy", Price: 110}
}

func TestNextRequiresServiceSelection(t *testing.T) {
	w := NewWizard(&fakeClient{}, nil)
	if err := w.Next(); !errors.Is(err, ErrNoServiceSelected) {
		t.Fatalf("expected ErrNoServiceSelected, got %v", err)
	}
	if w.Step() != StepSelectService {
		t.Errorf("expected to stay at step 1, got %d", w.Step())
	}

	w.SelectService(flatService())
	if err := w.Next(); err != nil {
		t.Fatalf("expected advance after selection, got %v", err)
	}
	if w.Step() != StepCustomerDetails {
		t.Errorf("expected step 2, got %d", w.Step())
	}
}

func TestUnitsIgnoredForFlatServices(t *testing.T) {
	w := NewWizard(&fakeClient{}, nil)
	w.SelectService(flatService())

	before := w.Total()
	w.SetUnits(7)
	if w.Units() != 1 {
		t.Errorf("expected units pinned to 1, got %d", w.Units())
	}
	if w.Total() != before {
		t.Errorf("total changed for a flat priced service: %q vs %q", before, w.Total())
	}
}

func TestUnitsClampedForUnitBasedServices(t *testing.T) {
	w := NewWizard(&fakeClient{}, nil)
	w.SelectService(unitService())

	w.SetUnits(0)
	if w.Units() != 1 {
		t.Errorf("expected floor of 1, got %d", w.Units())
	}
	w.SetUnits(500)
	if w.Units() != MaxUnits {
		t.Errorf("expected clamp to %d, got %d", MaxUnits, w.Units())
	}
}

func TestVariablePricingNeverShowsANumber(t *testing.T) {
	svc := catalog.ServiceOffering{ID: "weight_loss_program", VariablePricing: true}
	for _, units := range []int{1, 5, 50} {
		if got := Total(&svc, units); got != "Consultation Required" {
			t.Errorf("units=%d: expected consultation prompt, got %q", units, got)
		}
	}
}

func TestTotalDisplay(t *testing.T) {
	tests := []struct {
		name  string
		svc   catalog.ServiceOffering
		units int
		want  string
	}{
		{"unit based multiplies", unitService(), 3, "$30"},
		{"flat price ignores units", flatService(), 9, "$110"},
		{"complimentary", catalog.ServiceOffering{ID: "consultation", Price: 0}, 1, "Complimentary"},
		{"fractional price keeps cents", catalog.ServiceOffering{ID: "x", Price: 45.5, UnitBased: true}, 2, "$91"},
		{"fractional result shows cents", catalog.ServiceOffering{ID: "x", Price: 49.99}, 1, "$49.99"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(&tc.svc, tc.units); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBackPreservesEnteredData(t *testing.T) {
	w := NewWizard(&fakeClient{}, nil)
	w.SelectService(unitService())
	w.SetUnits(3)
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	w.SetCustomer("Jo", "jo@example.com", "555-0100")
	w.SetSchedule("2099-01-02", "10:00 AM")

	w.Back()
	if w.Step() != StepSelectService {
		t.Fatalf("expected step 1 after back, got %d", w.Step())
	}
	w.SelectService(unitService())
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	client := &fakeClient{}
	w.client = client
	if _, err := w.SubmitDetails(context.Background()); err != nil {
		t.Fatalf("expected preserved fields to submit cleanly, got %v", err)
	}
	got := client.bookings[0]
	if got.CustomerName != "Jo" || got.CustomerEmail != "jo@example.com" || got.PreferredDate != "2099-01-02" {
		t.Errorf("expected preserved details in submission, got %+v", got)
	}
}

func TestSubmitDetailsValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *Wizard)
		wantErr error
	}{
		{"missing name", func(w *Wizard) { w.SetCustomer("", "jo@example.com", "") }, ErrNameRequired},
		{"bad email", func(w *Wizard) { w.SetCustomer("Jo", "not-an-email", "") }, ErrEmailRequired},
		{"missing date", func(w *Wizard) { w.SetSchedule("", "10:00 AM") }, ErrDateRequired},
		{"missing time", func(w *Wizard) { w.SetSchedule("2099-01-02", "") }, ErrTimeRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{}
			w := NewWizard(client, nil)
			w.SelectService(unitService())
			if err := w.Next(); err != nil {
				t.Fatal(err)
			}
			w.SetCustomer("Jo", "jo@example.com", "")
			w.SetSchedule("2099-01-02", "10:00 AM")
			tc.mutate(w)

			if _, err := w.SubmitDetails(context.Background()); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(client.bookings) != 0 {
				t.Error("booking call must not happen on validation failure")
			}
			if w.Step() != StepCustomerDetails {
				t.Errorf("wizard must stay at step 2, got %d", w.Step())
			}
		})
	}
}

func TestSubmitDetailsSurfacesServerDetail(t *testing.T) {
	client := &fakeClient{bookingErr: &APIError{StatusCode: 422, Detail: "unknown service package"}}
	w := NewWizard(client, nil)
	w.SelectService(unitService())
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	w.SetCustomer("Jo", "jo@example.com", "")
	w.SetSchedule("2099-01-02", "10:00 AM")

	_, err := w.SubmitDetails(context.Background())
	if err == nil || err.Error() != "unknown service package" {
		t.Errorf("expected server detail surfaced, got %v", err)
	}
	if w.Step() != StepCustomerDetails {
		t.Errorf("wizard must not advance on failure, got step %d", w.Step())
	}
}

func TestSubmitDetailsGenericFallbackMessage(t *testing.T) {
	client := &fakeClient{bookingErr: errors.New("connection refused")}
	w := NewWizard(client, nil)
	w.SelectService(unitService())
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	w.SetCustomer("Jo", "jo@example.com", "")
	w.SetSchedule("2099-01-02", "10:00 AM")

	_, err := w.SubmitDetails(context.Background())
	if err == nil || err.Error() != "Booking failed. Please try again." {
		t.Errorf("expected generic fallback, got %v", err)
	}
}

func TestResetClearsDraft(t *testing.T) {
	w := NewWizard(&fakeClient{}, nil)
	w.SelectService(unitService())
	w.SetUnits(4)
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	w.SetCustomer("Jo", "jo@example.com", "")
	w.SetSchedule("2099-01-02", "10:00 AM")

	w.Reset()
	if w.Step() != StepSelectService {
		t.Errorf("expected step 1 after reset, got %d", w.Step())
	}
	if w.Service() != nil || w.Units() != 1 || w.BookingID() != "" {
		t.Error("expected draft cleared after reset")
	}
}

func TestSchedulerEscapeHatchLeavesDraftUntouched(t *testing.T) {
	w := NewWizard(&fakeClient{}, nil, WithSchedulerURL("https://calendly.com/info-o6c"))
	w.SelectService(unitService())
	w.SetUnits(3)

	if got := w.SchedulerURL(); got != "https://calendly.com/info-o6c" {
		t.Errorf("unexpected scheduler url %q", got)
	}
	if w.Service() == nil || w.Units() != 3 || w.Step() != StepSelectService {
		t.Error("escape hatch must not alter the draft")
	}
}

// End to end: unit based service at $10/unit, three units, through payment
// hand off.
func TestWizardEndToEnd(t *testing.T) {
	client := &fakeClient{checkoutURL: "https://pay.example/sess_1"}
	w := NewWizard(client, nil, WithRedirectURLs(
		"https://snatchedbeauties.com/payment-success?session_id={CHECKOUT_SESSION_ID}",
		"https://snatchedbeauties.com/#booking",
	))

	w.SelectService(unitService())
	w.SetUnits(3)
	if got := w.Total(); got != "$30" {
		t.Fatalf("expected total $30, got %q", got)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}

	w.SetCustomer("Amy B", "a@b.com", "")
	w.SetSchedule("2099-01-02", "10:00 AM")
	conf, err := w.SubmitDetails(context.Background())
	if err != nil {
		t.Fatalf("SubmitDetails failed: %v", err)
	}
	if w.Step() != StepPaymentHandoff {
		t.Fatalf("expected step 3, got %d", w.Step())
	}
	if conf.BookingID == "" || w.BookingID() != conf.BookingID {
		t.Errorf("expected booking id recorded, got %q", w.BookingID())
	}
	sub := client.bookings[0]
	if sub.CustomerName != "Amy B" || sub.CustomerEmail != "a@b.com" ||
		sub.PreferredDate != "2099-01-02" || sub.PreferredTime != "10:00 AM" ||
		sub.ServicePackage != "fat_dissolve_injections" {
		t.Errorf("booking called with wrong fields: %+v", sub)
	}

	url, err := w.Pay(context.Background())
	if err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	if url != "https://pay.example/sess_1" {
		t.Errorf("unexpected checkout url %q", url)
	}
	co := client.checkouts[0]
	if co.Units != 3 {
		t.Errorf("expected checkout units 3, got %d", co.Units)
	}
	if co.CustomerEmail != "a@b.com" {
		t.Errorf("unexpected checkout email %q", co.CustomerEmail)
	}
	if co.SuccessURL != "https://snatchedbeauties.com/payment-success?session_id={CHECKOUT_SESSION_ID}" {
		t.Errorf("expected templated success url, got %q", co.SuccessURL)
	}
}

func TestPayFailureKeepsPaymentStep(t *testing.T) {
	client := &fakeClient{checkoutErr: errors.New("upstream down")}
	w := NewWizard(client, nil)
	w.SelectService(flatService())
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	w.SetCustomer("Jo", "jo@example.com", "")
	w.SetSchedule("2099-01-02", "10:00 AM")
	if _, err := w.SubmitDetails(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := w.Pay(context.Background())
	if err == nil || err.Error() != "Payment setup failed. Please try again." {
		t.Errorf("expected payment fallback message, got %v", err)
	}
	if w.Step() != StepPaymentHandoff {
		t.Errorf("expected to stay at step 3 for retry, got %d", w.Step())
	}
}
