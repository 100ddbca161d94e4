package flow

import (
	"context"
	"errors"
	"testing"
)

func TestLeadCaptureRequiresEmail(t *testing.T) {
	client := &fakeClient{}
	lc := NewLeadCapture(client, "SNATCHED15", "15%", nil)

	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := lc.Submit(context.Background(), LeadRequest{Email: email}); !errors.Is(err, ErrEmailRequired) {
			t.Errorf("email %q: expected ErrEmailRequired, got %v", email, err)
		}
	}
	if len(client.leadRequests) != 0 {
		t.Errorf("expected no API calls for invalid email, got %d", len(client.leadRequests))
	}
}

func TestLeadCaptureReturnsServerCoupon(t *testing.T) {
	client := &fakeClient{leadResp: &LeadCoupon{
		CouponCode: "SNATCH-A1B2C3",
		Discount:   "15%",
		Message:    "Success! Here's your exclusive discount code.",
	}}
	lc := NewLeadCapture(client, "SNATCHED15", "15%", nil)

	coupon, err := lc.Submit(context.Background(), LeadRequest{Email: "jo@example.com", Name: "Jo"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if coupon.CouponCode != "SNATCH-A1B2C3" {
		t.Errorf("unexpected coupon %q", coupon.CouponCode)
	}
	if client.leadRequests[0].Email != "jo@example.com" {
		t.Errorf("unexpected lead email %q", client.leadRequests[0].Email)
	}
}

func TestLeadCaptureFallbackCoupon(t *testing.T) {
	client := &fakeClient{leadErr: errors.New("api unreachable")}
	lc := NewLeadCapture(client, "SNATCHED15", "15%", nil)

	coupon, err := lc.Submit(context.Background(), LeadRequest{Email: "jo@example.com"})
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if coupon.CouponCode != "SNATCHED15" || coupon.Discount != "15%" {
		t.Errorf("unexpected fallback coupon %+v", coupon)
	}
}

func TestLeadCaptureNoFallbackSurfacesError(t *testing.T) {
	apiErr := errors.New("api unreachable")
	client := &fakeClient{leadErr: apiErr}
	lc := NewLeadCapture(client, "", "15%", nil)

	if _, err := lc.Submit(context.Background(), LeadRequest{Email: "jo@example.com"}); !errors.Is(err, apiErr) {
		t.Errorf("expected API error surfaced, got %v", err)
	}
}
