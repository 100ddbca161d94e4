package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateCheckoutSession_SendsFormEncodedRequest(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc","url":"https://checkout.stripe.com/pay/cs_test_abc","status":"open","payment_status":"unpaid"}`))
	}))
	defer server.Close()

	svc := NewStripeService("sk_test_secret", nil).WithBaseURL(server.URL)
	session, err := svc.CreateCheckoutSession(context.Background(), SessionParams{
		AmountCents:   4500,
		Quantity:      3,
		Description:   "Fat Dissolve Injections",
		CustomerEmail: "jo@example.com",
		SuccessURL:    "https://snatchedbeauties.com/confirm?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "https://snatchedbeauties.com/book",
		Metadata:      map[string]string{"service_package": "fat_dissolve_injections"},
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession failed: %v", err)
	}

	if session.SessionID != "cs_test_abc" {
		t.Errorf("unexpected session id %q", session.SessionID)
	}
	if session.CheckoutURL != "https://checkout.stripe.com/pay/cs_test_abc" {
		t.Errorf("unexpected checkout url %q", session.CheckoutURL)
	}
	if gotPath != "/v1/checkout/sessions" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer sk_test_secret" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "application/x-www-form-urlencoded") {
		t.Errorf("unexpected content type %q", gotContentType)
	}

	expect := map[string]string{
		"mode":                                          "payment",
		"line_items[0][price_data][currency]":           "usd",
		"line_items[0][price_data][unit_amount]":        "4500",
		"line_items[0][price_data][product_data][name]": "Fat Dissolve Injections",
		"line_items[0][quantity]":                       "3",
		"success_url":                                   "https://snatchedbeauties.com/confirm?session_id={CHECKOUT_SESSION_ID}",
		"cancel_url":                                    "https://snatchedbeauties.com/book",
		"customer_email":                                "jo@example.com",
		"metadata[service_package]":                     "fat_dissolve_injections",
	}
	for key, want := range expect {
		if got := gotForm[key]; len(got) != 1 || got[0] != want {
			t.Errorf("form field %q: expected %q, got %v", key, want, got)
		}
	}
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	}))
	defer server.Close()

	svc := NewStripeService("sk_bad", nil).WithBaseURL(server.URL)
	_, err := svc.CreateCheckoutSession(context.Background(), SessionParams{AmountCents: 100, Quantity: 1})
	if err == nil {
		t.Fatal("expected error on 401 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestCreateCheckoutSession_MissingURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_no_url","status":"open"}`))
	}))
	defer server.Close()

	svc := NewStripeService("sk_test", nil).WithBaseURL(server.URL)
	_, err := svc.CreateCheckoutSession(context.Background(), SessionParams{AmountCents: 100, Quantity: 1})
	if err == nil {
		t.Fatal("expected error when response has no checkout url")
	}
}

func TestGetCheckoutStatus_ParsesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_test_abc" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %q", r.Method)
		}
		w.Write([]byte(`{
			"id": "cs_test_abc",
			"status": "complete",
			"payment_status": "paid",
			"amount_total": 13500,
			"currency": "usd",
			"metadata": {"service_package": "fat_dissolve_injections", "units": "3"}
		}`))
	}))
	defer server.Close()

	svc := NewStripeService("sk_test", nil).WithBaseURL(server.URL)
	status, err := svc.GetCheckoutStatus(context.Background(), "cs_test_abc")
	if err != nil {
		t.Fatalf("GetCheckoutStatus failed: %v", err)
	}
	if !status.Paid() || status.Expired() {
		t.Errorf("expected paid terminal status, got %+v", status)
	}
	if status.AmountTotal != 13500 || status.Currency != "usd" {
		t.Errorf("unexpected totals in %+v", status)
	}
	if status.Metadata["units"] != "3" {
		t.Errorf("expected units metadata, got %v", status.Metadata)
	}
}

func TestDryRunSkipsNetwork(t *testing.T) {
	svc := NewStripeService("", nil).WithDryRun(true).WithBaseURL("http://127.0.0.1:0")

	session, err := svc.CreateCheckoutSession(context.Background(), SessionParams{AmountCents: 500, Quantity: 1})
	if err != nil {
		t.Fatalf("dry run create failed: %v", err)
	}
	if !strings.HasPrefix(session.SessionID, "cs_dryrun_") {
		t.Errorf("unexpected dry run session id %q", session.SessionID)
	}

	status, err := svc.GetCheckoutStatus(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("dry run status failed: %v", err)
	}
	if !status.Paid() {
		t.Errorf("expected dry run status paid, got %+v", status)
	}
}
