package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("expected request %d within burst to pass", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("expected request over burst to be rejected")
	}
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("first ip should pass")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("second ip should have its own bucket")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("first ip should be exhausted")
	}
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	mw := RateLimit(1, 1)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.7")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}
