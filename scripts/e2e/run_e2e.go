// Package main runs E2E tests of the customer booking journey against a
// running API server.
//
// Scenarios cover:
//   - Service catalog contents and pricing flags
//   - Lead capture coupon issuance
//   - Lead email validation
//   - Three step booking wizard happy path
//   - Checkout handoff plus payment status polling
//   - Server-side rejection of unpayable services
//
// The checkout-and-poll scenario only settles when the server runs with
// STRIPE_DRY_RUN=true; against live Stripe keys it reports a pending
// timeout, which is expected without a real card.
//
// Usage:
//
//	API_BASE_URL=http://localhost:8000 go run scripts/e2e/run_e2e.go             # runs all
//	API_BASE_URL=http://localhost:8000 go run scripts/e2e/run_e2e.go lead-coupon # runs one
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	appconfig "github.com/snatchedbeauties/booking-platform/internal/config"
	"github.com/snatchedbeauties/booking-platform/internal/flow"
	"github.com/snatchedbeauties/booking-platform/internal/flow/apiclient"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

const pollInterval = 500 * time.Millisecond

var (
	client *apiclient.Client
	logger *logging.Logger
	cfg    *appconfig.Config
)

// ---------------------------------------------------------------------------
// Scenario definition
// ---------------------------------------------------------------------------

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testEmail() string {
	return fmt.Sprintf("e2e-%d@snatchedbeauties.test", time.Now().UnixNano())
}

// newWizard builds a wizard configured the way the site runs it: redirect and
// scheduler URLs come from the same env config the server reads.
func newWizard() *flow.Wizard {
	return flow.NewWizard(client, logger,
		flow.WithSchedulerURL(cfg.SchedulerFallURL),
		flow.WithRedirectURLs(successURL(), cancelURL()))
}

func successURL() string {
	if cfg.SuccessURL != "" {
		return cfg.SuccessURL
	}
	return strings.TrimRight(cfg.PublicBaseURL, "/") + "/payment-success?session_id={CHECKOUT_SESSION_ID}"
}

func cancelURL() string {
	if cfg.CancelURL != "" {
		return cfg.CancelURL
	}
	return strings.TrimRight(cfg.PublicBaseURL, "/") + "/payment-cancelled"
}

// readyWizard builds a wizard advanced to the payment handoff step for the
// fat dissolve injection service at 3 units.
func readyWizard(ctx context.Context, t *T) *flow.Wizard {
	services, err := client.ListServices(ctx)
	if err != nil {
		t.fatalf("list services: %v", err)
		return nil
	}
	svc, ok := services["fat_dissolve_injections"]
	if !ok {
		t.fatalf("fat_dissolve_injections missing from catalog")
		return nil
	}

	w := newWizard()
	w.SelectService(svc)
	w.SetUnits(3)
	if err := w.Next(); err != nil {
		t.fatalf("advance to details: %v", err)
		return nil
	}
	w.SetCustomer("E2E Runner", testEmail(), "+15005550006")
	w.SetSchedule("2099-06-15", "10:00 AM")
	if _, err := w.SubmitDetails(ctx); err != nil {
		t.fatalf("submit details: %v", err)
		return nil
	}
	return w
}

// sessionIDFromURL pulls the checkout session ID out of a checkout URL.
// Dry-run URLs end with the session ID as the last path segment.
func sessionIDFromURL(checkoutURL string) string {
	parts := strings.Split(strings.TrimRight(checkoutURL, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	if strings.HasPrefix(last, "cs_") {
		return last
	}
	return ""
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func scenarioServiceCatalog(t *T) {
	ctx := context.Background()
	services, err := client.ListServices(ctx)
	if err != nil {
		t.fatalf("list services: %v", err)
		return
	}

	t.check("catalog is non-empty", len(services) > 0)

	cav, ok := services["ultrasonic_cavitation"]
	t.check("ultrasonic_cavitation present", ok)
	if ok {
		t.check("ultrasonic_cavitation is flat priced", !cav.UnitBased && !cav.VariablePricing && cav.Price > 0)
	}

	fat, ok := services["fat_dissolve_injections"]
	t.check("fat_dissolve_injections present", ok)
	if ok {
		t.check("fat_dissolve_injections is unit based", fat.UnitBased)
	}

	wl, ok := services["weight_loss_program"]
	t.check("weight_loss_program present", ok)
	if ok {
		t.check("weight_loss_program requires consultation", wl.VariablePricing)
	}

	consult, ok := services["consultation"]
	t.check("consultation present", ok)
	if ok {
		t.check("consultation is complimentary", consult.Complimentary())
	}
}

func scenarioLeadCoupon(t *T) {
	ctx := context.Background()
	capture := flow.NewLeadCapture(client, "", cfg.CouponDiscount, logger)

	coupon, err := capture.Submit(ctx, flow.LeadRequest{
		Email: testEmail(),
		Name:  "E2E Lead",
	})
	if err != nil {
		t.fatalf("capture lead: %v", err)
		return
	}

	t.check("coupon code issued", coupon.CouponCode != "")
	t.check("coupon code has SNATCH prefix", strings.HasPrefix(coupon.CouponCode, "SNATCH-"))
	t.check("discount matches configuration", coupon.Discount == cfg.CouponDiscount)
}

func scenarioLeadDedupe(t *T) {
	ctx := context.Background()
	capture := flow.NewLeadCapture(client, "", cfg.CouponDiscount, logger)
	email := testEmail()

	first, err := capture.Submit(ctx, flow.LeadRequest{Email: email, Name: "E2E Lead"})
	if err != nil {
		t.fatalf("first capture: %v", err)
		return
	}
	second, err := capture.Submit(ctx, flow.LeadRequest{Email: email, Name: "E2E Lead"})
	if err != nil {
		t.fatalf("second capture: %v", err)
		return
	}

	t.check("repeat capture returns the same coupon", first.CouponCode == second.CouponCode)
	t.check("repeat capture is greeted as returning", strings.Contains(second.Message, "Welcome back"))
}

func scenarioLeadEmailValidation(t *T) {
	ctx := context.Background()
	capture := flow.NewLeadCapture(client, cfg.FallbackCoupon, cfg.CouponDiscount, logger)

	_, err := capture.Submit(ctx, flow.LeadRequest{Email: "not-an-email"})
	t.check("bad email rejected client side", errors.Is(err, flow.ErrEmailRequired))
}

func scenarioBookingWizard(t *T) {
	ctx := context.Background()
	services, err := client.ListServices(ctx)
	if err != nil {
		t.fatalf("list services: %v", err)
		return
	}
	svc, ok := services["fat_dissolve_injections"]
	if !ok {
		t.fatalf("fat_dissolve_injections missing from catalog")
		return
	}

	w := newWizard()
	t.check("scheduler escape hatch configured", w.SchedulerURL() == cfg.SchedulerFallURL)
	t.check("wizard starts on service selection", w.Step() == flow.StepSelectService)

	w.SelectService(svc)
	w.SetUnits(3)
	t.check("unit total multiplies price", w.Total() == "$135")

	if err := w.Next(); err != nil {
		t.fatalf("advance to details: %v", err)
		return
	}

	// Submitting without schedule details must stay on step 2.
	w.SetCustomer("E2E Runner", testEmail(), "")
	_, err = w.SubmitDetails(ctx)
	t.check("missing date blocks submission", errors.Is(err, flow.ErrDateRequired))
	t.check("wizard stays on details after validation error", w.Step() == flow.StepCustomerDetails)

	w.SetSchedule("2099-06-15", "10:00 AM")
	conf, err := w.SubmitDetails(ctx)
	if err != nil {
		t.fatalf("submit details: %v", err)
		return
	}
	t.check("booking ID returned", conf.BookingID != "")
	t.check("confirmation message present", strings.Contains(conf.Message, "Booking created"))
	t.check("wizard reaches payment handoff", w.Step() == flow.StepPaymentHandoff)
}

func scenarioCheckoutAndPoll(t *T) {
	ctx := context.Background()
	w := readyWizard(ctx, t)
	if w == nil {
		return
	}

	checkoutURL, err := w.Pay(ctx)
	if err != nil {
		t.fatalf("create checkout: %v", err)
		return
	}
	t.check("checkout URL returned", strings.HasPrefix(checkoutURL, "https://"))

	sessionID := sessionIDFromURL(checkoutURL)
	if sessionID == "" {
		// Live Stripe URL; the session ID only arrives via the redirect.
		fmt.Println("    SKIP: session ID not recoverable from live checkout URL")
		return
	}

	poller := flow.NewPoller(client, logger).WithInterval(pollInterval)
	result, err := poller.Poll(ctx, sessionID)
	if err != nil {
		t.fatalf("poll: %v", err)
		return
	}

	t.check("poll reaches a terminal state", result.State != flow.PollError)
	t.check("dry-run session settles as paid", result.State == flow.PollSuccess)
	t.check("poll used at most five attempts", result.Attempts <= 5)
}

func scenarioUnpayableServices(t *T) {
	ctx := context.Background()

	_, err := client.CreateCheckout(ctx, flow.CheckoutRequest{
		ServicePackage: "weight_loss_program",
		CustomerEmail:  testEmail(),
		Units:          1,
		SuccessURL:     successURL(),
		CancelURL:      cancelURL(),
	})
	var apiErr *flow.APIError
	t.check("variable priced service rejected", errors.As(err, &apiErr))
	if apiErr != nil {
		t.check("rejection explains the consultation requirement", strings.Contains(apiErr.Detail, "consultation"))
		apiErr = nil
	}

	_, err = client.CreateCheckout(ctx, flow.CheckoutRequest{
		ServicePackage: "consultation",
		CustomerEmail:  testEmail(),
		Units:          1,
		SuccessURL:     successURL(),
		CancelURL:      cancelURL(),
	})
	t.check("complimentary service rejected", errors.As(err, &apiErr))
	if apiErr != nil {
		t.check("rejection names it complimentary", strings.Contains(apiErr.Detail, "complimentary"))
	}
}

func scenarioMissingSession(t *T) {
	ctx := context.Background()
	poller := flow.NewPoller(client, logger).WithInterval(pollInterval)

	result, err := poller.Poll(ctx, "")
	if err != nil {
		t.fatalf("poll: %v", err)
		return
	}
	t.check("empty session is a poll error", result.State == flow.PollError)
	t.check("message says no session found", result.Message == "No payment session found")
	t.check("no status requests made", result.Attempts == 0)
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	apiBase := os.Getenv("API_BASE_URL")
	if apiBase == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL required")
		os.Exit(1)
	}
	cfg = appconfig.Load()
	client = apiclient.New(apiBase)
	logger = logging.New("warn")

	scenarios := []scenario{
		{"service-catalog", scenarioServiceCatalog},
		{"lead-coupon", scenarioLeadCoupon},
		{"lead-dedupe", scenarioLeadDedupe},
		{"lead-email-validation", scenarioLeadEmailValidation},
		{"booking-wizard", scenarioBookingWizard},
		{"checkout-and-poll", scenarioCheckoutAndPoll},
		{"unpayable-services", scenarioUnpayableServices},
		{"missing-session", scenarioMissingSession},
	}

	// Filter by name if argument provided
	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0)

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "PASS"
		if t.failed > 0 {
			status = "FAIL"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		os.Exit(1)
	}
}
