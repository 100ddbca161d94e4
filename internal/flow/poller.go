package flow

import (
	"context"
	"time"

	"github.com/snatchedbeauties/booking-platform/internal/payments"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// PollState is a terminal outcome of the payment confirmation poll.
type PollState string

// Poll outcomes.
const (
	PollSuccess PollState = "success"
	PollExpired PollState = "expired"
	PollTimeout PollState = "timeout"
	PollError   PollState = "error"
)

// Messages shown on the confirmation page for each non-success outcome.
const (
	msgNoSession = "No payment session found"
	msgExpired   = "Payment session expired. Please try booking again."
	msgTimeout   = "Payment status check timed out. Please contact support if payment was completed."
	msgError     = "Error checking payment status. Please contact support."
)

// PollResult is what the confirmation page renders.
type PollResult struct {
	State    PollState
	Message  string
	Status   *payments.SessionStatus
	Attempts int
}

// Poller checks a checkout session's status after the customer returns from
// Stripe: a fixed number of attempts at a flat interval, then give up. The
// cap bounds how long the customer stares at a spinner; typical settlement
// lands well inside it.
type Poller struct {
	client      Client
	logger      *logging.Logger
	maxAttempts int
	interval    time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller with the standard 5 attempts at 2 second
// intervals.
func NewPoller(client Client, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.Default()
	}
	return &Poller{
		client:      client,
		logger:      logger,
		maxAttempts: 5,
		interval:    2 * time.Second,
		sleep:       sleepCtx,
	}
}

// WithMaxAttempts overrides the attempt cap.
func (p *Poller) WithMaxAttempts(n int) *Poller {
	if n > 0 {
		p.maxAttempts = n
	}
	return p
}

// WithInterval overrides the wait between attempts.
func (p *Poller) WithInterval(d time.Duration) *Poller {
	if d > 0 {
		p.interval = d
	}
	return p
}

// WithSleep swaps the waiting function. Tests inject a fake clock here.
func (p *Poller) WithSleep(fn func(ctx context.Context, d time.Duration) error) *Poller {
	if fn != nil {
		p.sleep = fn
	}
	return p
}

// Poll drives the status check loop to a terminal state. A missing session
// id resolves immediately without touching the network. A transport failure
// resolves to the error state on the spot rather than burning the remaining
// attempts. The returned error is non-nil only when ctx ends the wait
// between attempts.
func (p *Poller) Poll(ctx context.Context, sessionID string) (PollResult, error) {
	if sessionID == "" {
		return PollResult{State: PollError, Message: msgNoSession}, nil
	}

	for attempt := 1; ; attempt++ {
		status, err := p.client.GetCheckoutStatus(ctx, sessionID)
		if err != nil {
			p.logger.Warn("payment status check failed", "error", err, "session_id", sessionID, "attempt", attempt)
			return PollResult{State: PollError, Message: msgError, Attempts: attempt}, nil
		}

		switch {
		case status.Paid():
			return PollResult{State: PollSuccess, Status: status, Attempts: attempt}, nil
		case status.Expired():
			return PollResult{State: PollExpired, Message: msgExpired, Status: status, Attempts: attempt}, nil
		}

		if attempt >= p.maxAttempts {
			return PollResult{State: PollTimeout, Message: msgTimeout, Attempts: attempt}, nil
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return PollResult{State: PollError, Message: msgError, Attempts: attempt}, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
