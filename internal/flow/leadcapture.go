package flow

import (
	"context"
	"strings"

	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// LeadCapture drives the coupon form on the landing page. When the API is
// unreachable it can hand out a configured house coupon instead of showing
// the visitor an error.
type LeadCapture struct {
	client         Client
	logger         *logging.Logger
	fallbackCoupon string
	discount       string
}

// NewLeadCapture creates the lead capture flow. An empty fallback coupon
// disables the fallback and surfaces API failures to the caller.
func NewLeadCapture(client Client, fallbackCoupon, discount string, logger *logging.Logger) *LeadCapture {
	if logger == nil {
		logger = logging.Default()
	}
	if discount == "" {
		discount = "15%"
	}
	return &LeadCapture{
		client:         client,
		logger:         logger,
		fallbackCoupon: fallbackCoupon,
		discount:       discount,
	}
}

// Submit captures the lead and returns the coupon to show. The email must
// look like an email; nothing else is required.
func (lc *LeadCapture) Submit(ctx context.Context, req LeadRequest) (*LeadCoupon, error) {
	req.Email = strings.TrimSpace(req.Email)
	if !strings.Contains(req.Email, "@") {
		return nil, ErrEmailRequired
	}

	coupon, err := lc.client.CaptureLead(ctx, req)
	if err != nil {
		if lc.fallbackCoupon == "" {
			return nil, err
		}
		lc.logger.Warn("lead capture failed, handing out fallback coupon",
			"error", err, "coupon", lc.fallbackCoupon)
		return &LeadCoupon{
			CouponCode: lc.fallbackCoupon,
			Discount:   lc.discount,
		}, nil
	}
	return coupon, nil
}
