package leads

import (
	"fmt"
	"strings"
	"time"
)

// Lead is a captured marketing lead with its issued discount coupon.
type Lead struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CouponCode string    `json:"coupon_code"`
	Discount   string    `json:"discount"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Used       bool      `json:"used"`
}

// CreateLeadRequest is the request body for capturing a lead.
type CreateLeadRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Validate checks the request. Email is the only required field; the form
// accepts anything with an "@" the way the landing page does.
func (r *CreateLeadRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// Stats summarizes lead capture performance for the admin dashboard.
type Stats struct {
	TotalLeads     int    `json:"totalLeads"`
	UsedCoupons    int    `json:"usedCoupons"`
	RecentLeads    int    `json:"recentLeads"`
	ConversionRate string `json:"conversionRate"`
}

func conversionRate(used, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(used)/float64(total)*100)
}
