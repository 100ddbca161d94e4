package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/snatchedbeauties/booking-platform/internal/bookings"
	"github.com/snatchedbeauties/booking-platform/internal/leads"
	"github.com/snatchedbeauties/booking-platform/internal/payments"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// Service sends the studio's transactional emails: coupon delivery to new
// leads, booking confirmations, and deposit notices to the studio inbox.
type Service struct {
	email         EmailSender
	businessName  string
	businessEmail string
	logger        *logging.Logger
}

// Config holds the sender identity for outgoing notifications.
type Config struct {
	BusinessName  string
	BusinessEmail string
}

// NewService creates a notification service. A nil sender disables all
// notifications.
func NewService(email EmailSender, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BusinessName == "" {
		cfg.BusinessName = "Snatched Beauties"
	}
	return &Service{
		email:         email,
		businessName:  cfg.BusinessName,
		businessEmail: cfg.BusinessEmail,
		logger:        logger,
	}
}

// LeadCoupon emails a freshly issued discount code to the lead.
func (s *Service) LeadCoupon(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil {
		return nil
	}

	body := fmt.Sprintf(
		"Hi%s,\n\nThanks for your interest in %s! Here is your exclusive discount code:\n\n    %s\n\nIt's good for %s off any treatment and expires on %s.\n\nBook your session any time: we can't wait to see you.\n\n%s",
		greetingName(lead.Name),
		s.businessName,
		lead.CouponCode,
		lead.Discount,
		lead.ExpiresAt.Format("January 2, 2006"),
		s.businessName,
	)

	msg := EmailMessage{
		To:      lead.Email,
		ToName:  lead.Name,
		Subject: fmt.Sprintf("Your %s discount code inside", lead.Discount),
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: lead coupon email: %w", err)
	}
	s.logger.Info("coupon email sent", "lead_id", lead.ID, "coupon", lead.CouponCode)
	return nil
}

// BookingCreated emails the customer a confirmation and gives the studio a
// heads up about the new appointment request.
func (s *Service) BookingCreated(ctx context.Context, b *bookings.Booking) error {
	if s.email == nil {
		return nil
	}

	customerBody := fmt.Sprintf(
		"Hi%s,\n\nWe received your booking request:\n\nService: %s\nDate: %s\nTime: %s\n\nWe'll contact you shortly to confirm your appointment.\n\n%s",
		greetingName(b.CustomerName),
		b.ServicePackage,
		b.PreferredDate,
		b.PreferredTime,
		s.businessName,
	)
	if err := s.email.Send(ctx, EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: "We received your booking request",
		Body:    customerBody,
	}); err != nil {
		return fmt.Errorf("notify: booking confirmation email: %w", err)
	}

	if s.businessEmail != "" {
		studioBody := fmt.Sprintf(
			"New booking request %s\n\nService: %s\nDate: %s at %s\nCustomer: %s <%s>\nPhone: %s\nNotes: %s",
			b.ID,
			b.ServicePackage,
			b.PreferredDate,
			b.PreferredTime,
			b.CustomerName,
			b.CustomerEmail,
			orDash(b.CustomerPhone),
			orDash(b.SpecialRequests),
		)
		if err := s.email.Send(ctx, EmailMessage{
			To:      s.businessEmail,
			ToName:  s.businessName,
			Subject: fmt.Sprintf("New booking: %s on %s", b.ServicePackage, b.PreferredDate),
			Body:    studioBody,
		}); err != nil {
			// The customer already got their confirmation; log and move on.
			s.logger.Error("studio booking notice failed", "error", err, "booking_id", b.ID)
		}
	}

	s.logger.Info("booking emails sent", "booking_id", b.ID)
	return nil
}

// PaymentReceived tells the studio inbox that a deposit settled.
func (s *Service) PaymentReceived(ctx context.Context, p *payments.Payment) error {
	if s.email == nil || s.businessEmail == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Payment received.\n\nService: %s\nCustomer: %s <%s>\nUnits: %d\nAmount: %s\nStripe session: %s",
		p.ServicePackage,
		orDash(p.CustomerName),
		p.CustomerEmail,
		p.Units,
		formatAmount(p.AmountCents, p.Currency),
		p.SessionID,
	)
	if err := s.email.Send(ctx, EmailMessage{
		To:      s.businessEmail,
		ToName:  s.businessName,
		Subject: fmt.Sprintf("Payment received: %s for %s", formatAmount(p.AmountCents, p.Currency), p.ServicePackage),
		Body:    body,
	}); err != nil {
		return fmt.Errorf("notify: payment email: %w", err)
	}
	s.logger.Info("payment email sent", "session_id", p.SessionID)
	return nil
}

func greetingName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return " " + name
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatAmount(cents int64, currency string) string {
	if currency == "" {
		currency = "usd"
	}
	return fmt.Sprintf("$%.2f %s", float64(cents)/100, strings.ToUpper(currency))
}
