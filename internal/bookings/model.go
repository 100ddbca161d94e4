package bookings

import (
	"strings"
	"time"
)

// TimeSlots are the bookable hourly appointment times. The studio takes its
// last appointment at 6 PM.
var TimeSlots = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM",
}

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// Booking is a server-confirmed appointment request.
type Booking struct {
	ID              string    `json:"booking_id"`
	ServicePackage  string    `json:"service_package"`
	PreferredDate   string    `json:"preferred_date"`
	PreferredTime   string    `json:"preferred_time"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateBookingRequest is the request body for creating a booking.
type CreateBookingRequest struct {
	ServicePackage  string `json:"service_package"`
	PreferredDate   string `json:"preferred_date"`
	PreferredTime   string `json:"preferred_time"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// Validate checks the request against the booking rules: all non-optional
// fields present, a plausible email, a date that is today or later, and a
// time from the fixed slot list. now anchors the date comparison so tests
// can pin it.
func (r *CreateBookingRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.ServicePackage) == "" {
		return ErrMissingService
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		return ErrMissingName
	}
	if !strings.Contains(r.CustomerEmail, "@") {
		return ErrInvalidEmail
	}

	date, err := time.Parse("2006-01-02", r.PreferredDate)
	if err != nil {
		return ErrInvalidDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return ErrDateInPast
	}

	if !ValidTimeSlot(r.PreferredTime) {
		return ErrInvalidTimeSlot
	}
	return nil
}

// ValidTimeSlot reports whether slot is one of the bookable times.
func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
