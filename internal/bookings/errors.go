package bookings

import "errors"

var (
	// ErrMissingService is returned when no service package is selected
	ErrMissingService = errors.New("please select a service")

	// ErrMissingName is returned when the customer name is empty
	ErrMissingName = errors.New("customer name is required")

	// ErrInvalidEmail is returned when the email is missing or malformed
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrInvalidDate is returned when the preferred date does not parse
	ErrInvalidDate = errors.New("preferred date must be in YYYY-MM-DD format")

	// ErrDateInPast is returned when the preferred date is before today
	ErrDateInPast = errors.New("preferred date must be today or later")

	// ErrInvalidTimeSlot is returned when the time is not a bookable slot
	ErrInvalidTimeSlot = errors.New("preferred time must be one of the offered slots")

	// ErrBookingNotFound is returned when a booking id is unknown
	ErrBookingNotFound = errors.New("booking not found")
)
