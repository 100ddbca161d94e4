package leads

import "errors"

var (
	// ErrInvalidEmail is returned when the email is missing or malformed
	ErrInvalidEmail = errors.New("a valid email address is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
