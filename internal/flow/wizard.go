package flow

import (
	"context"
	"errors"
	"strings"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// Step identifies the wizard's current screen.
type Step int

// Wizard steps, in order.
const (
	StepSelectService Step = iota + 1
	StepCustomerDetails
	StepPaymentHandoff
)

// MaxUnits bounds the unit count field. The server clamps too.
const MaxUnits = 50

// Guard and validation errors surfaced by the wizard.
var (
	ErrNoServiceSelected = errors.New("please select a service")
	ErrNameRequired      = errors.New("please enter your full name")
	ErrEmailRequired     = errors.New("please enter a valid email address")
	ErrDateRequired      = errors.New("please choose a preferred date")
	ErrTimeRequired      = errors.New("please choose a preferred time")
	ErrWrongStep         = errors.New("not available at this step")
)

// Fixed fallbacks when the server gives no detail message.
const (
	bookingFailedMsg  = "Booking failed. Please try again."
	checkoutFailedMsg = "Payment setup failed. Please try again."
)

// Wizard is the three step booking state machine. One instance per customer
// session; it is not safe for concurrent use and does not need to be.
type Wizard struct {
	client       Client
	logger       *logging.Logger
	schedulerURL string
	successURL   string
	cancelURL    string

	step    Step
	service *catalog.ServiceOffering
	units   int

	name     string
	email    string
	phone    string
	date     string
	timeSlot string
	requests string

	bookingID string
}

// WizardOption customizes a Wizard.
type WizardOption func(*Wizard)

// WithSchedulerURL sets the external scheduling tool the escape hatch opens.
func WithSchedulerURL(url string) WizardOption {
	return func(w *Wizard) { w.schedulerURL = url }
}

// WithRedirectURLs sets the success and cancel URLs passed to checkout. The
// success URL should contain the {CHECKOUT_SESSION_ID} placeholder Stripe
// substitutes.
func WithRedirectURLs(success, cancel string) WizardOption {
	return func(w *Wizard) {
		w.successURL = success
		w.cancelURL = cancel
	}
}

// NewWizard creates a wizard at the service selection step.
func NewWizard(client Client, logger *logging.Logger, opts ...WizardOption) *Wizard {
	if logger == nil {
		logger = logging.Default()
	}
	w := &Wizard{
		client: client,
		logger: logger,
		step:   StepSelectService,
		units:  1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Service returns the selected service, or nil.
func (w *Wizard) Service() *catalog.ServiceOffering { return w.service }

// BookingID returns the confirmed booking id once step three is reached.
func (w *Wizard) BookingID() string { return w.bookingID }

// SelectService picks a service. Switching services keeps any customer
// details already entered.
func (w *Wizard) SelectService(svc catalog.ServiceOffering) {
	copied := svc
	w.service = &copied
	if !svc.UnitBased {
		w.units = 1
	}
}

// SetUnits sets the unit count, clamped to [1, MaxUnits]. Ignored for
// services that are not unit based.
func (w *Wizard) SetUnits(n int) {
	if w.service != nil && !w.service.UnitBased {
		w.units = 1
		return
	}
	if n < 1 {
		n = 1
	}
	if n > MaxUnits {
		n = MaxUnits
	}
	w.units = n
}

// Units returns the effective unit count: always 1 for services that are
// not unit based.
func (w *Wizard) Units() int {
	if w.service != nil && !w.service.UnitBased {
		return 1
	}
	return w.units
}

// SetCustomer fills in the customer's contact fields.
func (w *Wizard) SetCustomer(name, email, phone string) {
	w.name = strings.TrimSpace(name)
	w.email = strings.TrimSpace(email)
	w.phone = strings.TrimSpace(phone)
}

// SetSchedule fills in the preferred date (YYYY-MM-DD) and time slot.
func (w *Wizard) SetSchedule(date, timeSlot string) {
	w.date = strings.TrimSpace(date)
	w.timeSlot = strings.TrimSpace(timeSlot)
}

// SetSpecialRequests sets the free text notes field.
func (w *Wizard) SetSpecialRequests(s string) {
	w.requests = s
}

// Next advances from service selection to customer details. It is the only
// forward transition that doesn't involve the server.
func (w *Wizard) Next() error {
	if w.step != StepSelectService {
		return ErrWrongStep
	}
	if w.service == nil {
		return ErrNoServiceSelected
	}
	w.step = StepCustomerDetails
	return nil
}

// Back returns from customer details to service selection. All entered data
// is preserved.
func (w *Wizard) Back() {
	if w.step == StepCustomerDetails {
		w.step = StepSelectService
	}
}

// Total renders the current price line.
func (w *Wizard) Total() string {
	return Total(w.service, w.units)
}

// SubmitDetails validates the customer details, creates the booking on the
// server, and advances to the payment step. On any failure the wizard stays
// at customer details and the returned error carries the message to show.
func (w *Wizard) SubmitDetails(ctx context.Context) (*BookingConfirmation, error) {
	if w.step != StepCustomerDetails {
		return nil, ErrWrongStep
	}
	if w.name == "" {
		return nil, ErrNameRequired
	}
	if !strings.Contains(w.email, "@") {
		return nil, ErrEmailRequired
	}
	if w.date == "" {
		return nil, ErrDateRequired
	}
	if w.timeSlot == "" {
		return nil, ErrTimeRequired
	}

	conf, err := w.client.CreateBooking(ctx, BookingSubmission{
		ServicePackage:  w.service.ID,
		PreferredDate:   w.date,
		PreferredTime:   w.timeSlot,
		CustomerName:    w.name,
		CustomerEmail:   w.email,
		CustomerPhone:   w.phone,
		SpecialRequests: w.requests,
	})
	if err != nil {
		w.logger.Warn("booking submit failed", "error", err, "service", w.service.ID)
		return nil, presentable(err, bookingFailedMsg)
	}

	w.bookingID = conf.BookingID
	w.step = StepPaymentHandoff
	return conf, nil
}

// Pay creates the checkout session and returns the URL to navigate to. The
// navigation itself is a full hand-off; the wizard does not resume.
func (w *Wizard) Pay(ctx context.Context) (string, error) {
	if w.step != StepPaymentHandoff {
		return "", ErrWrongStep
	}

	checkoutURL, err := w.client.CreateCheckout(ctx, CheckoutRequest{
		ServicePackage: w.service.ID,
		CustomerEmail:  w.email,
		CustomerName:   w.name,
		Units:          w.Units(),
		SuccessURL:     w.successURL,
		CancelURL:      w.cancelURL,
	})
	if err != nil {
		w.logger.Warn("checkout failed", "error", err, "service", w.service.ID)
		return "", presentable(err, checkoutFailedMsg)
	}
	return checkoutURL, nil
}

// SchedulerURL is the escape hatch: an external scheduling link available at
// every step. Opening it does not touch the draft.
func (w *Wizard) SchedulerURL() string {
	return w.schedulerURL
}

// Reset discards the whole draft and returns to service selection, for
// "book another service".
func (w *Wizard) Reset() {
	w.step = StepSelectService
	w.service = nil
	w.units = 1
	w.name = ""
	w.email = ""
	w.phone = ""
	w.date = ""
	w.timeSlot = ""
	w.requests = ""
	w.bookingID = ""
}

// presentable turns a client error into the message shown to the user: the
// server's detail when there is one, otherwise the fixed fallback.
func presentable(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return errors.New(apiErr.Detail)
	}
	return errors.New(fallback)
}
