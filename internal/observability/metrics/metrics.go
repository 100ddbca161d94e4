package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for the booking funnel. All observe
// methods are nil-receiver safe so handlers can run without metrics wired.
type Metrics struct {
	leadsTotal      *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	checkoutTotal   *prometheus.CounterVec
	statusPollTotal *prometheus.CounterVec
	stripeLatency   prometheus.Histogram
}

// New registers the booking funnel metrics on reg (or the default registerer
// when nil).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snatched",
			Subsystem: "leads",
			Name:      "captured_total",
			Help:      "Total lead submissions",
		}, []string{"kind"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snatched",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total booking create attempts",
		}, []string{"status"}),
		checkoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snatched",
			Subsystem: "payments",
			Name:      "checkout_sessions_total",
			Help:      "Total checkout session create attempts",
		}, []string{"status"}),
		statusPollTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snatched",
			Subsystem: "payments",
			Name:      "status_checks_total",
			Help:      "Total checkout status lookups",
		}, []string{"result", "source"}),
		stripeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snatched",
			Subsystem: "payments",
			Name:      "stripe_request_seconds",
			Help:      "Latency of Stripe API calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsTotal, m.bookingsTotal, m.checkoutTotal, m.statusPollTotal, m.stripeLatency)
	return m
}

// ObserveLead records a lead submission; kind is "new" or "returning".
func (m *Metrics) ObserveLead(kind string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(kind).Inc()
}

// ObserveBooking records a booking create attempt outcome.
func (m *Metrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

// ObserveCheckout records a checkout session create attempt outcome.
func (m *Metrics) ObserveCheckout(status string) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(status).Inc()
}

// ObserveStatusCheck records a status lookup; source is "cache" or "stripe".
func (m *Metrics) ObserveStatusCheck(result, source string) {
	if m == nil {
		return
	}
	m.statusPollTotal.WithLabelValues(result, source).Inc()
}

// ObserveStripeLatency records the duration of one Stripe API round trip.
func (m *Metrics) ObserveStripeLatency(seconds float64) {
	if m == nil {
		return
	}
	m.stripeLatency.Observe(seconds)
}
