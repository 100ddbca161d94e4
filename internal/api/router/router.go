package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/snatchedbeauties/booking-platform/internal/bookings"
	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	httpmiddleware "github.com/snatchedbeauties/booking-platform/internal/http/middleware"
	"github.com/snatchedbeauties/booking-platform/internal/leads"
	"github.com/snatchedbeauties/booking-platform/internal/payments"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	CatalogHandler  *catalog.Handler
	LeadsHandler    *leads.Handler
	BookingsHandler *bookings.Handler
	PaymentsHandler *payments.Handler
	MetricsHandler  http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Lead capture rate limit, requests/sec per IP with burst.
	LeadRatePerSec float64
	LeadRateBurst  int
}

// New creates the Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/services", cfg.CatalogHandler.ListServices)

		// Lead capture is the only unauthenticated write exposed to the
		// open internet, so it gets its own rate limit.
		leadCreate := api.With()
		if cfg.LeadRatePerSec > 0 {
			leadCreate = api.With(httpmiddleware.RateLimit(cfg.LeadRatePerSec, cfg.LeadRateBurst))
		}
		leadCreate.Post("/leads", cfg.LeadsHandler.CreateLead)

		// Booking records carry customer contact details, so reads sit
		// behind admin auth with the lead exports.
		api.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
			admin.Get("/leads/stats", cfg.LeadsHandler.GetStats)
			admin.Get("/bookings/{bookingID}", cfg.BookingsHandler.GetBooking)
		})

		api.Post("/bookings", cfg.BookingsHandler.CreateBooking)

		api.Route("/payments", func(pay chi.Router) {
			pay.Post("/checkout", cfg.PaymentsHandler.CreateCheckout)
			pay.Get("/checkout/status/{sessionID}", cfg.PaymentsHandler.GetCheckoutStatus)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "snatched-beauties-api",
	})
}
