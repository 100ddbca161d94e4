package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/snatchedbeauties/booking-platform/internal/api/router"
	"github.com/snatchedbeauties/booking-platform/internal/bookings"
	"github.com/snatchedbeauties/booking-platform/internal/catalog"
	appconfig "github.com/snatchedbeauties/booking-platform/internal/config"
	"github.com/snatchedbeauties/booking-platform/internal/leads"
	"github.com/snatchedbeauties/booking-platform/internal/notify"
	"github.com/snatchedbeauties/booking-platform/internal/observability/metrics"
	"github.com/snatchedbeauties/booking-platform/internal/payments"
	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting snatched beauties API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	metricsHandler, m := setupMetrics()

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}

	redisClient := connectRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories: Postgres when configured, in-memory for local dev.
	var leadsRepo leads.Repository = leads.NewInMemoryRepository()
	var bookingsRepo bookings.Repository = bookings.NewInMemoryRepository()
	var paymentsRepo payments.Repository = payments.NewInMemoryRepository()
	if pool != nil {
		leadsRepo = leads.NewPostgresRepository(pool)
		bookingsRepo = bookings.NewPostgresRepository(pool)
		paymentsRepo = payments.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	catalogRepo := catalog.NewStaticRepository(catalog.DefaultOfferings())

	notifier := notify.NewService(buildEmailSender(ctx, cfg, logger), notify.Config{
		BusinessName:  cfg.BusinessName,
		BusinessEmail: cfg.BusinessEmail,
	}, logger)

	stripe := payments.NewStripeService(cfg.StripeSecretKey, logger.Component("stripe")).
		WithBaseURL(cfg.StripeAPIBaseURL).
		WithDryRun(cfg.StripeDryRun).
		WithMetrics(m)
	statusCache := payments.NewStatusCache(redisClient, cfg.StatusCacheTTL, cfg.PendingCacheTTL, logger.Component("cache"))

	catalogHandler := catalog.NewHandler(catalogRepo, logger.Component("catalog"))
	leadsHandler := leads.NewHandler(leadsRepo, cfg.CouponDiscount, cfg.CouponValidity, logger.Component("leads")).
		WithNotifier(notifier).
		WithMetrics(m)
	bookingsHandler := bookings.NewHandler(bookingsRepo, catalogRepo, logger.Component("bookings")).
		WithNotifier(notifier).
		WithMetrics(m)
	successURL, cancelURL := redirectURLs(cfg)
	paymentsHandler := payments.NewHandler(catalogRepo, paymentsRepo, stripe, logger.Component("payments")).
		WithCache(statusCache).
		WithNotifier(notifier).
		WithMetrics(m).
		WithMaxUnits(cfg.MaxUnits).
		WithDefaultRedirects(successURL, cancelURL)

	r := router.New(&router.Config{
		Logger:             logger,
		CatalogHandler:     catalogHandler,
		LeadsHandler:       leadsHandler,
		BookingsHandler:    bookingsHandler,
		PaymentsHandler:    paymentsHandler,
		MetricsHandler:     metricsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowOrigins,
		LeadRatePerSec:     cfg.LeadRatePerSec,
		LeadRateBurst:      cfg.LeadRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// setupMetrics registers the app metrics on a fresh registry and returns the
// /metrics handler alongside them.
// redirectURLs resolves the checkout redirect defaults, falling back to the
// site's payment pages under the public base URL.
func redirectURLs(cfg *appconfig.Config) (successURL, cancelURL string) {
	successURL = cfg.SuccessURL
	if successURL == "" {
		successURL = strings.TrimRight(cfg.PublicBaseURL, "/") + "/payment-success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL = cfg.CancelURL
	if cancelURL == "" {
		cancelURL = strings.TrimRight(cfg.PublicBaseURL, "/") + "/payment-cancelled"
	}
	return successURL, cancelURL
}

func setupMetrics() (http.Handler, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}

// connectPostgresPool opens a pgx pool, or returns nil when no URL is
// configured or the database is unreachable.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("postgres unreachable", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("connected to postgres")
	return pool
}

// connectRedis dials Redis for the status cache, or returns nil when not
// configured.
func connectRedis(cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, status cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	return client
}

// buildEmailSender picks the email provider from config: "ses", "sendgrid",
// "stub", or "none".
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, email disabled", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger.Component("ses"))
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger.Component("sendgrid"))
		if sender == nil {
			logger.Warn("SENDGRID_API_KEY not set, email disabled")
			return nil
		}
		return sender
	case "stub":
		return notify.NewStubEmailSender(logger)
	default:
		return nil
	}
}
