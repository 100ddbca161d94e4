package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	// Stripe
	StripeSecretKey  string
	StripeAPIBaseURL string
	StripeDryRun     bool

	// Payment flow
	SuccessURL       string
	CancelURL        string
	MaxUnits         int
	StatusCacheTTL   time.Duration
	PendingCacheTTL  time.Duration
	SchedulerFallURL string

	// Lead capture
	CouponDiscount   string
	CouponValidity   time.Duration
	LeadRatePerSec   float64
	LeadRateBurst    int
	AdminJWTSecret   string
	FallbackCoupon   string
	BusinessName     string
	BusinessEmail    string
	CORSAllowOrigins []string

	// Redis
	RedisAddr     string
	RedisPassword string

	// Email
	EmailProvider     string
	SESFromEmail      string
	SESFromName       string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	AWSRegion         string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		StripeSecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIBaseURL: getEnv("STRIPE_API_BASE_URL", ""),
		StripeDryRun:     getEnvAsBool("STRIPE_DRY_RUN", false),

		SuccessURL:       getEnv("PAYMENT_SUCCESS_URL", ""),
		CancelURL:        getEnv("PAYMENT_CANCEL_URL", ""),
		MaxUnits:         getEnvAsInt("MAX_UNITS", 50),
		StatusCacheTTL:   getEnvAsDuration("STATUS_CACHE_TTL", 24*time.Hour),
		PendingCacheTTL:  getEnvAsDuration("PENDING_CACHE_TTL", 2*time.Second),
		SchedulerFallURL: getEnv("SCHEDULER_FALLBACK_URL", "https://calendly.com/info-o6c"),

		CouponDiscount:   getEnv("COUPON_DISCOUNT", "15%"),
		CouponValidity:   getEnvAsDuration("COUPON_VALIDITY", 30*24*time.Hour),
		LeadRatePerSec:   getEnvAsFloat("LEAD_RATE_PER_SEC", 1),
		LeadRateBurst:    getEnvAsInt("LEAD_RATE_BURST", 5),
		AdminJWTSecret:   getEnv("ADMIN_JWT_SECRET", ""),
		FallbackCoupon:   getEnv("FALLBACK_COUPON", "SNATCHED15"),
		BusinessName:     getEnv("BUSINESS_NAME", "Snatched Beauties"),
		BusinessEmail:    getEnv("BUSINESS_EMAIL", "info@snatchedbeauties.la"),
		CORSAllowOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "*")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Snatched Beauties"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Snatched Beauties"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
	}
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
