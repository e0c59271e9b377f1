package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	ServerPort   string
	DatabasePath string

	// Auth collaborator shape (internal/authiface): this repo does not
	// verify tokens, but the shared secret/expiry are real config surface
	// consumed by the external HTTP layer.
	JWTSecret          string
	JWTExpirationHours int
	OTPValidityMinutes int
	OTPLogPath         string

	LogLevel  string // debug|info|warn|error
	LogFormat string // json|text

	// Outbox / dispatcher (C5/C7)
	OutboxBatchSize    int
	OutboxMaxRetries   int
	OutboxSendTimeout  time.Duration

	// Recurrence expansion / slot enumeration (C1/C2) and booking (C3)
	DefaultShiftDuration     time.Duration
	RecurringHorizonDays     int
	BookingMinLead           time.Duration
	BookingCancelCutoff      time.Duration
	BookingFutureHorizonDays int

	// Report archiver (C9)
	ReportRetentionDays int

	// Push sender (C6)
	VAPIDPublic    string
	VAPIDPrivate   string
	VAPIDSubject   string
	PushTTLSeconds int

	// SMS sender (C6)
	SMSProvider      string // log|twilio
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioVerifySID  string
	TwilioFromNumber string

	DevMode bool

	// Job runner cadences (C10), robfig/cron expressions.
	JobDrainOutboxCron            string
	JobProcessBroadcastsCron      string
	JobMaterializeRecurringCron   string
	JobArchiveReportsCron         string
}

const DefaultJWTSecret = "super-secret-jwt-key-please-change-in-prod"

// ValidateSecurityConfig rejects configuration that would be unsafe in a
// production deployment; for the JWT secret checks it warns instead of
// failing in non-production environments so local development is not
// blocked. An incomplete Twilio configuration is rejected in every
// environment.
func (c *Config) ValidateSecurityConfig() error {
	if c.JWTSecret == DefaultJWTSecret {
		if isProductionEnvironment() {
			return fmt.Errorf("default JWT secret detected in production environment, set JWT_SECRET")
		}
		fmt.Printf("WARNING: using default JWT secret. Set JWT_SECRET for production\n")
	}

	if len(c.JWTSecret) < 32 {
		if isProductionEnvironment() {
			return fmt.Errorf("JWT secret too short (%d chars), use at least 32", len(c.JWTSecret))
		}
		fmt.Printf("WARNING: JWT secret is short (%d chars)\n", len(c.JWTSecret))
	}

	if c.DevMode && isProductionEnvironment() {
		return fmt.Errorf("dev mode cannot be enabled in production environment")
	}

	if c.SMSProvider == "twilio" && (c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioFromNumber == "") {
		return fmt.Errorf("sms_provider=twilio requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER")
	}

	return nil
}

func isProductionEnvironment() bool {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	goEnv := strings.ToLower(os.Getenv("GO_ENV"))
	nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))

	return env == "production" || env == "prod" ||
		goEnv == "production" || goEnv == "prod" ||
		nodeEnv == "production" || nodeEnv == "prod" ||
		os.Getenv("RAILWAY_ENVIRONMENT") == "production" ||
		os.Getenv("VERCEL_ENV") == "production" ||
		os.Getenv("HEROKU_APP_NAME") != ""
}

// LoadConfig loads configuration from environment variables, applying
// defaults for anything unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:   "5888",
		DatabasePath: "./community_watch.db",

		JWTSecret:          DefaultJWTSecret,
		JWTExpirationHours: 24,
		OTPValidityMinutes: 5,
		OTPLogPath:         "./sms_outbox.log",

		LogLevel:  "info",
		LogFormat: "json",

		OutboxBatchSize:   10,
		OutboxMaxRetries:  3,
		OutboxSendTimeout: 30 * time.Second,

		DefaultShiftDuration:     2 * time.Hour,
		RecurringHorizonDays:     30,
		BookingMinLead:           1 * time.Hour,
		BookingCancelCutoff:      2 * time.Hour,
		BookingFutureHorizonDays: 90,

		ReportRetentionDays: 365,

		VAPIDSubject:   "mailto:admin@example.com",
		PushTTLSeconds: 600,

		SMSProvider: "log",

		DevMode: false,

		JobDrainOutboxCron:          "@every 1m",
		JobProcessBroadcastsCron:    "@every 1m",
		JobMaterializeRecurringCron: "@every 1h",
		JobArchiveReportsCron:       "@daily",
	}

	strVal := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	intVal := func(key string, dst *int, allowZero bool) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && (n > 0 || (allowZero && n == 0)) {
				*dst = n
			}
		}
	}
	durHoursVal := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*dst = time.Duration(n) * time.Hour
			}
		}
	}
	durMinutesVal := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*dst = time.Duration(n) * time.Minute
			}
		}
	}
	boolVal := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	strVal("SERVER_PORT", &cfg.ServerPort)
	strVal("DATABASE_PATH", &cfg.DatabasePath)
	strVal("JWT_SECRET", &cfg.JWTSecret)
	strVal("OTP_LOG_PATH", &cfg.OTPLogPath)

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	durHoursVal("DEFAULT_SHIFT_DURATION_HOURS", &cfg.DefaultShiftDuration)
	intVal("JWT_EXPIRATION_HOURS", &cfg.JWTExpirationHours, false)
	intVal("OTP_VALIDITY_MINUTES", &cfg.OTPValidityMinutes, false)
	intVal("OUTBOX_BATCH_SIZE", &cfg.OutboxBatchSize, false)
	intVal("OUTBOX_MAX_RETRIES", &cfg.OutboxMaxRetries, true)
	if v := os.Getenv("OUTBOX_SEND_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OutboxSendTimeout = time.Duration(n) * time.Second
		}
	}

	intVal("RECURRING_HORIZON_DAYS", &cfg.RecurringHorizonDays, false)
	durMinutesVal("BOOKING_MIN_LEAD_MINUTES", &cfg.BookingMinLead)
	durMinutesVal("BOOKING_CANCEL_CUTOFF_MINUTES", &cfg.BookingCancelCutoff)
	intVal("BOOKING_FUTURE_HORIZON_DAYS", &cfg.BookingFutureHorizonDays, false)
	intVal("REPORT_RETENTION_DAYS", &cfg.ReportRetentionDays, false)

	boolVal("DEV_MODE", &cfg.DevMode)

	strVal("VAPID_PUBLIC_KEY", &cfg.VAPIDPublic)
	strVal("VAPID_PRIVATE_KEY", &cfg.VAPIDPrivate)
	strVal("VAPID_SUBJECT", &cfg.VAPIDSubject)
	intVal("PUSH_TTL_SECONDS", &cfg.PushTTLSeconds, false)

	if v := os.Getenv("SMS_PROVIDER"); v != "" {
		cfg.SMSProvider = strings.ToLower(v)
	}
	strVal("TWILIO_ACCOUNT_SID", &cfg.TwilioAccountSID)
	strVal("TWILIO_AUTH_TOKEN", &cfg.TwilioAuthToken)
	strVal("TWILIO_VERIFY_SID", &cfg.TwilioVerifySID)
	strVal("TWILIO_FROM_NUMBER", &cfg.TwilioFromNumber)

	strVal("JOB_DRAIN_OUTBOX_CRON", &cfg.JobDrainOutboxCron)
	strVal("JOB_PROCESS_BROADCASTS_CRON", &cfg.JobProcessBroadcastsCron)
	strVal("JOB_MATERIALIZE_RECURRING_CRON", &cfg.JobMaterializeRecurringCron)
	strVal("JOB_ARCHIVE_REPORTS_CRON", &cfg.JobArchiveReportsCron)

	return cfg, nil
}
