package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string
	AllowedOrigins []string
	MaxUploadMB    int64

	DBDriver    string
	DatabaseURL string

	TokenSecret []byte
	TokenIssuer string
	// TokenTTL of zero means bearer tokens never expire.
	TokenTTL time.Duration

	OTPTTL      time.Duration
	OTPDigits   int
	OTPHashCost int
	OTPStore    string

	// OTPRetention of zero keeps expired records until they are overwritten.
	OTPRetention       time.Duration
	OTPCleanupInterval time.Duration

	RedisAddr     string
	RedisPassword string

	MailProvider string
	MailFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ResendAPIKey string
	AppName      string

	MediaRoot string
	MediaURL  string

	LogLevel string

	OTPRateLimit float64
	OTPRateBurst int
	RateLimitTTL time.Duration
}

// Load reads the configuration from the process environment, loading a .env
// file first when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []error
	cfg := Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		AllowedOrigins: splitCSV(getenv("ALLOWED_ORIGINS", "*")),
		MaxUploadMB:    int64(atoi("MAX_UPLOAD_MB", 15, &errs)),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TokenSecret: []byte(os.Getenv("TOKEN_SECRET")),
		TokenIssuer: getenv("TOKEN_ISSUER", "photogallery"),
		TokenTTL:    duration("TOKEN_TTL", 0, &errs),

		OTPTTL:       duration("OTP_TTL", 5*time.Minute, &errs),
		OTPDigits:    atoi("OTP_DIGITS", 6, &errs),
		OTPHashCost:  atoi("OTP_HASH_COST", 0, &errs),
		OTPStore:     strings.ToLower(getenv("OTP_STORE", "database")),
		OTPRetention: duration("OTP_RETENTION", 0, &errs),

		OTPCleanupInterval: duration("OTP_CLEANUP_INTERVAL", 30*time.Minute, &errs),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MailProvider: strings.ToLower(getenv("MAIL_PROVIDER", "smtp")),
		MailFrom:     os.Getenv("MAIL_FROM"),
		SMTPHost:     getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     atoi("SMTP_PORT", 587, &errs),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		AppName:      getenv("APP_NAME", "Photo Gallery"),

		MediaRoot: getenv("MEDIA_ROOT", "media"),
		MediaURL:  strings.TrimRight(getenv("MEDIA_URL", "/media"), "/"),

		LogLevel: getenv("LOG_LEVEL", "info"),

		OTPRateLimit: atof("OTP_RATE_LIMIT", 2, &errs),
		OTPRateBurst: atoi("OTP_RATE_BURST", 5, &errs),
		RateLimitTTL: duration("RATE_LIMIT_TTL", 10*time.Minute, &errs),
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.SMTPUser
	}
	if cfg.DBDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "db.sqlite3"
	}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if len(c.TokenSecret) == 0 {
		errs = append(errs, errors.New("TOKEN_SECRET is required"))
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	switch c.OTPStore {
	case "database", "redis":
	default:
		errs = append(errs, fmt.Errorf("OTP_STORE %q is not supported", c.OTPStore))
	}
	switch c.MailProvider {
	case "smtp", "resend", "log":
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER %q is not supported", c.MailProvider))
	}
	if c.OTPDigits < 4 || c.OTPDigits > 9 {
		errs = append(errs, fmt.Errorf("OTP_DIGITS must be between 4 and 9, got %d", c.OTPDigits))
	}
	if c.OTPRetention > 0 && c.OTPCleanupInterval <= 0 {
		errs = append(errs, errors.New("OTP_CLEANUP_INTERVAL must be positive when OTP_RETENTION is set"))
	}
	if c.OTPTTL <= 0 {
		errs = append(errs, errors.New("OTP_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// MaxUploadBytes is the upload limit applied to photos and avatars.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return i
}

func atof(key string, def float64, errs *[]error) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func duration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
