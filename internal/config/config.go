package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort               = "8080"
	defaultDatabaseURL        = "file:newznepal.db?cache=shared"
	defaultSiteURL            = "https://newznepal.com"
	defaultRetentionDays      = "30"
	defaultCleanupProbability = "0.01"
	defaultCleanupInterval    = "24h"
	defaultSessionTTL         = "720h"
	defaultSMTPPort           = "587"
	defaultEmailFrom          = "NewzNepal <noreply@newznepal.com>"
	defaultBatchSize          = "10"
	defaultBatchDelay         = "2s"
	defaultUnsubscribeSecret  = "change-me-unsubscribe-secret"
	defaultStorageDriver      = "local"
	defaultUploadDir          = "./uploads"
	defaultUploadBaseURL      = "/static/news-images"
	defaultBucket             = "news-images"
	defaultAWSRegion          = "us-east-1"
	defaultRateLimit          = "60"
	defaultTaskWorkers        = "2"
	defaultTaskQueueSize      = "100"
	defaultTaskTimeout        = "5m"
)

type AppConfig struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	SiteURL     string

	RetentionDays      int
	CleanupProbability float64
	CleanupInterval    time.Duration
	CleanupSecret      string

	SessionTTL   time.Duration
	CookieSecure bool

	SMTP       SMTPConfig
	Newsletter NewsletterConfig
	Storage    StorageConfig

	RedisURL           string
	RateLimitPerMinute int

	TaskWorkers   int
	TaskQueueSize int
	TaskTimeout   time.Duration

	LogLevel  string
	LogFormat string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether a real mail transport was configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != ""
}

type NewsletterConfig struct {
	BatchSize         int
	BatchDelay        time.Duration
	UnsubscribeSecret string
}

type StorageConfig struct {
	Driver    string
	UploadDir string
	BaseURL   string
	Bucket    string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           bool
	S3PublicURL        string
}

// Load reads the process environment (and an optional .env file) into an AppConfig.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(getEnv("SITE_URL", getEnv("NEXT_PUBLIC_SITE_URL", defaultSiteURL))), "/")
	cfg.CleanupSecret = strings.TrimSpace(os.Getenv("CLEANUP_SECRET"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.TrimSpace(getEnv("LOG_FORMAT", "json"))

	var err error
	if cfg.RetentionDays, err = parseIntEnv("RETENTION_DAYS", defaultRetentionDays); err != nil {
		return nil, err
	}
	if cfg.CleanupProbability, err = parseFloatEnv("CLEANUP_PROBABILITY", defaultCleanupProbability); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = parseDurationEnv("CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = parseIntEnv("RATE_LIMIT_PER_MINUTE", defaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.TaskWorkers, err = parseIntEnv("TASK_WORKERS", defaultTaskWorkers); err != nil {
		return nil, err
	}
	if cfg.TaskQueueSize, err = parseIntEnv("TASK_QUEUE_SIZE", defaultTaskQueueSize); err != nil {
		return nil, err
	}
	if cfg.TaskTimeout, err = parseDurationEnv("TASK_TIMEOUT", defaultTaskTimeout); err != nil {
		return nil, err
	}

	cookieDefault := "false"
	if isProdLike(cfg.AppEnv) {
		cookieDefault = "true"
	}
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", cookieDefault)

	cfg.SMTP = SMTPConfig{
		Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		User:     strings.TrimSpace(os.Getenv("SMTP_USER")),
		Password: os.Getenv("SMTP_PASS"),
		From:     strings.TrimSpace(getEnv("EMAIL_FROM", defaultEmailFrom)),
	}
	if cfg.SMTP.Port, err = parseIntEnv("SMTP_PORT", defaultSMTPPort); err != nil {
		return nil, err
	}

	cfg.Newsletter.UnsubscribeSecret = strings.TrimSpace(getEnv("UNSUBSCRIBE_SECRET", defaultUnsubscribeSecret))
	if cfg.Newsletter.BatchSize, err = parseIntEnv("NEWSLETTER_BATCH_SIZE", defaultBatchSize); err != nil {
		return nil, err
	}
	if cfg.Newsletter.BatchDelay, err = parseDurationEnv("NEWSLETTER_BATCH_DELAY", defaultBatchDelay); err != nil {
		return nil, err
	}

	cfg.Storage = StorageConfig{
		Driver:             strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultStorageDriver))),
		UploadDir:          strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir)),
		BaseURL:            strings.TrimRight(strings.TrimSpace(getEnv("UPLOAD_BASE_URL", defaultUploadBaseURL)), "/"),
		Bucket:             strings.TrimSpace(getEnv("S3_BUCKET", defaultBucket)),
		AWSRegion:          strings.TrimSpace(getEnv("AWS_REGION", defaultAWSRegion)),
		AWSAccessKeyID:     strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
		AWSSecretAccessKey: strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),
		AWSEndpoint:        strings.TrimSpace(os.Getenv("AWS_ENDPOINT")),
		S3UseSSL:           parseBoolEnv("S3_USE_SSL", "true"),
		S3PublicURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("S3_PUBLIC_URL")), "/"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production-grade settings.
func (c *AppConfig) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *AppConfig) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.RetentionDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be > 0")
	}
	if cfg.CleanupProbability < 0 || cfg.CleanupProbability > 1 {
		return fmt.Errorf("CLEANUP_PROBABILITY must be between 0 and 1")
	}
	if cfg.CleanupInterval < 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be >= 0")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.Newsletter.BatchSize < 1 {
		return fmt.Errorf("NEWSLETTER_BATCH_SIZE must be >= 1")
	}
	if cfg.Newsletter.BatchDelay < 0 {
		return fmt.Errorf("NEWSLETTER_BATCH_DELAY must be >= 0")
	}
	if cfg.TaskWorkers < 1 {
		return fmt.Errorf("TASK_WORKERS must be >= 1")
	}
	if cfg.TaskQueueSize < 1 {
		return fmt.Errorf("TASK_QUEUE_SIZE must be >= 1")
	}
	if cfg.TaskTimeout <= 0 {
		return fmt.Errorf("TASK_TIMEOUT must be > 0")
	}
	switch cfg.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, s3")
	}
	if cfg.Storage.Driver == "s3" && cfg.Storage.Bucket == "" {
		return fmt.Errorf("S3_BUCKET must be set when STORAGE_DRIVER=s3")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Newsletter.UnsubscribeSecret, defaultUnsubscribeSecret) {
			return fmt.Errorf("in prod/release UNSUBSCRIBE_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
