package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Proposal storage
	DatabaseURL string
	DBMaxConns  int
	SeedFile    string

	// Reading a sent proposal marks it viewed.
	TrackViews bool

	// Notification forwarding
	NotifyWebhookURL   string
	NotifyWebhookToken string
	NotifyWorkers      int
	NotifyQueueSize    int
	NotifyEventTTL     time.Duration
	NotifyMaxAttempts  int
	NotifyBackoffBase  time.Duration
	NotifyBackoffMax   time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Attachment storage (S3 / R2)
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3PublicBaseURL string

	// Document export
	ChromePath     string
	PDFTimeout     time.Duration
	CurrencySymbol string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("API_KEY"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  envInt("DB_MAX_CONNS", 10),
		SeedFile:    os.Getenv("SEED_FILE"),

		TrackViews: envBool("TRACK_VIEWS", true),

		NotifyWebhookURL:   os.Getenv("NOTIFY_WEBHOOK_URL"),
		NotifyWebhookToken: os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		NotifyWorkers:      envInt("NOTIFY_WORKERS", 2),
		NotifyQueueSize:    envInt("NOTIFY_QUEUE_SIZE", 100),
		NotifyEventTTL:     envDuration("NOTIFY_EVENT_TTL", 1*time.Hour),
		NotifyMaxAttempts:  envInt("NOTIFY_MAX_ATTEMPTS", 3),
		NotifyBackoffBase:  envDuration("NOTIFY_BACKOFF_BASE", 1*time.Second),
		NotifyBackoffMax:   envDuration("NOTIFY_BACKOFF_MAX", 30*time.Second),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOr("S3_REGION", "auto"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		ChromePath:     os.Getenv("CHROME_PATH"),
		PDFTimeout:     envDuration("PDF_TIMEOUT", 30*time.Second),
		CurrencySymbol: envOr("CURRENCY_SYMBOL", "$"),
	}

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}
	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = 2
	}
	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = 100
	}
	if cfg.NotifyEventTTL <= 0 {
		cfg.NotifyEventTTL = 1 * time.Hour
	}
	if cfg.NotifyMaxAttempts <= 0 {
		cfg.NotifyMaxAttempts = 3
	}
	if cfg.NotifyBackoffBase <= 0 {
		cfg.NotifyBackoffBase = 1 * time.Second
	}
	if cfg.NotifyBackoffMax <= 0 {
		cfg.NotifyBackoffMax = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.PDFTimeout <= 0 {
		cfg.PDFTimeout = 30 * time.Second
	}

	return cfg
}

// StorageEnabled reports whether attachments should be uploaded.
func (c Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.StorageEnabled() && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set")
	}
	if c.NotifyWebhookToken != "" && c.NotifyWebhookURL == "" {
		return fmt.Errorf("NOTIFY_WEBHOOK_TOKEN is set but NOTIFY_WEBHOOK_URL is empty")
	}
	if c.NotifyBackoffMax > 0 && c.NotifyBackoffBase > c.NotifyBackoffMax {
		return fmt.Errorf("NOTIFY_BACKOFF_BASE (%s) exceeds NOTIFY_BACKOFF_MAX (%s)", c.NotifyBackoffBase, c.NotifyBackoffMax)
	}
	if c.DatabaseURL != "" && c.SeedFile != "" {
		return fmt.Errorf("SEED_FILE only applies to the in-memory store; unset DATABASE_URL to use it")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
