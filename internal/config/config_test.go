package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_MAX_CONNS", "NOTIFY_WORKERS", "NOTIFY_QUEUE_SIZE", "NOTIFY_EVENT_TTL", "MAX_UPLOAD_BYTES", "S3_REGION", "PDF_TIMEOUT", "CURRENCY_SYMBOL", "TRACK_VIEWS", "NOTIFY_MAX_ATTEMPTS", "NOTIFY_BACKOFF_BASE", "NOTIFY_BACKOFF_MAX"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.DBMaxConns != 10 || cfg.NotifyWorkers != 2 || cfg.NotifyQueueSize != 100 {
		t.Errorf("unexpected pool defaults: %+v", cfg)
	}
	if cfg.NotifyMaxAttempts != 3 || cfg.NotifyBackoffBase != time.Second || cfg.NotifyBackoffMax != 30*time.Second {
		t.Errorf("unexpected retry defaults: attempts=%d base=%v max=%v", cfg.NotifyMaxAttempts, cfg.NotifyBackoffBase, cfg.NotifyBackoffMax)
	}
	if cfg.NotifyEventTTL != time.Hour {
		t.Errorf("expected 1h event TTL, got %v", cfg.NotifyEventTTL)
	}
	if cfg.MaxUploadBytes != 25<<20 {
		t.Errorf("expected 25MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.S3Region != "auto" || cfg.CurrencySymbol != "$" || !cfg.TrackViews {
		t.Errorf("unexpected defaults: region=%q currency=%q track=%v", cfg.S3Region, cfg.CurrencySymbol, cfg.TrackViews)
	}
}

func TestLoad_NonPositiveFallsBackToDefault(t *testing.T) {
	t.Setenv("NOTIFY_WORKERS", "0")
	t.Setenv("NOTIFY_QUEUE_SIZE", "-5")
	t.Setenv("PDF_TIMEOUT", "-1s")
	t.Setenv("DB_MAX_CONNS", "abc")

	cfg := Load()
	if cfg.NotifyWorkers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.NotifyWorkers)
	}
	if cfg.NotifyQueueSize != 100 {
		t.Errorf("expected queue 100, got %d", cfg.NotifyQueueSize)
	}
	if cfg.PDFTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.PDFTimeout)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("expected unparsable value to fall back to 10, got %d", cfg.DBMaxConns)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("NOTIFY_EVENT_TTL", "15m")
	t.Setenv("TRACK_VIEWS", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg := Load()
	if cfg.Port != "9000" || cfg.NotifyEventTTL != 15*time.Minute || cfg.TrackViews || cfg.MaxUploadBytes != 1024 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	ok := Config{Port: "8090"}
	if err := ok.Validate(); err != nil {
		t.Errorf("expected minimal config to be valid, got %v", err)
	}

	cases := map[string]Config{
		"empty port":             {},
		"bucket without key":     {Port: "8090", S3Bucket: "attachments"},
		"token without url":      {Port: "8090", NotifyWebhookToken: "secret"},
		"seed with database":     {Port: "8090", DatabaseURL: "postgres://x", SeedFile: "seed.json"},
		"backoff base above max": {Port: "8090", NotifyBackoffBase: time.Minute, NotifyBackoffMax: time.Second},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
