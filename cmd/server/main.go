package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/poolproposal/internal/api"
	"github.com/dgallion1/poolproposal/internal/config"
	"github.com/dgallion1/poolproposal/internal/notify"
	"github.com/dgallion1/poolproposal/internal/render"
	"github.com/dgallion1/poolproposal/internal/storage"
	"github.com/dgallion1/poolproposal/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Warn("could not load .env", "error", err)
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Proposal store.
	var st store.Store
	var closeStore func()
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns), log)
		if err != nil {
			log.Error("connect database", "error", err)
			os.Exit(1)
		}
		st, closeStore = pg, pg.Close
	} else {
		mem := store.NewMemoryStore()
		if cfg.SeedFile != "" {
			n, err := mem.LoadSeedFile(ctx, cfg.SeedFile)
			if err != nil {
				log.Error("load seed file", "path", cfg.SeedFile, "error", err)
				os.Exit(1)
			}
			log.Info("seeded in-memory store", "proposals", n)
		}
		log.Warn("no DATABASE_URL set, proposals are kept in memory")
		st, closeStore = mem, func() {}
	}

	// Notification forwarding.
	var hook *notify.Client
	if cfg.NotifyWebhookURL != "" {
		hook = notify.NewClient(cfg.NotifyWebhookURL, cfg.NotifyWebhookToken)
	}
	notifier := notify.NewDispatcher(cfg, hook, log)
	notifier.Start(ctx)

	// Attachment storage.
	var uploader storage.Uploader
	if cfg.StorageEnabled() {
		r2, err := storage.NewR2Client(ctx, cfg)
		if err != nil {
			log.Error("configure attachment storage", "error", err)
			os.Exit(1)
		}
		uploader = r2
	} else {
		log.Info("attachment storage disabled, uploads are inspected only")
	}

	// PDF export.
	var pdf *render.PDFRenderer
	if chrome := render.DetectChrome(cfg.ChromePath); chrome != "" {
		pdf = render.NewPDFRenderer(chrome, cfg.PDFTimeout)
		log.Info("pdf export enabled", "chrome", chrome)
	} else {
		log.Warn("no chrome found, pdf export disabled")
	}

	srv := api.NewServer(st, notifier, uploader, pdf, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		notifier.Stop()
		if hook != nil {
			hook.Close()
		}
		closeStore()
	}()

	log.Info("starting poolproposal", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	log.Info("stopped")
}
