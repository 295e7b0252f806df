package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkpadhq/inkpad-export/internal/api"
	"github.com/inkpadhq/inkpad-export/internal/config"
	"github.com/inkpadhq/inkpad-export/internal/export"
	"github.com/inkpadhq/inkpad-export/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The service never prompts or writes to disk; artifacts stream back
	// over HTTP, so both collaborators are inert.
	exporter, err := export.New(cfg, nil, nil, log)
	if err != nil {
		log.Error("exporter init failed", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(cfg, exporter, log)
	orch.Start(ctx)

	srv := api.NewServer(exporter, orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting inkpad-export", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
