package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/api"
	"github.com/dgallion1/docxlist/internal/config"
	"github.com/dgallion1/docxlist/internal/pipeline"
	"github.com/dgallion1/docxlist/internal/stats"
	"github.com/dgallion1/docxlist/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "docxlist server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := cfg.Logger("docxlist")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := store.New(cfg.StoreDir)
	if err != nil {
		return err
	}
	renderStats := stats.NewRenderStats(time.Hour)

	orch := pipeline.NewOrchestrator(cfg, blobs, renderStats, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, blobs, renderStats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting docxlist", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDir), zap.Int("workers", cfg.WorkerCount))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		orch.Stop()
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	orch.Stop()
	return err
}
