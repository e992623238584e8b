// ABOUTME: CLI command to run the HTTP API server
// ABOUTME: Warms the corpus cache, starts the refresh loop, and shuts down gracefully
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/httpapi"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the PolicyAtlas HTTP API server.

Serves the chat endpoint, keyword search, country/area listings, cache
maintenance, health, and Prometheus metrics. The corpus cache refreshes
in the background on ATLAS_REFRESH_INTERVAL.`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides ATLAS_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := buildEngine(cfg, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache before accepting traffic; a failure here is not fatal,
	// the first request will retry through Ensure.
	if _, err := engine.Cache().Refresh(ctx); err != nil {
		log.Printf("initial corpus load failed: %v", err)
	}
	go engine.Cache().Run(ctx, cfg.RefreshInterval)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewServer(engine).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	if !quiet {
		log.Printf("PolicyAtlas API listening on %s", cfg.Addr)
	}

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, draining connections...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}
