// ABOUTME: Standalone HTTP server entry point for the PolicyAtlas API
// ABOUTME: Thin wrapper; the atlas CLI's serve command offers the same with flags
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/core"
	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/httpapi"
	"github.com/policyatlas/policyatlas/internal/llm"
	"github.com/policyatlas/policyatlas/internal/storage"
)

func main() {
	// Load .env file if present (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	var providers []llm.Provider
	if cfg.OpenAIKey != "" {
		p, err := llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Printf("OpenAI provider unavailable: %v", err)
		} else {
			providers = append(providers, p)
		}
	}
	providers = append(providers, llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel))
	chain := llm.NewChain(cfg.ProviderTimeout, providers...)

	cache := corpus.New(store, cfg.CacheTTL)
	engine := core.NewEngine(cache, store, chain, core.Options{
		HistoryLimit:  cfg.HistoryLimit,
		HistoryWindow: cfg.HistoryWindow,
		MaxResults:    cfg.MaxResults,
		PromptBudget:  cfg.PromptBudget,
		FuzzyCutoff:   cfg.FuzzyCutoff,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := cache.Refresh(ctx); err != nil {
		log.Printf("initial corpus load failed: %v", err)
	}
	go cache.Run(ctx, cfg.RefreshInterval)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewServer(engine).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	log.Printf("PolicyAtlas API listening on %s", cfg.Addr)

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received, draining connections...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}
}
