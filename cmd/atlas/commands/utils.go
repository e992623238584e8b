// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Storage, engine, and provider-chain construction plus small formatting utilities
package commands

import (
	"fmt"
	"log"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/core"
	"github.com/policyatlas/policyatlas/internal/corpus"
	"github.com/policyatlas/policyatlas/internal/llm"
	"github.com/policyatlas/policyatlas/internal/storage"
)

// openStorage opens the database, preferring the --db flag over config.
func openStorage(cfg *config.Config) (*storage.Storage, error) {
	path := cfg.DBPath
	if dbPath != "" {
		path = dbPath
	}
	store, err := storage.NewStorage(path)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// buildChain assembles the provider fallback chain. OpenAI leads when a key
// is configured; Ollama is always present as the local fallback.
func buildChain(cfg *config.Config) *llm.Chain {
	var providers []llm.Provider

	if cfg.OpenAIKey != "" {
		p, err := llm.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Printf("OpenAI provider unavailable: %v", err)
		} else {
			providers = append(providers, p)
			if verbose {
				log.Printf("OpenAI provider enabled (model %s)", cfg.OpenAIModel)
			}
		}
	}

	providers = append(providers, llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel))

	return llm.NewChain(cfg.ProviderTimeout, providers...)
}

// buildEngine wires the full query pipeline from config.
func buildEngine(cfg *config.Config, store *storage.Storage) *core.Engine {
	cache := corpus.New(store, cfg.CacheTTL)
	return core.NewEngine(cache, store, buildChain(cfg), core.Options{
		HistoryLimit:  cfg.HistoryLimit,
		HistoryWindow: cfg.HistoryWindow,
		MaxResults:    cfg.MaxResults,
		PromptBudget:  cfg.PromptBudget,
		FuzzyCutoff:   cfg.FuzzyCutoff,
	})
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
