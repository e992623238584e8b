// ABOUTME: Centralized configuration for the PolicyAtlas query engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the query engine and its surfaces.
type Config struct {
	// Server settings
	Addr string

	// Storage settings
	DBPath string

	// Corpus cache settings
	CacheTTL        time.Duration
	RefreshInterval time.Duration

	// OpenAI settings (primary provider)
	OpenAIKey       string
	OpenAIModel     string
	ProviderTimeout time.Duration

	// Ollama settings (secondary provider)
	OllamaBaseURL string
	OllamaModel   string

	// Conversation settings
	HistoryLimit  int
	HistoryWindow time.Duration

	// Retrieval settings
	MaxResults   int
	PromptBudget int

	// Entity resolution settings
	FuzzyCutoff float64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:            getEnv("ATLAS_ADDR", ":8080"),
		DBPath:          getEnv("ATLAS_DB_PATH", ""),
		CacheTTL:        getEnvDuration("ATLAS_CACHE_TTL", time.Hour),
		RefreshInterval: getEnvDuration("ATLAS_REFRESH_INTERVAL", 15*time.Minute),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("ATLAS_OPENAI_MODEL", "gpt-4o-mini"),
		ProviderTimeout: getEnvDuration("ATLAS_PROVIDER_TIMEOUT", 20*time.Second),
		OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.2"),
		HistoryLimit:    getEnvInt("ATLAS_HISTORY_LIMIT", 8),
		HistoryWindow:   getEnvDuration("ATLAS_HISTORY_WINDOW", 24*time.Hour),
		MaxResults:      getEnvInt("ATLAS_MAX_RESULTS", 15),
		PromptBudget:    getEnvInt("ATLAS_PROMPT_BUDGET", 8000),
		FuzzyCutoff:     getEnvFloat("ATLAS_FUZZY_CUTOFF", 0.6),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.FuzzyCutoff < 0 || c.FuzzyCutoff > 1 {
		return fmt.Errorf("ATLAS_FUZZY_CUTOFF must be 0-1, got %f", c.FuzzyCutoff)
	}
	if c.HistoryLimit < 1 || c.HistoryLimit > 100 {
		return fmt.Errorf("ATLAS_HISTORY_LIMIT must be 1-100, got %d", c.HistoryLimit)
	}
	if c.MaxResults < 1 || c.MaxResults > 100 {
		return fmt.Errorf("ATLAS_MAX_RESULTS must be 1-100, got %d", c.MaxResults)
	}
	if c.PromptBudget < 500 {
		return fmt.Errorf("ATLAS_PROMPT_BUDGET must be at least 500, got %d", c.PromptBudget)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
