// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to query PolicyAtlas via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs PolicyAtlas as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to query the policy corpus via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  atlas mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "policyatlas": {
  #       "command": "atlas",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.OpenAIKey == "" && !quiet {
		log.Println("Warning: OPENAI_API_KEY not set - answers fall back to Ollama or templates")
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg, store)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache so the first tool call answers from resident data.
	if _, err := engine.Cache().Refresh(ctx); err != nil {
		log.Printf("initial corpus load failed: %v", err)
	}
	go engine.Cache().Run(ctx, cfg.RefreshInterval)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"PolicyAtlas Query Engine",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, engine)

	if !quiet {
		log.Println("PolicyAtlas MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		// Close storage (flushes pending writes, closes DB)
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
