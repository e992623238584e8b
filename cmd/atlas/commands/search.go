// ABOUTME: CLI command to search tracked policies
// ABOUTME: Keyword search over the corpus snapshot with table or JSON output
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/policyatlas/policyatlas/internal/config"
)

var searchLimit int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tracked policies",
		Long: `Search tracked policies by keyword.

Matches against policy names, countries, areas, and descriptions,
ranked by where the terms hit.

Examples:
  atlas search "data protection"
  atlas search --limit 10 "ai safety"
  atlas search --format json privacy`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	// Validate limit flag
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := buildEngine(cfg, store)
	results := engine.Search(cmd.Context(), args[0], searchLimit)

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No policies found for query: %s\n", args[0])
		}
		return nil
	}

	// Format output
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		// Table format
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tCOUNTRY\tAREA\tPOLICY\n")
		fmt.Fprintf(w, "-----\t-------\t----\t------\n")

		for _, result := range results {
			fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\n",
				result.Score,
				truncate(result.Record.Country, 20),
				truncate(result.Record.PolicyArea, 20),
				truncate(result.Record.Name, 50))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
		}
	}

	return nil
}
