// ABOUTME: CLI command to rebuild the corpus snapshot from the database
// ABOUTME: Prints the resulting cache status for a quick corpus health check
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/corpus"
)

// NewRefreshCmd creates the refresh command
func NewRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the corpus snapshot and show its status",
		Long: `Load all approved policies from the database into a fresh corpus
snapshot and report what the cache would serve: record, country, and
area counts.`,
		RunE: runRefresh,
	}

	return cmd
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cache := corpus.New(store, cfg.CacheTTL)
	if _, err := cache.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("refreshing corpus: %w", err)
	}

	status := cache.Status()
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Corpus loaded: %d policies, %d countries, %d areas\n",
		status.RecordCount, status.CountryCount, status.AreaCount)
	return nil
}
