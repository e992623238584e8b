// ABOUTME: CLI command to bulk-import policy records from a JSON file
// ABOUTME: Validates each record and reports how many were saved or skipped
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/policyatlas/policyatlas/internal/config"
	"github.com/policyatlas/policyatlas/internal/models"
)

var importStatus string

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import policy records from a JSON file",
		Long: `Import policy records from a JSON file containing an array of
policy objects (country, policy_area, name, description,
implementation_year, status).

Records without a status get the --status default. Only approved
records become visible to the query engine.

Examples:
  atlas import policies.json
  atlas import --status pending submissions.json`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringVar(&importStatus, "status", models.PolicyStatusApproved, "Status for records that do not carry one")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var records []models.PolicyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no policy records", args[0])
	}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	saved, skipped := 0, 0
	for i := range records {
		record := &records[i]
		if record.Status == "" {
			record.Status = importStatus
		}
		if err := record.Validate(); err != nil {
			skipped++
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping record %d: %v\n", i, err)
			}
			continue
		}
		if err := store.SavePolicy(ctx, record); err != nil {
			return fmt.Errorf("saving %q: %w", record.Name, err)
		}
		saved++
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s), skipped %d\n", saved, skipped)
	}
	return nil
}
