// ABOUTME: Root command and global flags for the PolicyAtlas CLI
// ABOUTME: Wires all subcommands and shared output options
package commands

import (
	"github.com/spf13/cobra"
)

var (
	dbPath       string
	outputFormat string
	quiet        bool
	verbose      bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "PolicyAtlas policy query assistant",
		Long: `PolicyAtlas answers questions about tracked government policies.

It keeps an approved-policy corpus in SQLite, resolves countries and
policy areas from conversational messages, and generates grounded
answers through OpenAI with an Ollama fallback.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database (default: ~/.local/share/policyatlas/atlas.db)")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table or json")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		NewServeCmd(),
		NewMCPCmd(),
		NewChatCmd(),
		NewSearchCmd(),
		NewRefreshCmd(),
		NewImportCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
