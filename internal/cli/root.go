// Package cli implements the pbsadmin command-line surface. Every
// mutating command routes the resulting lifecycle event through the
// automation engine, so rules fire the same way they would from a GUI
// host.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // SQLite database path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pbsadmin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pbsadmin",
		Short: "PBS Admin - pet behaviour business administration",
		Long:  "Single-user admin tool for a pet behaviour business: clients, events, tasks and the automation rules that connect them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to PBS_DB_PATH)")

	// Add subcommands
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewClientCommand(opts))
	cmd.AddCommand(NewEventCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewFireCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
