package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbsadmin/internal/config"
	"pbsadmin/internal/records"
	"pbsadmin/internal/timeutil"
)

// BackupOptions holds flags for the backup command.
type BackupOptions struct {
	*RootOptions
	Dir string
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the database to a timestamped backup",
		Long: `Copy the SQLite database into the backup directory under a
timestamped name. Run it between commands; the tool holds no long-lived
write transaction.

Examples:
  pbsadmin backup
  pbsadmin backup --dir /mnt/external/pbs-backups`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "backup directory (defaults to PBS_BACKUP_DIR)")

	return cmd
}

func runBackup(opts *BackupOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg, err := config.Load()
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeBadInput, "invalid configuration", err), nil)
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if opts.Dir != "" {
		cfg.BackupDir = opts.Dir
	}

	clock, err := timeutil.New(cfg.Timezone)
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeBadInput, "invalid timezone", err), nil)
	}

	path, err := records.Backup(cfg.DBPath, cfg.BackupDir, clock)
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeWriteFailed, "backup failed", err), nil)
	}

	formatter.VerboseLog("Copied %s", cfg.DBPath)
	if opts.Format == "json" {
		return formatter.Success(map[string]string{"backup": path})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
	return nil
}
