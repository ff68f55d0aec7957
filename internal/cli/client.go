package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/records"
	"pbsadmin/internal/rules"
)

// folderName turns a client name into a filesystem-friendly folder
// name, matching the records layout ("Dana Reyes" -> "Dana_Reyes").
func folderName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// ClientAddOptions holds flags for the client add command.
type ClientAddOptions struct {
	*RootOptions
	Name  string
	Email string
	Phone string
	Notes string
}

// NewClientCommand creates the client command group.
func NewClientCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(newClientAddCommand(rootOpts))
	cmd.AddCommand(newClientListCommand(rootOpts))
	return cmd
}

func newClientAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client and fire Client.created automation",
		Long: `Add a client record. The Client.created lifecycle event runs
through the automation engine, so rules such as the welcome note fire
immediately.

Example:
  pbsadmin client add --name "Dana Reyes" --email dana@example.com`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "client name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-text notes")

	return cmd
}

func runClientAdd(opts *ClientAddOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return reportError(f, err, nil)
	}
	defer a.Close()

	ctx := cmd.Context()
	client, err := a.store.CreateClient(ctx, domain.Client{
		Name:  opts.Name,
		Email: opts.Email,
		Phone: opts.Phone,
		Notes: opts.Notes,
	})
	if err != nil {
		return reportError(f, CodedExitError(ExitCommandError, ErrCodeStore, "failed to create client", err), nil)
	}

	results, err := a.engine.HandleLifecycleEvent(ctx, rules.LifecycleEvent{
		Trigger: rules.TriggerClientCreated,
		Entity:  rules.ClientEntity(client),
	})
	if err != nil {
		return reportError(f, CodedExitError(ExitFailure, ErrCodeGeneric, "automation failed", err), nil)
	}

	// Best-effort records folder; a filesystem problem should not fail
	// the client record itself.
	if a.cfg.RecordsDir != "" {
		folder := filepath.Join(a.cfg.RecordsDir, folderName(client.Name))
		if err := records.CreateClientFolder(folder); err != nil {
			a.logger.Warn("client records folder not created", "path", folder, "error", err)
		}
	}

	return outputMutation(opts.RootOptions, cmd, mutationResult{
		Kind:    "client",
		ID:      client.ID,
		Summary: fmt.Sprintf("Created client %s (%s)", client.Name, client.ID),
		Fired:   toResultRows(results),
	}, results)
}

func newClientListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientList(rootOpts, cmd)
		},
	}
}

func runClientList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	a, err := openApp(opts, cmd)
	if err != nil {
		return reportError(formatter, err, nil)
	}
	defer a.Close()

	clients, err := a.store.ListClients(cmd.Context())
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to list clients", err), nil)
	}

	formatter.VerboseLog("Matched %d client(s)", len(clients))
	if opts.Format == "json" {
		return formatter.Success(clients)
	}

	out := cmd.OutOrStdout()
	for _, c := range clients {
		fmt.Fprintf(out, "%s  %s", c.ID, c.Name)
		if c.Email != "" {
			fmt.Fprintf(out, "  <%s>", c.Email)
		}
		fmt.Fprintln(out)
	}
	return nil
}
