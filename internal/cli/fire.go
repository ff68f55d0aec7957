package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/rules"
	"pbsadmin/internal/timeutil"
)

// FireOptions holds flags for the fire command.
type FireOptions struct {
	*RootOptions
	EntityFile string
}

// entityDoc is the YAML shape of a --entity file: exactly one of the
// sections set, matching the trigger's entity kind.
type entityDoc struct {
	Client *clientDoc `yaml:"client"`
	Event  *eventDoc  `yaml:"event"`
	Task   *taskDoc   `yaml:"task"`
}

type clientDoc struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	Notes string `yaml:"notes"`
}

type eventDoc struct {
	ID       string `yaml:"id"`
	ClientID string `yaml:"client_id"`
	Type     string `yaml:"type"`
	Date     string `yaml:"date"`
	Notes    string `yaml:"notes"`
	Status   string `yaml:"status"`
}

type taskDoc struct {
	ID          string `yaml:"id"`
	ClientID    string `yaml:"client_id"`
	Description string `yaml:"description"`
	DueDate     string `yaml:"due_date"`
	Status      string `yaml:"status"`
	Priority    int    `yaml:"priority"`
}

// NewFireCommand creates the fire command.
func NewFireCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FireOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fire <trigger>",
		Short: "Fire a lifecycle event from an entity snapshot",
		Long: `Fire a lifecycle trigger against an entity snapshot loaded from a
YAML file, without mutating the entity itself. Useful for replaying
automation after editing rules, and for diagnosing why a rule did or
did not fire.

The snapshot file holds one section matching the trigger's entity kind:

  event:
    id: "0195..."
    client_id: "0195..."
    type: Booking
    date: 2025-03-10T09:00:00+11:00

Supported triggers: ` + triggerList() + `

Examples:
  pbsadmin fire Event.created --entity booking.yaml
  pbsadmin fire Client.created --entity client.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFire(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.EntityFile, "entity", "", "path to YAML entity snapshot (required)")
	_ = cmd.MarkFlagRequired("entity")

	return cmd
}

// triggerList renders the supported trigger kinds for help and error
// output.
func triggerList() string {
	supported := rules.SupportedTriggers()
	names := make([]string, 0, len(supported))
	for _, tr := range supported {
		names = append(names, string(tr))
	}
	return strings.Join(names, ", ")
}

func runFire(opts *FireOptions, trigger string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	entity, err := loadEntityFile(opts.EntityFile)
	if err != nil {
		return reportError(f, CodedExitError(ExitCommandError, ErrCodeBadInput, "invalid --entity file", err), nil)
	}

	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return reportError(f, err, nil)
	}
	defer a.Close()

	f.VerboseLog("Loaded %s snapshot from %s", entity.Kind(), opts.EntityFile)
	f.VerboseLog("Evaluating %d rule(s)", a.engine.Registry().Len())

	results, err := a.engine.HandleLifecycleEvent(cmd.Context(), rules.LifecycleEvent{
		Trigger: rules.Trigger(trigger),
		Entity:  entity,
	})
	if err != nil {
		if rules.IsUnsupportedTrigger(err) {
			return reportError(f, CodedExitError(ExitCommandError, ErrCodeTrigger, "cannot fire", err),
				rules.SupportedTriggers())
		}
		return reportError(f, CodedExitError(ExitFailure, ErrCodeGeneric, "automation failed", err), nil)
	}

	return outputMutation(opts.RootOptions, cmd, mutationResult{
		Kind:    "fire",
		ID:      entity.ID(),
		Summary: fmt.Sprintf("Fired %s against %s %s: %d action(s)", trigger, entity.Kind(), entity.ID(), len(results)),
		Fired:   toResultRows(results),
	}, results)
}

func loadEntityFile(path string) (rules.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Entity{}, err
	}

	var doc entityDoc
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return rules.Entity{}, fmt.Errorf("parse %s: %w", path, err)
	}

	set := 0
	for _, present := range []bool{doc.Client != nil, doc.Event != nil, doc.Task != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return rules.Entity{}, fmt.Errorf("%s: exactly one of client, event, task must be set", path)
	}

	switch {
	case doc.Client != nil:
		return rules.ClientEntity(domain.Client{
			ID:    doc.Client.ID,
			Name:  doc.Client.Name,
			Email: doc.Client.Email,
			Phone: doc.Client.Phone,
			Notes: doc.Client.Notes,
		}), nil
	case doc.Event != nil:
		date, err := timeutil.Parse(doc.Event.Date)
		if err != nil {
			return rules.Entity{}, fmt.Errorf("event date: %w", err)
		}
		return rules.EventEntity(domain.Event{
			ID:       doc.Event.ID,
			ClientID: doc.Event.ClientID,
			Type:     domain.EventType(doc.Event.Type),
			Date:     date,
			Notes:    doc.Event.Notes,
			Status:   domain.EventStatus(doc.Event.Status),
		}), nil
	default:
		task := domain.Task{
			ID:          doc.Task.ID,
			ClientID:    doc.Task.ClientID,
			Description: doc.Task.Description,
			Status:      domain.TaskStatus(doc.Task.Status),
			Priority:    doc.Task.Priority,
		}
		if doc.Task.DueDate != "" {
			due, err := timeutil.Parse(doc.Task.DueDate)
			if err != nil {
				return rules.Entity{}, fmt.Errorf("task due_date: %w", err)
			}
			task.DueDate = due
		}
		return rules.TaskEntity(task), nil
	}
}
