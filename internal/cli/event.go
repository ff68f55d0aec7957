package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/rules"
	"pbsadmin/internal/store"
	"pbsadmin/internal/timeutil"
)

// EventAddOptions holds flags for the event add command.
type EventAddOptions struct {
	*RootOptions
	ClientID string
	Type     string
	Date     string
	Notes    string
}

// NewEventCommand creates the event command group.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events",
	}
	cmd.AddCommand(newEventAddCommand(rootOpts))
	cmd.AddCommand(newEventCompleteCommand(rootOpts))
	cmd.AddCommand(newEventListCommand(rootOpts))
	return cmd
}

func newEventAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event and fire Event.created automation",
		Long: `Add an event for a client. The date accepts RFC 3339 with any
offset; it is stored canonically in UTC. The Event.created lifecycle
event runs through the automation engine.

Examples:
  pbsadmin event add --client 0195... --type Booking --date 2025-03-10T09:00:00+11:00
  pbsadmin event add --client 0195... --type TrainingSession --date 2025-04-07T09:00:00+10:00`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ClientID, "client", "", "client ID (required)")
	_ = cmd.MarkFlagRequired("client")
	cmd.Flags().StringVar(&opts.Type, "type", "", "event type, e.g. Booking, Consultation, TrainingSession (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&opts.Date, "date", "", "event date, RFC 3339 (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-text notes")

	return cmd
}

func runEventAdd(opts *EventAddOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	date, err := timeutil.Parse(opts.Date)
	if err != nil {
		return reportError(f, CodedExitError(ExitCommandError, ErrCodeBadInput, "invalid --date", err), nil)
	}

	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return reportError(f, err, nil)
	}
	defer a.Close()

	ctx := cmd.Context()
	event, err := a.store.CreateEvent(ctx, domain.Event{
		ClientID: opts.ClientID,
		Type:     domain.EventType(opts.Type),
		Date:     date,
		Notes:    opts.Notes,
		Status:   domain.EventStatusScheduled,
	})
	if err != nil {
		return reportError(f, CodedExitError(ExitCommandError, ErrCodeStore, "failed to create event", err), nil)
	}

	results, err := a.engine.HandleLifecycleEvent(ctx, rules.LifecycleEvent{
		Trigger: rules.TriggerEventCreated,
		Entity:  rules.EventEntity(event),
	})
	if err != nil {
		return reportError(f, CodedExitError(ExitFailure, ErrCodeGeneric, "automation failed", err), nil)
	}

	return outputMutation(opts.RootOptions, cmd, mutationResult{
		Kind:    "event",
		ID:      event.ID,
		Summary: fmt.Sprintf("Created %s event %s on %s", event.Type, event.ID, timeutil.Format(event.Date)),
		Fired:   toResultRows(results),
	}, results)
}

func newEventCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <event-id>",
		Short: "Mark an event Completed and fire Event.updated automation",
		Args:  cobra.ExactArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventComplete(rootOpts, args[0], cmd)
		},
	}
}

func runEventComplete(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	a, err := openApp(opts, cmd)
	if err != nil {
		return reportError(f, err, nil)
	}
	defer a.Close()

	ctx := cmd.Context()
	event, err := a.store.UpdateEventStatus(ctx, id, domain.EventStatusCompleted)
	if err != nil {
		code := ErrCodeStore
		if store.IsNotFound(err) {
			code = ErrCodeNotFound
		}
		return reportError(f, CodedExitError(ExitCommandError, code, "failed to update event", err), nil)
	}

	results, err := a.engine.HandleLifecycleEvent(ctx, rules.LifecycleEvent{
		Trigger: rules.TriggerEventUpdated,
		Entity:  rules.EventEntity(event),
	})
	if err != nil {
		return reportError(f, CodedExitError(ExitFailure, ErrCodeGeneric, "automation failed", err), nil)
	}

	return outputMutation(opts, cmd, mutationResult{
		Kind:    "event",
		ID:      event.ID,
		Summary: fmt.Sprintf("Event %s marked %s", event.ID, event.Status),
		Fired:   toResultRows(results),
	}, results)
}

// EventListOptions holds flags for the event list command.
type EventListOptions struct {
	*RootOptions
	ClientID string
	Type     string
}

func newEventListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ClientID, "client", "", "filter by client ID")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter by event type")

	return cmd
}

func runEventList(opts *EventListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return reportError(formatter, err, nil)
	}
	defer a.Close()

	filter := store.EventFilter{ClientID: opts.ClientID, Type: domain.EventType(opts.Type)}
	events, err := a.store.ListEvents(cmd.Context(), filter)
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to list events", err), nil)
	}

	formatter.VerboseLog("Matched %d event(s)", len(events))
	if opts.Format == "json" {
		return formatter.Success(events)
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		fmt.Fprintf(out, "%s  %-16s %s  %s\n", e.ID, e.Type, timeutil.Format(e.Date), e.Status)
	}
	return nil
}
