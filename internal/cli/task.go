package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/rules"
	"pbsadmin/internal/store"
	"pbsadmin/internal/timeutil"
)

// NewTaskCommand creates the task command group.
func NewTaskCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(newTaskListCommand(rootOpts))
	cmd.AddCommand(newTaskDoneCommand(rootOpts))
	return cmd
}

// TaskListOptions holds flags for the task list command.
type TaskListOptions struct {
	*RootOptions
	Status   string
	ClientID string
}

func newTaskListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TaskListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks ordered by due date",
		Long: `List tasks, optionally filtered by status and client.

Examples:
  pbsadmin task list
  pbsadmin task list --status Pending --client 0195...`,
		Args: cobra.NoArgs,

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status (Pending, InProgress, Blocked, Done, Canceled)")
	cmd.Flags().StringVar(&opts.ClientID, "client", "", "filter by client ID")

	return cmd
}

func runTaskList(opts *TaskListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	status := domain.TaskStatus(opts.Status)
	if opts.Status != "" && !status.Valid() {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeBadInput,
			fmt.Sprintf("unknown status %q", opts.Status), nil), nil)
	}

	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return reportError(formatter, err, nil)
	}
	defer a.Close()

	tasks, err := a.store.ListTasks(cmd.Context(), store.TaskFilter{Status: status, ClientID: opts.ClientID})
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to list tasks", err), nil)
	}

	formatter.VerboseLog("Matched %d task(s)", len(tasks))
	if opts.Format == "json" {
		return formatter.Success(tasks)
	}

	out := cmd.OutOrStdout()
	for _, t := range tasks {
		due := "-"
		if !t.DueDate.IsZero() {
			due = timeutil.Format(t.DueDate)
		}
		fmt.Fprintf(out, "%s  P%d %-10s due %-20s  %s\n", t.ID, t.Priority, t.Status, due, t.Description)
		if t.AutomatedAction != "" {
			fmt.Fprintf(out, "    automated: %s (%s)\n", t.AutomatedAction, t.TriggeredBy)
		}
	}
	return nil
}

func newTaskDoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task Done and fire Task.updated automation",
		Long: `Mark a task Done. The completion timestamp is stamped from the
application clock, and the Task.updated lifecycle event runs through
the automation engine.`,
		Args: cobra.ExactArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskDone(rootOpts, args[0], cmd)
		},
	}
}

func runTaskDone(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	a, err := openApp(opts, cmd)
	if err != nil {
		return reportError(f, err, nil)
	}
	defer a.Close()

	ctx := cmd.Context()
	now := a.clock.Now()
	task, err := a.store.UpdateTaskStatus(ctx, id, domain.TaskDone, &now)
	if err != nil {
		code := ErrCodeStore
		if store.IsNotFound(err) {
			code = ErrCodeNotFound
		}
		return reportError(f, CodedExitError(ExitCommandError, code, "failed to update task", err), nil)
	}

	results, err := a.engine.HandleLifecycleEvent(ctx, rules.LifecycleEvent{
		Trigger: rules.TriggerTaskUpdated,
		Entity:  rules.TaskEntity(task),
	})
	if err != nil {
		return reportError(f, CodedExitError(ExitFailure, ErrCodeGeneric, "automation failed", err), nil)
	}

	return outputMutation(opts, cmd, mutationResult{
		Kind:    "task",
		ID:      task.ID,
		Summary: fmt.Sprintf("Task %s marked %s", task.ID, task.Status),
		Fired:   toResultRows(results),
	}, results)
}
