package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"pbsadmin/internal/config"
	"pbsadmin/internal/rules"
	"pbsadmin/internal/store"
	"pbsadmin/internal/timeutil"
)

// app bundles the store, clock and engine a command operates on.
type app struct {
	cfg    config.Config
	store  *store.Store
	clock  *timeutil.Clock
	engine *rules.Engine
	logger *slog.Logger
}

// openApp loads configuration, opens the database and wires the
// default rule registry into an engine. The --db flag overrides
// PBS_DB_PATH.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, CodedExitError(ExitCommandError, ErrCodeBadInput, "invalid configuration", err)
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	clock, err := timeutil.New(cfg.Timezone)
	if err != nil {
		return nil, CodedExitError(ExitCommandError, ErrCodeBadInput, "invalid timezone", err)
	}

	st, err := store.Open(cfg.DBPath, clock)
	if err != nil {
		return nil, CodedExitError(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}

	registry, err := rules.DefaultRegistry()
	if err != nil {
		st.Close()
		return nil, CodedExitError(ExitCommandError, ErrCodeGeneric, "invalid rule registry", err)
	}

	engine := rules.NewEngine(registry, st, clock,
		rules.WithFiringLog(st),
		rules.WithLogger(logger),
	)

	return &app{cfg: cfg, store: st, clock: clock, engine: engine, logger: logger}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// newFormatter builds the formatter a command writes through. Verbose
// diagnostics go to stderr so JSON on stdout stays parseable.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// reportError renders err as an error envelope before handing it back
// to cobra, so failing commands under --format json still produce a
// machine-readable response. Details ride along in the envelope only.
func reportError(f *OutputFormatter, err error, details interface{}) error {
	code := ErrCodeGeneric
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ErrCode != "" {
		code = exitErr.ErrCode
	}
	_ = f.Error(code, err.Error(), details)
	return err
}

// resultRow is the JSON and table shape for one action result.
type resultRow struct {
	Rule      string `json:"rule"`
	Action    string `json:"action"`
	Success   bool   `json:"success"`
	CreatedID string `json:"created_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func toResultRows(results []rules.ActionResult) []resultRow {
	rows := make([]resultRow, 0, len(results))
	for _, r := range results {
		row := resultRow{
			Rule:      r.RuleID,
			Action:    string(r.ActionType),
			Success:   r.Success,
			CreatedID: r.CreatedID,
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

// mutationResult is the shared output shape for commands that mutate
// an entity and run automation.
type mutationResult struct {
	Kind    string      `json:"kind"`
	ID      string      `json:"id"`
	Summary string      `json:"summary"`
	Fired   []resultRow `json:"fired"`
}

// outputMutation renders a mutation plus its automation results and
// maps partial action failure onto ExitFailure. Under --format json a
// partial failure emits the error envelope, with the mutation and its
// per-action results carried in the details.
func outputMutation(opts *RootOptions, cmd *cobra.Command, res mutationResult, results []rules.ActionResult) error {
	formatter := newFormatter(opts, cmd)
	formatter.VerboseLog("%d action(s) evaluated for %s %s", len(results), res.Kind, res.ID)

	failed := anyFailed(results)

	if opts.Format == "json" {
		if failed {
			_ = formatter.Error(ErrCodeActionFail, "one or more rule actions failed", res)
		} else if err := formatter.Success(res); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Summary)
		for _, row := range res.Fired {
			status := "ok"
			if !row.Success {
				status = "FAILED: " + row.Error
			}
			fmt.Fprintf(out, "  rule %s (%s): %s", row.Rule, row.Action, status)
			if row.CreatedID != "" {
				fmt.Fprintf(out, " -> %s", row.CreatedID)
			}
			fmt.Fprintln(out)
		}
		if failed {
			_ = formatter.Error(ErrCodeActionFail, "one or more rule actions failed", nil)
		}
	}

	if failed {
		return CodedExitError(ExitFailure, ErrCodeActionFail, "one or more rule actions failed", nil)
	}
	return nil
}

func anyFailed(results []rules.ActionResult) bool {
	for _, r := range results {
		if !r.Success {
			return true
		}
	}
	return false
}
