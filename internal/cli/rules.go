package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbsadmin/internal/rules"
)

// ruleRow is the JSON shape for one registered rule.
type ruleRow struct {
	ID        string   `json:"id"`
	Trigger   string   `json:"trigger"`
	Condition string   `json:"condition"`
	Actions   []string `json:"actions"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List registered automation rules",
		Long: `List the automation rules the engine evaluates, in the order
they are evaluated.

Examples:
  pbsadmin rules
  pbsadmin rules --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, cmd)
		},
	}
}

func runRules(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	registry, err := rules.DefaultRegistry()
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeGeneric, "invalid rule registry", err), nil)
	}

	rows := make([]ruleRow, 0, registry.Len())
	for _, rule := range registry.Rules() {
		actions := make([]string, 0, len(rule.Actions))
		for _, a := range rule.Actions {
			actions = append(actions, string(a.Type))
		}
		rows = append(rows, ruleRow{
			ID:        rule.ID,
			Trigger:   string(rule.Trigger),
			Condition: rule.Condition.Describe(),
			Actions:   actions,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(rows)
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		fmt.Fprintf(out, "%s\n", row.ID)
		fmt.Fprintf(out, "  trigger:   %s\n", row.Trigger)
		fmt.Fprintf(out, "  condition: %s\n", row.Condition)
		fmt.Fprintf(out, "  actions:   %v\n", row.Actions)
	}
	return nil
}
