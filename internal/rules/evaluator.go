package rules

import "log/slog"

// Evaluator matches lifecycle events against the registry.
type Evaluator struct {
	registry *Registry
	logger   *slog.Logger
}

// NewEvaluator creates an evaluator over a frozen registry.
func NewEvaluator(registry *Registry, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{registry: registry, logger: logger}
}

// Match returns the ordered subset of registered rules whose condition
// holds for the event's entity snapshot.
//
// Condition evaluation fails closed: a panic inside a condition is
// recovered, logged, and treated as "rule does not match". A malformed
// rule never blocks unrelated rules from firing and never surfaces to
// the caller.
func (ev *Evaluator) Match(event LifecycleEvent) []Rule {
	var matched []Rule
	for _, rule := range ev.registry.RulesFor(event.Trigger) {
		if ev.safeMatches(rule, event.Entity) {
			ev.logger.Debug("rule matched",
				"rule_id", rule.ID,
				"trigger", event.Trigger,
				"entity_id", event.Entity.ID(),
			)
			matched = append(matched, rule)
		}
	}
	return matched
}

// safeMatches evaluates one condition, converting panics to non-match.
func (ev *Evaluator) safeMatches(rule Rule, entity Entity) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ev.logger.Warn("condition panicked, treating as non-match",
				"rule_id", rule.ID,
				"entity_id", entity.ID(),
				"panic", r,
			)
			ok = false
		}
	}()
	return rule.Condition.Matches(entity)
}
