package rules

import (
	"context"
	"log/slog"

	"pbsadmin/internal/notify"
	"pbsadmin/internal/timeutil"
)

// FiringLog records which rules have fired for which entities, so a
// repeated lifecycle event (UI retry, re-sync from an external booking
// database) does not double-fire a rule. The SQLite store persists
// firings; a nil log disables the check.
type FiringLog interface {
	// MarkFired records the (trigger, entity, rule) firing. Returns
	// false if the firing was already recorded.
	MarkFired(ctx context.Context, trigger Trigger, entityID, ruleID string) (bool, error)
}

// Engine composes the registry, evaluator, and executor behind the
// single public entry point, HandleLifecycleEvent.
//
// The engine is stateless between calls: each invocation is
// independent, and all mutable state lives in the entity store.
type Engine struct {
	registry  *Registry
	evaluator *Evaluator
	executor  *Executor
	firings   FiringLog
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the notification channel for notify actions.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Engine) { e.executor.notifier = n }
}

// WithFiringLog enables double-firing suppression.
func WithFiringLog(log FiringLog) Option {
	return func(e *Engine) { e.firings = log }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.evaluator.logger = logger
		e.executor.logger = logger
	}
}

// NewEngine creates an engine over a frozen registry and an entity
// store. The clock anchors due-date computation to the business
// timezone.
func NewEngine(registry *Registry, store EntityStore, clock *timeutil.Clock, opts ...Option) *Engine {
	logger := slog.Default()
	e := &Engine{
		registry:  registry,
		evaluator: NewEvaluator(registry, logger),
		executor:  NewExecutor(store, nil, clock, logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleLifecycleEvent evaluates a lifecycle event against the registry
// and executes the matched rules' actions.
//
// Contract:
//   - unsupported trigger kinds (or a snapshot that does not match its
//     trigger) return UnsupportedTriggerError with zero store calls
//   - no matching rules returns an empty, non-nil result list and nil
//     error - the common case, not a failure
//   - per-action failures are absorbed into the result list; the call
//     itself still succeeds
func (e *Engine) HandleLifecycleEvent(ctx context.Context, event LifecycleEvent) ([]ActionResult, error) {
	if err := event.validate(); err != nil {
		return nil, err
	}

	matched := e.evaluator.Match(event)
	if len(matched) == 0 {
		return []ActionResult{}, nil
	}

	if e.firings != nil {
		matched = e.filterFired(ctx, matched, event)
		if len(matched) == 0 {
			return []ActionResult{}, nil
		}
	}

	results := e.executor.Execute(ctx, matched, event)

	e.logger.Debug("lifecycle event handled",
		"trigger", event.Trigger,
		"entity_id", event.Entity.ID(),
		"matched", len(matched),
		"results", len(results),
	)
	return results, nil
}

// Registry returns the engine's rule registry for introspection.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// filterFired drops rules that already fired for this (trigger, entity)
// pair. A firing-log error keeps the rule in the pass: losing
// idempotency bookkeeping must not silence automation.
func (e *Engine) filterFired(ctx context.Context, matched []Rule, event LifecycleEvent) []Rule {
	kept := matched[:0:0]
	for _, rule := range matched {
		first, err := e.firings.MarkFired(ctx, event.Trigger, event.Entity.ID(), rule.ID)
		if err != nil {
			e.logger.Error("firing log unavailable, executing anyway",
				"rule_id", rule.ID,
				"entity_id", event.Entity.ID(),
				"error", err,
			)
			kept = append(kept, rule)
			continue
		}
		if !first {
			e.logger.Debug("rule already fired for entity, skipping",
				"rule_id", rule.ID,
				"trigger", event.Trigger,
				"entity_id", event.Entity.ID(),
			)
			continue
		}
		kept = append(kept, rule)
	}
	return kept
}
