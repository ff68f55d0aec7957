package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/notify"
	"pbsadmin/internal/timeutil"
)

// EntityStore is the slice of the entity store the executor writes
// through. The engine depends only on this interface; the SQLite store
// and the in-memory test store both satisfy it.
type EntityStore interface {
	CreateTask(ctx context.Context, t domain.Task) (domain.Task, error)
	CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus, completedOn *time.Time) (domain.Task, error)
	UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error)
}

// ActionResult records the outcome of one action application. The
// caller (host UI) inspects the list to surface partial failure without
// failing the overall operation.
type ActionResult struct {
	RuleID     string
	ActionType ActionType
	Success    bool
	CreatedID  string
	Err        error
}

// Executor materializes matched rules' actions against the entity
// store, in order, within a single logical pass per triggering event.
//
// Execution is best-effort, not transactional: a failed action is
// recorded in its result and execution continues with the next action
// and the next rule. Already-applied actions are never rolled back.
type Executor struct {
	store    EntityStore
	notifier notify.Notifier
	clock    *timeutil.Clock
	logger   *slog.Logger
}

// NewExecutor creates an executor. A nil notifier falls back to the
// log-backed channel.
func NewExecutor(store EntityStore, notifier notify.Notifier, clock *timeutil.Clock, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.LogNotifier{Logger: logger}
	}
	return &Executor{store: store, notifier: notifier, clock: clock, logger: logger}
}

// Execute applies the matched rules' actions in rule-declaration order,
// then action-declaration order within each rule. Always returns one
// result per action attempted.
func (x *Executor) Execute(ctx context.Context, matched []Rule, event LifecycleEvent) []ActionResult {
	results := make([]ActionResult, 0, len(matched))

	for _, rule := range matched {
		for _, action := range rule.Actions {
			res := x.apply(ctx, rule, action, event)
			if res.Err != nil {
				x.logger.Error("action failed",
					"rule_id", rule.ID,
					"action", action.Type,
					"entity_id", event.Entity.ID(),
					"error", res.Err,
				)
			} else {
				x.logger.Info("action applied",
					"rule_id", rule.ID,
					"action", action.Type,
					"entity_id", event.Entity.ID(),
					"created_id", res.CreatedID,
				)
			}
			results = append(results, res)
		}
	}

	return results
}

// apply performs a single action. Panics in payload builders are
// converted to a failed result so one malformed rule cannot take down
// the pass.
func (x *Executor) apply(ctx context.Context, rule Rule, action Action, event LifecycleEvent) (res ActionResult) {
	res = ActionResult{RuleID: rule.ID, ActionType: action.Type}

	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Err = fmt.Errorf("action %s of rule %s panicked: %v", action.Type, rule.ID, r)
		}
	}()

	switch action.Type {
	case ActionCreateTask:
		res.CreatedID, res.Err = x.createTask(ctx, rule, action, event.Entity)

	case ActionCreateEvent:
		res.CreatedID, res.Err = x.createEvent(ctx, action, event.Entity)

	case ActionUpdateStatus:
		res.Err = x.updateStatus(ctx, action, event.Entity)

	case ActionNotify:
		// Fire-and-forget: send failures are logged, never recorded as
		// action failure.
		if msg := action.Message(event.Entity); msg != "" {
			if err := x.notifier.Send(ctx, msg); err != nil {
				x.logger.Warn("notification send failed",
					"rule_id", rule.ID,
					"error", err,
				)
			}
		}

	default:
		res.Err = fmt.Errorf("unknown action type %q", action.Type)
	}

	res.Success = res.Err == nil
	return res
}

func (x *Executor) createTask(ctx context.Context, rule Rule, action Action, entity Entity) (string, error) {
	task, err := action.BuildTask(entity, x.clock)
	if err != nil {
		return "", fmt.Errorf("build task: %w", err)
	}
	if task.AutomatedAction == "" {
		task.AutomatedAction = rule.ID
	}
	if err := task.Validate(); err != nil {
		return "", err
	}

	created, err := x.store.CreateTask(ctx, task)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return created.ID, nil
}

func (x *Executor) createEvent(ctx context.Context, action Action, entity Entity) (string, error) {
	event, err := action.BuildEvent(entity, x.clock)
	if err != nil {
		return "", fmt.Errorf("build event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return "", err
	}

	created, err := x.store.CreateEvent(ctx, event)
	if err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	return created.ID, nil
}

// updateStatus mutates the *triggering* entity, never a new one. For
// tasks the CompletedOn/Done pairing is maintained here: transitioning
// into Done stamps CompletedOn with the current instant, any other
// target clears it.
func (x *Executor) updateStatus(ctx context.Context, action Action, entity Entity) error {
	switch {
	case entity.Task != nil:
		if action.TaskStatus == "" {
			return fmt.Errorf("update.status: no task status for task trigger")
		}
		var completedOn *time.Time
		if action.TaskStatus == domain.TaskDone {
			now := x.clock.Now()
			completedOn = &now
		}
		_, err := x.store.UpdateTaskStatus(ctx, entity.Task.ID, action.TaskStatus, completedOn)
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		return nil

	case entity.Event != nil:
		if action.EventStatus == "" {
			return fmt.Errorf("update.status: no event status for event trigger")
		}
		_, err := x.store.UpdateEventStatus(ctx, entity.Event.ID, action.EventStatus)
		if err != nil {
			return fmt.Errorf("update event status: %w", err)
		}
		return nil
	}

	return fmt.Errorf("update.status: triggering entity %s has no status", entity.Kind())
}
