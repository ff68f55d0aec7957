package rules

import (
	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// ActionType enumerates the effects a rule can produce.
type ActionType string

const (
	ActionCreateTask   ActionType = "create.task"
	ActionCreateEvent  ActionType = "create.event"
	ActionUpdateStatus ActionType = "update.status"
	ActionNotify       ActionType = "notify"
)

// TaskBuilder materializes the fields of a new task from the triggering
// entity. Builders are pure; the clock is supplied for due-date
// computation.
type TaskBuilder func(e Entity, clock *timeutil.Clock) (domain.Task, error)

// EventBuilder materializes the fields of a new event from the
// triggering entity.
type EventBuilder func(e Entity, clock *timeutil.Clock) (domain.Event, error)

// MessageBuilder renders a notification message from the triggering
// entity.
type MessageBuilder func(e Entity) string

// Action is one effect of a matched rule. Exactly the fields relevant
// to Type are set; constructors below keep that pairing right.
type Action struct {
	Type ActionType

	// create.task / create.event payload builders.
	BuildTask  TaskBuilder
	BuildEvent EventBuilder

	// update.status targets, applied to the *triggering* entity.
	// For tasks the executor maintains the CompletedOn/Done pairing.
	TaskStatus  domain.TaskStatus
	EventStatus domain.EventStatus

	// notify payload.
	Message MessageBuilder
}

// CreateTask returns a create.task action.
func CreateTask(build TaskBuilder) Action {
	return Action{Type: ActionCreateTask, BuildTask: build}
}

// CreateEvent returns a create.event action.
func CreateEvent(build EventBuilder) Action {
	return Action{Type: ActionCreateEvent, BuildEvent: build}
}

// UpdateTaskStatus returns an update.status action for task triggers.
func UpdateTaskStatus(status domain.TaskStatus) Action {
	return Action{Type: ActionUpdateStatus, TaskStatus: status}
}

// UpdateEventStatus returns an update.status action for event triggers.
func UpdateEventStatus(status domain.EventStatus) Action {
	return Action{Type: ActionUpdateStatus, EventStatus: status}
}

// Notify returns a notify action.
func Notify(message MessageBuilder) Action {
	return Action{Type: ActionNotify, Message: message}
}

// Rule is one automation behavior: when Trigger fires and Condition
// matches the snapshot, Actions apply in declaration order. ID doubles
// as the AutomatedAction label stamped onto generated tasks.
type Rule struct {
	ID        string
	Trigger   Trigger
	Condition Condition
	Actions   []Action
}
