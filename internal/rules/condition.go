package rules

import (
	"fmt"

	"pbsadmin/internal/domain"
)

// Condition is a pure, side-effect-free predicate over the triggering
// entity snapshot. The concrete types below form the declarative
// condition vocabulary; rules never embed arbitrary executable config.
//
// A condition that panics is recovered by the evaluator and treated as
// a non-match (fail closed).
type Condition interface {
	Matches(e Entity) bool
	// Describe renders the condition for rule listings and logs.
	Describe() string
}

// Always matches every entity. Used for triggers where the transition
// itself is the whole condition (e.g. Client.created).
type Always struct{}

func (Always) Matches(Entity) bool { return true }
func (Always) Describe() string    { return "always" }

// EventTypeEquals matches event snapshots of one event type.
type EventTypeEquals struct {
	Type domain.EventType
}

func (c EventTypeEquals) Matches(e Entity) bool {
	return e.Event != nil && e.Event.Type == c.Type
}

func (c EventTypeEquals) Describe() string {
	return fmt.Sprintf("eventType == %q", c.Type)
}

// EventCompleted matches event snapshots of one type that have reached
// a given status. Used with Event.updated triggers, where the snapshot
// carries the post-update state.
type EventCompleted struct {
	Type   domain.EventType
	Status domain.EventStatus
}

func (c EventCompleted) Matches(e Entity) bool {
	return e.Event != nil && e.Event.Type == c.Type && e.Event.Status == c.Status
}

func (c EventCompleted) Describe() string {
	return fmt.Sprintf("eventType == %q && status == %q", c.Type, c.Status)
}
