package rules

import (
	"fmt"

	"pbsadmin/internal/domain"
)

// Trigger identifies an entity-lifecycle transition that can fire
// automation rules.
type Trigger string

const (
	TriggerClientCreated Trigger = "Client.created"
	TriggerEventCreated  Trigger = "Event.created"
	TriggerEventUpdated  Trigger = "Event.updated"
	TriggerTaskCreated   Trigger = "Task.created"
	TriggerTaskUpdated   Trigger = "Task.updated"
)

// SupportedTriggers lists every trigger kind the engine accepts, in a
// stable order for display.
func SupportedTriggers() []Trigger {
	return []Trigger{
		TriggerClientCreated,
		TriggerEventCreated,
		TriggerEventUpdated,
		TriggerTaskCreated,
		TriggerTaskUpdated,
	}
}

// Valid reports whether t is a supported trigger kind.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerClientCreated, TriggerEventCreated, TriggerEventUpdated,
		TriggerTaskCreated, TriggerTaskUpdated:
		return true
	}
	return false
}

// entityKind returns the entity kind the trigger carries ("Client",
// "Event", "Task").
func (t Trigger) entityKind() string {
	switch t {
	case TriggerClientCreated:
		return "Client"
	case TriggerEventCreated, TriggerEventUpdated:
		return "Event"
	case TriggerTaskCreated, TriggerTaskUpdated:
		return "Task"
	}
	return ""
}

// Entity is a snapshot of the entity that triggered a lifecycle event.
// Exactly one field is non-nil; the discriminated form keeps conditions
// and payload builders exhaustively type-checked.
type Entity struct {
	Client *domain.Client
	Event  *domain.Event
	Task   *domain.Task
}

// ClientEntity wraps a client snapshot.
func ClientEntity(c domain.Client) Entity { return Entity{Client: &c} }

// EventEntity wraps an event snapshot.
func EventEntity(e domain.Event) Entity { return Entity{Event: &e} }

// TaskEntity wraps a task snapshot.
func TaskEntity(t domain.Task) Entity { return Entity{Task: &t} }

// Kind returns "Client", "Event", or "Task", or "" for an empty snapshot.
func (e Entity) Kind() string {
	switch {
	case e.Client != nil:
		return "Client"
	case e.Event != nil:
		return "Event"
	case e.Task != nil:
		return "Task"
	}
	return ""
}

// ID returns the wrapped entity's identifier.
func (e Entity) ID() string {
	switch {
	case e.Client != nil:
		return e.Client.ID
	case e.Event != nil:
		return e.Event.ID
	case e.Task != nil:
		return e.Task.ID
	}
	return ""
}

// ClientID returns the client the entity belongs to (the client's own
// ID for client snapshots).
func (e Entity) ClientID() string {
	switch {
	case e.Client != nil:
		return e.Client.ID
	case e.Event != nil:
		return e.Event.ClientID
	case e.Task != nil:
		return e.Task.ClientID
	}
	return ""
}

// LifecycleEvent is the engine's input: a trigger kind plus the
// snapshot of the entity that transitioned.
type LifecycleEvent struct {
	Trigger Trigger
	Entity  Entity
}

// validate checks that the trigger is supported and the snapshot
// carries the entity kind the trigger names.
func (ev LifecycleEvent) validate() error {
	if !ev.Trigger.Valid() {
		return &UnsupportedTriggerError{Trigger: ev.Trigger}
	}
	if kind := ev.Entity.Kind(); kind != ev.Trigger.entityKind() {
		return &UnsupportedTriggerError{
			Trigger: ev.Trigger,
			Reason:  fmt.Sprintf("trigger carries %s but snapshot is %q", ev.Trigger.entityKind(), kind),
		}
	}
	return nil
}
