package domain

import (
	"fmt"
	"time"
)

// EventType enumerates the kinds of client events. The underlying type
// is string so the set is open to extension without a schema change.
type EventType string

const (
	EventBooking         EventType = "Booking"
	EventConsultation    EventType = "Consultation"
	EventTrainingSession EventType = "TrainingSession"
	EventPayment         EventType = "Payment"
	EventFollowUp        EventType = "FollowUp"
	EventNote            EventType = "Note"
)

// EventStatus tracks the lifecycle of an event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "Scheduled"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCanceled  EventStatus = "Canceled"
)

// Event is a dated occurrence in a client's history: a booking, a
// consultation, a payment, a free-form note. Events are created by the
// UI or by the rules engine itself (the "Note" event on client
// creation). ParentEventID links follow-up events into a lineage tree.
type Event struct {
	ID            string
	ClientID      string
	Type          EventType
	Date          time.Time
	Notes         string
	Status        EventStatus
	ParentEventID string
}

// Validate checks required fields and the self-reference invariant.
func (e *Event) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("event: type is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("event: date is required")
	}
	if e.ParentEventID != "" && e.ParentEventID == e.ID {
		return fmt.Errorf("event %s: parent event must not be the event itself", e.ID)
	}
	return nil
}
