package domain

import (
	"fmt"
	"time"
)

// TaskStatus enumerates task states. Done and Canceled are terminal.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "InProgress"
	TaskBlocked    TaskStatus = "Blocked"
	TaskDone       TaskStatus = "Done"
	TaskCanceled   TaskStatus = "Canceled"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskBlocked, TaskDone, TaskCanceled:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskDone || s == TaskCanceled
}

// Priority bounds. 1 is highest, 5 is lowest.
const (
	PriorityHighest = 1
	PriorityLowest  = 5
)

// Task is the principal automation output: a to-do item, optionally
// linked to a client and an event. AutomatedAction carries the ID of
// the rule that created the task (empty for manual tasks); TriggeredBy
// is free-text provenance such as "Event:Booking" or "Manual".
type Task struct {
	ID              string
	ClientID        string
	EventID         string
	Description     string
	DueDate         time.Time
	Status          TaskStatus
	Priority        int
	AutomatedAction string
	TriggeredBy     string
	CompletedOn     *time.Time
	ParentTaskID    string
}

// Validate checks required fields, the priority range, and the
// CompletedOn/Done pairing.
func (t *Task) Validate() error {
	if t.Description == "" {
		return fmt.Errorf("task: description is required")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("task: unknown status %q", t.Status)
	}
	if t.Priority < PriorityHighest || t.Priority > PriorityLowest {
		return fmt.Errorf("task: priority %d out of range [%d,%d]", t.Priority, PriorityHighest, PriorityLowest)
	}
	if (t.Status == TaskDone) != (t.CompletedOn != nil) {
		return fmt.Errorf("task: completedOn must be set exactly when status is %s", TaskDone)
	}
	if t.ParentTaskID != "" && t.ParentTaskID == t.ID {
		return fmt.Errorf("task %s: parent task must not be the task itself", t.ID)
	}
	return nil
}
