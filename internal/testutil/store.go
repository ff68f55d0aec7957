// Package testutil provides deterministic fakes for automation tests.
//
// The fakes assign sequential IDs instead of UUIDs so that scenario
// runs produce byte-identical snapshots for golden comparison.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/rules"
)

// SeqIDs hands out "<prefix>-001", "<prefix>-002", ... in order.
//
// Thread-safe. Reset restarts the sequence for scenario reuse.
type SeqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSeqIDs creates a sequential ID generator with the given prefix.
func NewSeqIDs(prefix string) *SeqIDs {
	return &SeqIDs{prefix: prefix}
}

// Next returns the next ID in the sequence.
func (s *SeqIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%03d", s.prefix, s.n)
}

// Reset restarts the sequence. The next call to Next returns
// "<prefix>-001" again.
func (s *SeqIDs) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}

// MemStore is an in-memory entity store satisfying rules.EntityStore
// and rules.FiringLog. Records are kept in insertion order so that
// snapshots are deterministic.
//
// Error injection: set FailCreateTask or FailCreateEvent to make the
// corresponding operation fail with that error.
type MemStore struct {
	mu      sync.Mutex
	taskIDs *SeqIDs
	evtIDs  *SeqIDs

	tasks   []domain.Task
	events  []domain.Event
	firings map[string]struct{}

	FailCreateTask  error
	FailCreateEvent error
}

var (
	_ rules.EntityStore = (*MemStore)(nil)
	_ rules.FiringLog   = (*MemStore)(nil)
)

// NewMemStore creates an empty in-memory store with sequential IDs.
func NewMemStore() *MemStore {
	return &MemStore{
		taskIDs: NewSeqIDs("task"),
		evtIDs:  NewSeqIDs("event"),
		firings: make(map[string]struct{}),
	}
}

// CreateTask validates and appends a task, assigning a sequential ID
// when one is missing.
func (m *MemStore) CreateTask(_ context.Context, t domain.Task) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateTask != nil {
		return domain.Task{}, m.FailCreateTask
	}
	if err := t.Validate(); err != nil {
		return domain.Task{}, err
	}
	if t.ID == "" {
		t.ID = m.taskIDs.Next()
	}
	m.tasks = append(m.tasks, t)
	return t, nil
}

// CreateEvent validates and appends an event, assigning a sequential
// ID when one is missing.
func (m *MemStore) CreateEvent(_ context.Context, e domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreateEvent != nil {
		return domain.Event{}, m.FailCreateEvent
	}
	if err := e.Validate(); err != nil {
		return domain.Event{}, err
	}
	if e.ID == "" {
		e.ID = m.evtIDs.Next()
	}
	m.events = append(m.events, e)
	return e, nil
}

// UpdateTaskStatus transitions a stored task's status, enforcing the
// CompletedOn pairing.
func (m *MemStore) UpdateTaskStatus(_ context.Context, id string, status domain.TaskStatus, completedOn *time.Time) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if (status == domain.TaskDone) != (completedOn != nil) {
		return domain.Task{}, fmt.Errorf("task %s: completedOn must be set exactly when status is %s", id, domain.TaskDone)
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			m.tasks[i].CompletedOn = completedOn
			return m.tasks[i], nil
		}
	}
	return domain.Task{}, fmt.Errorf("task %s: not found", id)
}

// UpdateEventStatus transitions a stored event's status.
func (m *MemStore) UpdateEventStatus(_ context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].Status = status
			return m.events[i], nil
		}
	}
	return domain.Event{}, fmt.Errorf("event %s: not found", id)
}

// MarkFired records the firing and reports whether it was the first
// for this (trigger, entity, rule) combination.
func (m *MemStore) MarkFired(_ context.Context, trigger rules.Trigger, entityID, ruleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(trigger) + "|" + entityID + "|" + ruleID
	if _, seen := m.firings[key]; seen {
		return false, nil
	}
	m.firings[key] = struct{}{}
	return true, nil
}

// Tasks returns a copy of the stored tasks in insertion order.
func (m *MemStore) Tasks() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Events returns a copy of the stored events in insertion order.
func (m *MemStore) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Event, len(m.events))
	copy(out, m.events)
	return out
}

// FiringCount returns the number of distinct firings recorded.
func (m *MemStore) FiringCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.firings)
}
