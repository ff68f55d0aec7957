package rules

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// fakeStore is an in-memory EntityStore with failure injection,
// shared by the tests in this package.
type fakeStore struct {
	mu     sync.Mutex
	tasks  map[string]domain.Task
	events map[string]domain.Event
	seq    int

	// Injected failures. failNextCreateTask is consumed by one call.
	failCreateTask     error
	failNextCreateTask error

	createCalls int
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:  make(map[string]domain.Task),
		events: make(map[string]domain.Event),
	}
}

func (s *fakeStore) CreateTask(_ context.Context, t domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++

	if s.failNextCreateTask != nil {
		err := s.failNextCreateTask
		s.failNextCreateTask = nil
		return domain.Task{}, err
	}
	if s.failCreateTask != nil {
		return domain.Task{}, s.failCreateTask
	}

	s.seq++
	if t.ID == "" {
		t.ID = fmt.Sprintf("task-%d", s.seq)
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *fakeStore) CreateEvent(_ context.Context, e domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++

	s.seq++
	if e.ID == "" {
		e.ID = fmt.Sprintf("event-%d", s.seq)
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *fakeStore) UpdateTaskStatus(_ context.Context, id string, status domain.TaskStatus, completedOn *time.Time) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++

	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("task %s not found", id)
	}
	t.Status = status
	t.CompletedOn = completedOn
	s.tasks[id] = t
	return t, nil
}

func (s *fakeStore) UpdateEventStatus(_ context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++

	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, fmt.Errorf("event %s not found", id)
	}
	e.Status = status
	s.events[id] = e
	return e, nil
}

func (s *fakeStore) taskByID(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

func (s *fakeStore) eventByID(id string) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	return e, ok
}

func (s *fakeStore) calls() (creates, updates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls, s.updateCalls
}

// memFiringLog is an in-memory FiringLog.
type memFiringLog struct {
	mu    sync.Mutex
	fired map[string]bool
	err   error
}

func newMemFiringLog() *memFiringLog {
	return &memFiringLog{fired: make(map[string]bool)}
}

func (l *memFiringLog) MarkFired(_ context.Context, trigger Trigger, entityID, ruleID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	key := string(trigger) + "|" + entityID + "|" + ruleID
	if l.fired[key] {
		return false, nil
	}
	l.fired[key] = true
	return true, nil
}

// captureNotifier records sent messages.
type captureNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *captureNotifier) Send(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return n.err
}

func (n *captureNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

// panicCondition always panics; used for the fail-closed tests.
type panicCondition struct{}

func (panicCondition) Matches(Entity) bool { panic("malformed rule") }
func (panicCondition) Describe() string    { return "panics" }

func testClock(t *testing.T) *timeutil.Clock {
	t.Helper()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	clock, err := timeutil.NewFixed(timeutil.DefaultTimezone, at)
	require.NoError(t, err)
	return clock
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := timeutil.Parse(s)
	require.NoError(t, err)
	return ts
}
