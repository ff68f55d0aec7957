package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"pbsadmin/internal/timeutil"
)

// TraceSnapshot is the serialized outcome of a scenario run. Instants
// are pre-formatted as canonical RFC 3339 UTC strings so the JSON is
// byte-stable across platforms.
type TraceSnapshot struct {
	Scenario      string          `json:"scenario"`
	Steps         []StepSnapshot  `json:"steps"`
	Tasks         []TaskSnapshot  `json:"tasks"`
	Events        []EventSnapshot `json:"events"`
	Notifications []string        `json:"notifications,omitempty"`
}

// StepSnapshot records what one lifecycle event fired.
type StepSnapshot struct {
	Trigger  string           `json:"trigger"`
	EntityID string           `json:"entity_id"`
	Error    string           `json:"error,omitempty"`
	Results  []ResultSnapshot `json:"results"`
}

// ResultSnapshot is one action result.
type ResultSnapshot struct {
	Rule      string `json:"rule"`
	Action    string `json:"action"`
	Success   bool   `json:"success"`
	CreatedID string `json:"created_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// TaskSnapshot is one stored task.
type TaskSnapshot struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id,omitempty"`
	EventID         string `json:"event_id,omitempty"`
	Description     string `json:"description"`
	DueDate         string `json:"due_date,omitempty"`
	Status          string `json:"status"`
	Priority        int    `json:"priority"`
	AutomatedAction string `json:"automated_action,omitempty"`
	TriggeredBy     string `json:"triggered_by,omitempty"`
}

// EventSnapshot is one stored event.
type EventSnapshot struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id,omitempty"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Status   string `json:"status,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Snapshot converts a run result into its serializable form.
func Snapshot(result *Result) TraceSnapshot {
	snap := TraceSnapshot{
		Scenario:      result.Scenario,
		Steps:         []StepSnapshot{},
		Tasks:         []TaskSnapshot{},
		Events:        []EventSnapshot{},
		Notifications: result.Notifications,
	}

	for _, step := range result.Steps {
		ss := StepSnapshot{
			Trigger:  step.Trigger,
			EntityID: step.EntityID,
			Results:  []ResultSnapshot{},
		}
		if step.Err != nil {
			ss.Error = step.Err.Error()
		}
		for _, r := range step.Results {
			rs := ResultSnapshot{
				Rule:      r.RuleID,
				Action:    string(r.ActionType),
				Success:   r.Success,
				CreatedID: r.CreatedID,
			}
			if r.Err != nil {
				rs.Error = r.Err.Error()
			}
			ss.Results = append(ss.Results, rs)
		}
		snap.Steps = append(snap.Steps, ss)
	}

	for _, t := range result.Store.Tasks() {
		ts := TaskSnapshot{
			ID:              t.ID,
			ClientID:        t.ClientID,
			EventID:         t.EventID,
			Description:     t.Description,
			Status:          string(t.Status),
			Priority:        t.Priority,
			AutomatedAction: t.AutomatedAction,
			TriggeredBy:     t.TriggeredBy,
		}
		if !t.DueDate.IsZero() {
			ts.DueDate = timeutil.Format(t.DueDate)
		}
		snap.Tasks = append(snap.Tasks, ts)
	}

	for _, e := range result.Store.Events() {
		snap.Events = append(snap.Events, EventSnapshot{
			ID:       e.ID,
			ClientID: e.ClientID,
			Type:     string(e.Type),
			Date:     timeutil.Format(e.Date),
			Status:   string(e.Status),
			Notes:    e.Notes,
		})
	}

	return snap
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("run scenario %s: %v", scenario.Name, err)
	}

	data, err := json.MarshalIndent(Snapshot(result), "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
}
