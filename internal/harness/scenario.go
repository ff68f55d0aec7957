package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/rules"
	"pbsadmin/internal/timeutil"
)

// Scenario is one YAML-defined automation run: a fixed "now" and an
// ordered list of lifecycle events to feed the engine.
type Scenario struct {
	Name  string `yaml:"name"`
	Now   string `yaml:"now"` // RFC 3339; the clock is pinned here
	Steps []Step `yaml:"steps"`
}

// Step is one lifecycle event. Exactly one entity section must be
// set, matching the trigger's entity kind. Steps whose trigger the
// engine rejects are recorded in the snapshot rather than aborting
// the run.
type Step struct {
	Trigger string         `yaml:"trigger"`
	Client  *ClientSection `yaml:"client,omitempty"`
	Event   *EventSection  `yaml:"event,omitempty"`
	Task    *TaskSection   `yaml:"task,omitempty"`
}

// ClientSection is the YAML shape of a client snapshot.
type ClientSection struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	Notes string `yaml:"notes"`
}

// EventSection is the YAML shape of an event snapshot.
type EventSection struct {
	ID       string `yaml:"id"`
	ClientID string `yaml:"client_id"`
	Type     string `yaml:"type"`
	Date     string `yaml:"date"`
	Notes    string `yaml:"notes"`
	Status   string `yaml:"status"`
}

// TaskSection is the YAML shape of a task snapshot.
type TaskSection struct {
	ID          string `yaml:"id"`
	ClientID    string `yaml:"client_id"`
	Description string `yaml:"description"`
	DueDate     string `yaml:"due_date"`
	Status      string `yaml:"status"`
	Priority    int    `yaml:"priority"`
}

// LoadScenario parses and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	var s Scenario
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Now == "" {
		return fmt.Errorf("now is required")
	}
	if _, err := timeutil.Parse(s.Now); err != nil {
		return fmt.Errorf("now: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, step := range s.Steps {
		if step.Trigger == "" {
			return fmt.Errorf("step %d: trigger is required", i)
		}
		set := 0
		for _, present := range []bool{step.Client != nil, step.Event != nil, step.Task != nil} {
			if present {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("step %d: exactly one of client, event, task must be set", i)
		}
	}
	return nil
}

// entity materializes the step's snapshot section.
func (st Step) entity() (rules.Entity, error) {
	switch {
	case st.Client != nil:
		return rules.ClientEntity(domain.Client{
			ID:    st.Client.ID,
			Name:  st.Client.Name,
			Email: st.Client.Email,
			Phone: st.Client.Phone,
			Notes: st.Client.Notes,
		}), nil
	case st.Event != nil:
		date, err := timeutil.Parse(st.Event.Date)
		if err != nil {
			return rules.Entity{}, fmt.Errorf("event date: %w", err)
		}
		return rules.EventEntity(domain.Event{
			ID:       st.Event.ID,
			ClientID: st.Event.ClientID,
			Type:     domain.EventType(st.Event.Type),
			Date:     date,
			Notes:    st.Event.Notes,
			Status:   domain.EventStatus(st.Event.Status),
		}), nil
	default:
		task := domain.Task{
			ID:          st.Task.ID,
			ClientID:    st.Task.ClientID,
			Description: st.Task.Description,
			Status:      domain.TaskStatus(st.Task.Status),
			Priority:    st.Task.Priority,
		}
		if st.Task.DueDate != "" {
			due, err := timeutil.Parse(st.Task.DueDate)
			if err != nil {
				return rules.Entity{}, fmt.Errorf("task due_date: %w", err)
			}
			task.DueDate = due
		}
		return rules.TaskEntity(task), nil
	}
}
