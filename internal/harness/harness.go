package harness

import (
	"context"

	"pbsadmin/internal/rules"
	"pbsadmin/internal/testutil"
	"pbsadmin/internal/timeutil"
)

// Result is the observable outcome of a scenario run: what each step
// fired plus the final store contents.
type Result struct {
	Scenario      string
	Steps         []StepResult
	Store         *testutil.MemStore
	Notifications []string
}

// StepResult pairs a step with the action results the engine
// produced, or the error it returned.
type StepResult struct {
	Trigger  string
	EntityID string
	Results  []rules.ActionResult
	Err      error
}

// Run executes the scenario against a fresh engine wired with
// deterministic fakes. Step errors are captured per step; Run itself
// fails only on malformed scenarios.
func Run(scenario *Scenario) (*Result, error) {
	now, err := timeutil.Parse(scenario.Now)
	if err != nil {
		return nil, err
	}
	clock, err := timeutil.NewFixed(timeutil.DefaultTimezone, now)
	if err != nil {
		return nil, err
	}

	store := testutil.NewMemStore()
	notifier := &testutil.CaptureNotifier{}

	registry, err := rules.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	engine := rules.NewEngine(registry, store, clock,
		rules.WithFiringLog(store),
		rules.WithNotifier(notifier),
	)

	result := &Result{Scenario: scenario.Name, Store: store}
	ctx := context.Background()

	for _, step := range scenario.Steps {
		entity, err := step.entity()
		if err != nil {
			return nil, err
		}

		results, err := engine.HandleLifecycleEvent(ctx, rules.LifecycleEvent{
			Trigger: rules.Trigger(step.Trigger),
			Entity:  entity,
		})
		result.Steps = append(result.Steps, StepResult{
			Trigger:  step.Trigger,
			EntityID: entity.ID(),
			Results:  results,
			Err:      err,
		})
	}

	result.Notifications = notifier.Messages()
	return result, nil
}
