package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

func noopTask(Entity, *timeutil.Clock) (domain.Task, error) {
	return domain.Task{Description: "x", Status: domain.TaskPending, Priority: 3}, nil
}

func TestNewRegistry_PreservesDeclarationOrder(t *testing.T) {
	reg, err := NewRegistry(
		Rule{ID: "first", Trigger: TriggerEventCreated, Condition: Always{}, Actions: []Action{CreateTask(noopTask)}},
		Rule{ID: "second", Trigger: TriggerEventCreated, Condition: Always{}, Actions: []Action{CreateTask(noopTask)}},
		Rule{ID: "other-trigger", Trigger: TriggerClientCreated, Condition: Always{}, Actions: []Action{CreateTask(noopTask)}},
	)
	require.NoError(t, err)

	forCreated := reg.RulesFor(TriggerEventCreated)
	require.Len(t, forCreated, 2)
	assert.Equal(t, "first", forCreated[0].ID)
	assert.Equal(t, "second", forCreated[1].ID)

	assert.Empty(t, reg.RulesFor(TriggerEventUpdated))
	assert.Equal(t, 3, reg.Len())
}

func TestNewRegistry_Validation(t *testing.T) {
	valid := Rule{ID: "r", Trigger: TriggerEventCreated, Condition: Always{}, Actions: []Action{CreateTask(noopTask)}}

	tests := []struct {
		name string
		rule Rule
	}{
		{"empty ID", Rule{Trigger: TriggerEventCreated, Condition: Always{}, Actions: valid.Actions}},
		{"bad trigger", Rule{ID: "x", Trigger: "Pet.created", Condition: Always{}, Actions: valid.Actions}},
		{"nil condition", Rule{ID: "x", Trigger: TriggerEventCreated, Actions: valid.Actions}},
		{"no actions", Rule{ID: "x", Trigger: TriggerEventCreated, Condition: Always{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(valid, tt.rule)
			assert.Error(t, err)
		})
	}

	t.Run("duplicate ID", func(t *testing.T) {
		_, err := NewRegistry(valid, valid)
		assert.Error(t, err)
	})
}

func TestRegistry_ImmutableAfterConstruction(t *testing.T) {
	input := []Rule{
		{ID: "a", Trigger: TriggerEventCreated, Condition: Always{}, Actions: []Action{CreateTask(noopTask)}},
	}
	reg, err := NewRegistry(input...)
	require.NoError(t, err)

	// Mutating the caller's slice must not reach the registry
	input[0].ID = "mutated"
	assert.Equal(t, "a", reg.Rules()[0].ID)

	// Mutating a returned copy must not reach the registry either
	out := reg.Rules()
	out[0].ID = "mutated-again"
	assert.Equal(t, "a", reg.Rules()[0].ID)
}
