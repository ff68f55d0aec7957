package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 5)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario)
		})
	}
}

func TestRun_BookingDedupe(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/booking_flow.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Steps, 2)

	require.Len(t, result.Steps[0].Results, 1)
	assert.True(t, result.Steps[0].Results[0].Success)
	assert.Empty(t, result.Steps[1].Results, "replay is suppressed")
	assert.Len(t, result.Store.Tasks(), 1)
}

func TestRun_UnsupportedTriggerIsCapturedPerStep(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/unsupported_trigger.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Steps, 1)
	require.Error(t, result.Steps[0].Err)
	assert.Empty(t, result.Store.Tasks())
	assert.Empty(t, result.Store.Events())
}

func TestRun_IsRepeatable(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/client_welcome.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, Snapshot(first), Snapshot(second))
}
