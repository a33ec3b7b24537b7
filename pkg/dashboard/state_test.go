package dashboard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/lebdash/pkg/region"
)

func TestState_Apply(t *testing.T) {
	testCases := []struct {
		name     string
		events   []Event
		expected State
	}{
		{
			name:     "no events",
			expected: DefaultState(),
		},
		{
			name:   "range kept as requested",
			events: []Event{PopulationRangeChanged{Min: 2000000, Max: 3000000}},
			expected: State{
				Range:    region.PopulationRange{Min: 2000000, Max: 3000000},
				DebtStep: AllSteps,
			},
		},
		{
			name:   "toggles flip",
			events: []Event{ZeroInitiativeToggled{}, InfraInsightsToggled{}, DebtInsightsToggled{}, InfraInsightsToggled{}},
			expected: State{
				Range:              region.FullPopulationRange(),
				ShowZeroInitiative: true,
				ShowDebtInsights:   true,
				DebtStep:           AllSteps,
			},
		},
		{
			name:     "negative step selects the whole series",
			events:   []Event{DebtStepSelected{Index: 3}, DebtStepSelected{Index: -7}},
			expected: DefaultState(),
		},
		{
			name:   "step selected",
			events: []Event{DebtStepSelected{Index: 2}},
			expected: State{
				Range:    region.FullPopulationRange(),
				DebtStep: 2,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := DefaultState()
			for _, event := range tc.events {
				state = state.Apply(event)
			}
			assert.Equal(t, tc.expected, state)
		})
	}
}

func TestState_QueryRoundTrip(t *testing.T) {
	state := DefaultState().
		Apply(PopulationRangeChanged{Min: 400000, Max: 900000}).
		Apply(ZeroInitiativeToggled{}).
		Apply(DebtInsightsToggled{}).
		Apply(DebtStepSelected{Index: 4})

	parsed, err := ParseState(state.Query())
	require.NoError(t, err)
	assert.Equal(t, state, parsed)

	assert.Equal(t, "/", DefaultState().URL("/"))
	assert.Equal(t, "/?zero=1", DefaultState().Apply(ZeroInitiativeToggled{}).URL("/"))
}

func TestParseState_Errors(t *testing.T) {
	for _, query := range []string{"min=abc", "max=1e9", "zero=maybe", "step=last", "debt_insights=2"} {
		t.Run(query, func(t *testing.T) {
			values, err := url.ParseQuery(query)
			require.NoError(t, err)
			_, err = ParseState(values)
			assert.Error(t, err)
		})
	}
}

func TestRecomputes(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Section
	}{
		{name: "slider", event: PopulationRangeChanged{Min: 1, Max: 2}, expected: SectionInfrastructure},
		{name: "zero-initiative map", event: ZeroInitiativeToggled{}, expected: SectionInfrastructure},
		{name: "infrastructure insights", event: InfraInsightsToggled{}, expected: SectionNone},
		{name: "debt insights", event: DebtInsightsToggled{}, expected: SectionNone},
		{name: "debt step", event: DebtStepSelected{Index: 1}, expected: SectionDebt},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Recomputes(tc.event))
		})
	}
}
