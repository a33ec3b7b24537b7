package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/coolbeans/lebdash/pkg/region"
)

// AllSteps selects the whole debt series instead of a reveal prefix.
const AllSteps = -1

// State is everything the user can change. It is rebuilt from each request
// and never stored.
type State struct {
	Range              region.PopulationRange `json:"range"`
	ShowZeroInitiative bool                   `json:"show_zero_initiative"`
	ShowInfraInsights  bool                   `json:"show_infra_insights"`
	ShowDebtInsights   bool                   `json:"show_debt_insights"`
	DebtStep           int                    `json:"debt_step"`
}

// DefaultState is the first render: full population range, nothing
// revealed, whole debt series.
func DefaultState() State {
	return State{Range: region.FullPopulationRange(), DebtStep: AllSteps}
}

// Event is a user action that produces the next State.
type Event interface {
	apply(state State) State
	section() Section
}

// Section names the part of a view an event recomputes.
type Section int

const (
	// SectionNone marks events that only change insight visibility.
	SectionNone Section = iota
	SectionInfrastructure
	SectionDebt
)

// Recomputes reports which section event invalidates.
func Recomputes(event Event) Section {
	return event.section()
}

// PopulationRangeChanged moves the slider handles.
type PopulationRangeChanged struct {
	Min int
	Max int
}

// ZeroInitiativeToggled shows or hides the zero-initiative map.
type ZeroInitiativeToggled struct{}

// InfraInsightsToggled shows or hides the infrastructure insights.
type InfraInsightsToggled struct{}

// DebtInsightsToggled shows or hides the debt insights.
type DebtInsightsToggled struct{}

// DebtStepSelected picks a reveal step; AllSteps shows the full series.
// Out-of-range indexes are clamped when rendering.
type DebtStepSelected struct {
	Index int
}

func (event PopulationRangeChanged) apply(state State) State {
	state.Range = region.PopulationRange{Min: event.Min, Max: event.Max}
	return state
}

func (ZeroInitiativeToggled) apply(state State) State {
	state.ShowZeroInitiative = !state.ShowZeroInitiative
	return state
}

func (InfraInsightsToggled) apply(state State) State {
	state.ShowInfraInsights = !state.ShowInfraInsights
	return state
}

func (DebtInsightsToggled) apply(state State) State {
	state.ShowDebtInsights = !state.ShowDebtInsights
	return state
}

func (event DebtStepSelected) apply(state State) State {
	if event.Index < 0 {
		state.DebtStep = AllSteps
	} else {
		state.DebtStep = event.Index
	}
	return state
}

func (PopulationRangeChanged) section() Section { return SectionInfrastructure }
func (ZeroInitiativeToggled) section() Section { return SectionInfrastructure }
func (InfraInsightsToggled) section() Section { return SectionNone }
func (DebtInsightsToggled) section() Section { return SectionNone }
func (DebtStepSelected) section() Section { return SectionDebt }

// Apply returns the state after event.
func (state State) Apply(event Event) State {
	return event.apply(state)
}

// Query parameter names used by ParseState and Query.
const (
	paramMin           = "min"
	paramMax           = "max"
	paramZero          = "zero"
	paramInfraInsights = "infra_insights"
	paramDebtInsights  = "debt_insights"
	paramStep          = "step"
)

// ParseState reads a State from query parameters. Missing parameters keep
// their DefaultState values.
func ParseState(values url.Values) (State, error) {
	state := DefaultState()

	var err error
	if state.Range.Min, err = intParam(values, paramMin, state.Range.Min); err != nil {
		return State{}, err
	}
	if state.Range.Max, err = intParam(values, paramMax, state.Range.Max); err != nil {
		return State{}, err
	}

	if state.ShowZeroInitiative, err = boolParam(values, paramZero); err != nil {
		return State{}, err
	}
	if state.ShowInfraInsights, err = boolParam(values, paramInfraInsights); err != nil {
		return State{}, err
	}
	if state.ShowDebtInsights, err = boolParam(values, paramDebtInsights); err != nil {
		return State{}, err
	}

	step, err := intParam(values, paramStep, AllSteps)
	if err != nil {
		return State{}, err
	}
	return state.Apply(DebtStepSelected{Index: step}), nil
}

// Query encodes the state as query parameters, omitting default values.
func (state State) Query() url.Values {
	values := url.Values{}
	if state.Range.Min != region.MinPopulationBound {
		values.Set(paramMin, strconv.Itoa(state.Range.Min))
	}
	if state.Range.Max != region.MaxPopulationBound {
		values.Set(paramMax, strconv.Itoa(state.Range.Max))
	}
	if state.ShowZeroInitiative {
		values.Set(paramZero, "1")
	}
	if state.ShowInfraInsights {
		values.Set(paramInfraInsights, "1")
	}
	if state.ShowDebtInsights {
		values.Set(paramDebtInsights, "1")
	}
	if state.DebtStep != AllSteps {
		values.Set(paramStep, strconv.Itoa(state.DebtStep))
	}
	return values
}

// URL returns path with the state's query string.
func (state State) URL(path string) string {
	if encoded := state.Query().Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}

func intParam(values url.Values, name string, fallback int) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return value, nil
}

func boolParam(values url.Values, name string) (bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return value, nil
}
