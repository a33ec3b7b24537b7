package dashboard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coolbeans/lebdash/pkg/insight"
)

func TestRenderPage(t *testing.T) {
	state := DefaultState().
		Apply(PopulationRangeChanged{Min: 400000, Max: 1831000}).
		Apply(ZeroInitiativeToggled{}).
		Apply(DebtInsightsToggled{}).
		Apply(DebtStepSelected{Index: 1})
	page := RenderPage(newTestDashboard(newMockFetcher()).Render(context.Background(), state))

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Lebanon’s Development Dilemma</title>")
	assert.Contains(t, page, insight.HeroImageURL)

	// Range handles and the carried state.
	assert.Contains(t, page, `name="min" min="350000" max="1831000" step="1000" value="400000"`)
	assert.Contains(t, page, `<input type="hidden" name="zero" value="1">`)
	assert.Contains(t, page, `<input type="hidden" name="step" value="1">`)

	// Zero-initiative map is open and its toggle closes it.
	assert.Contains(t, page, "/chart/zero-initiative.svg")
	assert.Contains(t, page, "Baabda_District")
	assert.Contains(t, page, `class="toggle open" href="/?debt_insights=1&amp;min=400000&amp;step=1"`)

	// Debt step selector and insights.
	assert.Contains(t, page, "Time (years)=2020")
	assert.Contains(t, page, `class="step active"`)
	assert.Contains(t, page, "<strong>Debt vs. Infrastructure Dilemma:</strong>")
	assert.NotContains(t, page, "<strong>Reasons to act:</strong>")
}

func TestRenderPage_EscapesErrors(t *testing.T) {
	view := View{
		State:          DefaultState(),
		Infrastructure: InfrastructureSection{Error: "<script>alert(1)</script>"},
		Debt:           DebtSection{Error: "boom", Step: AllSteps},
	}
	page := RenderPage(view)

	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.Equal(t, 2, strings.Count(page, "could not be loaded"))
}
