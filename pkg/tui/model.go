// Package tui is the terminal front end of the dashboard: a dual-handle
// population slider, the three toggles and the debt step selector.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coolbeans/lebdash/pkg/dashboard"
	"github.com/coolbeans/lebdash/pkg/debt"
	"github.com/coolbeans/lebdash/pkg/insight"
	"github.com/coolbeans/lebdash/pkg/region"
)

// DefaultSliderStep is how far one key press moves a handle.
const DefaultSliderStep = 50000

// Renderer produces dashboard views and single sections.
// *dashboard.Dashboard implements it.
type Renderer interface {
	Render(ctx context.Context, state dashboard.State) dashboard.View
	RenderInfrastructure(ctx context.Context, state dashboard.State) dashboard.InfrastructureSection
	RenderDebt(ctx context.Context, state dashboard.State) dashboard.DebtSection
}

// InsightRenderer formats insight markdown for the terminal.
type InsightRenderer interface {
	Render(block insight.Block) (string, error)
}

type handle int

const (
	handleMin handle = iota
	handleMax
)

// sections marks which parts of the view need recomputing.
type sections struct {
	infrastructure bool
	debt           bool
}

func (pending sections) any() bool {
	return pending.infrastructure || pending.debt
}

func (pending *sections) mark(section dashboard.Section) {
	switch section {
	case dashboard.SectionInfrastructure:
		pending.infrastructure = true
	case dashboard.SectionDebt:
		pending.debt = true
	}
}

// viewRenderedMsg carries the sections rendered for state. Sections not
// listed in rendered are zero.
type viewRenderedMsg struct {
	state    dashboard.State
	rendered sections
	view     dashboard.View
}

// Model is the bubbletea model.
type Model struct {
	ctx      context.Context
	renderer Renderer
	insights InsightRenderer
	keys     KeyMap
	styles   styles

	state    dashboard.State
	view     *dashboard.View
	stale    sections
	focus    handle
	loading  bool
	viewport viewport.Model
	width    int
	height   int
}

// NewModel creates the model. insights may be nil, in which case insight
// blocks are shown as raw markdown.
func NewModel(ctx context.Context, renderer Renderer, insights InsightRenderer) Model {
	return Model{
		ctx:      ctx,
		renderer: renderer,
		insights: insights,
		keys:     DefaultKeyMap(),
		styles:   defaultStyles(),
		state:    dashboard.DefaultState(),
		stale:    sections{infrastructure: true, debt: true},
		loading:  true,
		viewport: viewport.New(80, 20),
	}
}

// State returns the current dashboard state.
func (model Model) State() dashboard.State {
	return model.state
}

// Init renders the first view.
func (model Model) Init() tea.Cmd {
	return model.renderCmd()
}

// renderCmd recomputes every stale section for the current state.
func (model Model) renderCmd() tea.Cmd {
	ctx, renderer, state, stale := model.ctx, model.renderer, model.state, model.stale
	return func() tea.Msg {
		msg := viewRenderedMsg{state: state, rendered: stale}
		switch {
		case stale.infrastructure && stale.debt:
			msg.view = renderer.Render(ctx, state)
		case stale.infrastructure:
			msg.view.Infrastructure = renderer.RenderInfrastructure(ctx, state)
		case stale.debt:
			msg.view.Debt = renderer.RenderDebt(ctx, state)
		}
		return msg
	}
}

// Update handles key presses, window resizes and finished renders.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.viewport.Width = msg.Width
		model.viewport.Height = msg.Height - 3
		model.refreshContent()
		return model, nil

	case viewRenderedMsg:
		// A render for a superseded state is dropped. The newer state has
		// its own render queued for every section still stale.
		if msg.state != model.state {
			return model, nil
		}
		var view dashboard.View
		if model.view != nil {
			view = *model.view
		}
		if msg.rendered.infrastructure {
			view.Infrastructure = msg.view.Infrastructure
		}
		if msg.rendered.debt {
			view.Debt = msg.view.Debt
		}
		if !msg.view.RenderedAt.IsZero() {
			view.RenderedAt = msg.view.RenderedAt
		}
		view = view.WithVisibility(model.state)
		model.view = &view
		model.stale = sections{}
		model.loading = false
		model.refreshContent()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(msg)
	}

	var cmd tea.Cmd
	model.viewport, cmd = model.viewport.Update(msg)
	return model, cmd
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var event dashboard.Event

	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.SwitchHandle):
		if model.focus == handleMin {
			model.focus = handleMax
		} else {
			model.focus = handleMin
		}
		model.refreshContent()
		return model, nil
	case key.Matches(msg, model.keys.Decrease):
		event = model.moveHandle(-DefaultSliderStep)
	case key.Matches(msg, model.keys.Increase):
		event = model.moveHandle(DefaultSliderStep)
	case key.Matches(msg, model.keys.ZeroMap):
		event = dashboard.ZeroInitiativeToggled{}
	case key.Matches(msg, model.keys.InfraInsights):
		event = dashboard.InfraInsightsToggled{}
	case key.Matches(msg, model.keys.DebtInsights):
		event = dashboard.DebtInsightsToggled{}
	case key.Matches(msg, model.keys.PrevStep):
		event = dashboard.DebtStepSelected{Index: model.adjacentStep(-1)}
	case key.Matches(msg, model.keys.NextStep):
		event = dashboard.DebtStepSelected{Index: model.adjacentStep(1)}
	case key.Matches(msg, model.keys.AllSteps):
		event = dashboard.DebtStepSelected{Index: dashboard.AllSteps}
	case key.Matches(msg, model.keys.Reload):
		model.stale = sections{infrastructure: true, debt: true}
	default:
		var cmd tea.Cmd
		model.viewport, cmd = model.viewport.Update(msg)
		return model, cmd
	}

	if event != nil {
		model.state = model.state.Apply(event)
		model.stale.mark(dashboard.Recomputes(event))
	}
	if !model.stale.any() {
		if model.view != nil {
			view := model.view.WithVisibility(model.state)
			model.view = &view
		}
		model.refreshContent()
		return model, nil
	}
	model.loading = true
	model.refreshContent()
	return model, model.renderCmd()
}

// moveHandle shifts the focused handle by delta, keeping min <= max.
func (model Model) moveHandle(delta int) dashboard.Event {
	populationRange := model.state.Range
	if model.focus == handleMin {
		populationRange.Min = min(populationRange.Min+delta, populationRange.Max)
	} else {
		populationRange.Max = max(populationRange.Max+delta, populationRange.Min)
	}
	populationRange = populationRange.Clamp()
	return dashboard.PopulationRangeChanged{Min: populationRange.Min, Max: populationRange.Max}
}

// adjacentStep returns the step index next to the current one. Stepping
// from the whole series starts at the first or last year.
func (model Model) adjacentStep(direction int) int {
	count := 0
	if model.view != nil {
		count = len(model.view.Debt.StepLabels)
	}
	if count == 0 {
		return dashboard.AllSteps
	}

	current := model.state.DebtStep
	if current == dashboard.AllSteps {
		if direction < 0 {
			return count - 1
		}
		return 0
	}
	return debt.ClampStep(current+direction, count)
}

func (model *Model) refreshContent() {
	model.viewport.SetContent(model.content())
}

// View draws the screen.
func (model Model) View() string {
	header := model.styles.title.Render(insight.Headline)
	footer := model.styles.muted.Render(helpLine(model.keys))
	return lipgloss.JoinVertical(lipgloss.Left, header, model.viewport.View(), footer)
}

func helpLine(keyMap KeyMap) string {
	parts := make([]string, 0, len(keyMap.ShortHelp()))
	for _, binding := range keyMap.ShortHelp() {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}

func (model Model) content() string {
	var builder strings.Builder

	builder.WriteString(model.styles.heading.Render(insight.InfrastructureHeading))
	builder.WriteString("\n")
	builder.WriteString(model.sliderLine())
	builder.WriteString("\n\n")

	if model.view == nil {
		builder.WriteString(model.styles.muted.Render("Loading datasets..."))
		return builder.String()
	}
	if model.loading {
		builder.WriteString(model.styles.muted.Render("Refreshing..."))
		builder.WriteString("\n")
	}

	model.writeInfrastructure(&builder)
	builder.WriteString("\n")
	model.writeDebt(&builder)
	return builder.String()
}

func (model Model) sliderLine() string {
	minLabel := fmt.Sprintf("min %d", model.state.Range.Min)
	maxLabel := fmt.Sprintf("max %d", model.state.Range.Max)
	if model.focus == handleMin {
		minLabel = model.styles.focused.Render(minLabel)
	} else {
		maxLabel = model.styles.focused.Render(maxLabel)
	}
	return fmt.Sprintf("%s  %s  %s  (%d-%d)", insight.SliderLabel, minLabel, maxLabel,
		region.MinPopulationBound, region.MaxPopulationBound)
}

func (model Model) writeInfrastructure(builder *strings.Builder) {
	section := model.view.Infrastructure
	if section.Error != "" {
		builder.WriteString(model.styles.error.Render("Unavailable: " + section.Error))
		builder.WriteString("\n")
		return
	}

	builder.WriteString(model.styles.subheading.Render("Projects by governorate"))
	builder.WriteString("\n")
	if section.Aggregation.Empty() {
		builder.WriteString(model.styles.muted.Render("No governorate falls inside this population range."))
		builder.WriteString("\n")
	}
	maxProjects := 0
	for _, count := range section.Aggregation.Counts {
		maxProjects = max(maxProjects, count.Projects)
	}
	for _, count := range section.Aggregation.Counts {
		builder.WriteString(fmt.Sprintf("%-15s %s %d\n", count.Governorate,
			model.styles.bar.Render(bar(count.Projects, maxProjects, 40)), count.Projects))
	}

	builder.WriteString("\n")
	builder.WriteString(model.styles.subheading.Render(insight.ZeroInitiativeHeading))
	builder.WriteString(model.toggleHint(model.keys.ZeroMap, model.state.ShowZeroInitiative))
	builder.WriteString("\n")
	if section.ZeroMap != nil {
		for _, point := range section.ZeroMap.Points {
			builder.WriteString(fmt.Sprintf("  • %-28s %.4f, %.4f\n", point.District, point.Latitude, point.Longitude))
		}
		for _, district := range section.ZeroMap.Unplotted {
			builder.WriteString(model.styles.muted.Render(fmt.Sprintf("  • %s (no centroid)", district)))
			builder.WriteString("\n")
		}
	}

	builder.WriteString("\n")
	builder.WriteString(model.styles.subheading.Render(insight.InfraInsightsHeading))
	builder.WriteString(model.toggleHint(model.keys.InfraInsights, section.Insights))
	builder.WriteString("\n")
	if section.Insights {
		builder.WriteString(model.renderInsight(insight.BlockInfrastructure))
	}
}

func (model Model) writeDebt(builder *strings.Builder) {
	section := model.view.Debt

	builder.WriteString(model.styles.heading.Render(insight.DebtHeading))
	builder.WriteString("\n")
	if section.Error != "" {
		builder.WriteString(model.styles.error.Render("Unavailable: " + section.Error))
		builder.WriteString("\n")
		return
	}

	stepLabel := "all"
	if section.Step != dashboard.AllSteps && section.Step < len(section.StepLabels) {
		stepLabel = section.StepLabels[section.Step]
	}
	builder.WriteString(model.styles.muted.Render(insight.DebtStepPrefix + stepLabel))
	builder.WriteString("\n")

	peak := 0.0
	for _, point := range section.Series.Points {
		peak = max(peak, point.ValueBillion)
	}
	for _, point := range section.Visible {
		builder.WriteString(fmt.Sprintf("%-8s %s %.3f\n", point.Period,
			model.styles.line.Render(barFloat(point.ValueBillion, peak, 40)), point.ValueBillion))
	}

	builder.WriteString("\n")
	builder.WriteString(model.styles.subheading.Render(insight.DebtInsightsHeading))
	builder.WriteString(model.toggleHint(model.keys.DebtInsights, section.Insights))
	builder.WriteString("\n")
	if section.Insights {
		builder.WriteString(model.renderInsight(insight.BlockDebt))
	}
}

func (model Model) toggleHint(binding key.Binding, open bool) string {
	state := "show"
	if open {
		state = "hide"
	}
	return model.styles.muted.Render(fmt.Sprintf("  [%s to %s]", binding.Help().Key, state))
}

func (model Model) renderInsight(block insight.Block) string {
	if model.insights == nil {
		return block.Markdown()
	}
	rendered, err := model.insights.Render(block)
	if err != nil {
		return block.Markdown()
	}
	return rendered
}

func bar(value, maximum, width int) string {
	return barFloat(float64(value), float64(maximum), width)
}

func barFloat(value, maximum float64, width int) string {
	if maximum <= 0 || value <= 0 {
		return ""
	}
	length := int(value / maximum * float64(width))
	if length < 1 {
		length = 1
	}
	return strings.Repeat("█", length)
}
