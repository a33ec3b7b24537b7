// Package dashboard wires the infrastructure and debt pipelines into
// renderable views and serves them over HTTP.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/lebdash/pkg/debt"
	"github.com/coolbeans/lebdash/pkg/export"
	"github.com/coolbeans/lebdash/pkg/infra"
	"github.com/coolbeans/lebdash/pkg/region"
	"github.com/coolbeans/lebdash/pkg/source"
)

// Fetcher retrieves a dataset document. *source.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (source.Document, error)
}

// Config holds configuration for a Dashboard.
type Config struct {
	// InfrastructureURL locates the initiatives CSV.
	InfrastructureURL string

	// DebtURL locates the external debt CSV.
	DebtURL string

	// MapZoom overrides the zero-initiative map zoom when positive.
	MapZoom int

	// Logger receives render diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// Dashboard renders views from the two datasets.
type Dashboard struct {
	config        Config
	fetcher       Fetcher
	infraPipeline *infra.Pipeline
	debtPipeline  *debt.Pipeline
	logger        *zap.Logger
	now           func() time.Time
}

// New creates a dashboard over tables, fetching datasets through fetcher.
func New(config Config, fetcher Fetcher, tables region.Tables) *Dashboard {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		config:        config,
		fetcher:       fetcher,
		infraPipeline: infra.NewPipeline(tables, logger.Named("infra")),
		debtPipeline:  debt.NewPipeline(logger.Named("debt")),
		logger:        logger,
		now:           time.Now,
	}
}

// InfrastructureSection is the first half of a view.
type InfrastructureSection struct {
	Aggregation infra.Aggregation        `json:"aggregation"`
	Summary     infra.Summary            `json:"summary"`
	ZeroMap     *infra.ZeroInitiativeMap `json:"zero_map,omitempty"`
	Insights    bool                     `json:"insights"`
	Error       string                   `json:"error,omitempty"`
}

// DebtSection is the second half of a view.
type DebtSection struct {
	Series     debt.Series   `json:"series"`
	StepLabels []string      `json:"step_labels"`
	Step       int           `json:"step"`
	Visible    []debt.Point  `json:"visible"`
	Summary    *debt.Summary `json:"summary,omitempty"`
	Insights   bool          `json:"insights"`
	Error      string        `json:"error,omitempty"`
}

// View is one render of the dashboard for a State. A section whose dataset
// failed to load carries its Error and zero data; the other section is
// unaffected.
type View struct {
	State          State                 `json:"state"`
	Infrastructure InfrastructureSection `json:"infrastructure"`
	Debt           DebtSection           `json:"debt"`
	RenderedAt     time.Time             `json:"rendered_at"`
}

// Render fetches both datasets and computes the view for state.
func (dashboard *Dashboard) Render(ctx context.Context, state State) View {
	view := View{
		State:      state,
		RenderedAt: dashboard.now(),
	}
	view.Infrastructure = dashboard.RenderInfrastructure(ctx, state)
	view.Debt = dashboard.RenderDebt(ctx, state)
	return view
}

// WithVisibility returns the view with state's insight toggles applied.
// Computed sections are left as they are.
func (view View) WithVisibility(state State) View {
	view.State = state
	view.Infrastructure.Insights = state.ShowInfraInsights
	view.Debt.Insights = state.ShowDebtInsights
	return view
}

// RenderInfrastructure fetches only the initiatives dataset and computes
// the infrastructure section for state.
func (dashboard *Dashboard) RenderInfrastructure(ctx context.Context, state State) InfrastructureSection {
	section := InfrastructureSection{
		Aggregation: infra.Aggregation{
			Range:      state.Range,
			Selected:   []region.Governorate{},
			Counts:     []infra.AggregatedCount{},
			Categories: []string{},
		},
		Insights: state.ShowInfraInsights,
	}

	infraFrame, err := dashboard.LoadInfrastructure(ctx)
	if err != nil {
		dashboard.logger.Warn("infrastructure section unavailable", zap.Error(err))
		section.Error = err.Error()
		return section
	}

	if section.Aggregation, err = dashboard.infraPipeline.Aggregate(infraFrame, state.Range); err != nil {
		section.Error = err.Error()
		return section
	}
	if section.Summary, err = dashboard.infraPipeline.Summarize(infraFrame); err != nil {
		section.Error = err.Error()
		return section
	}

	if state.ShowZeroInitiative {
		zeroMap, err := dashboard.infraPipeline.ZeroInitiativeMap(infraFrame)
		if err != nil {
			section.Error = err.Error()
			return section
		}
		if dashboard.config.MapZoom > 0 {
			zeroMap.Zoom = dashboard.config.MapZoom
		}
		section.ZeroMap = &zeroMap
	}
	return section
}

// RenderDebt fetches only the debt dataset and computes the debt section.
func (dashboard *Dashboard) RenderDebt(ctx context.Context, state State) DebtSection {
	section := DebtSection{
		Series:     debt.Series{Points: []debt.Point{}},
		StepLabels: []string{},
		Step:       AllSteps,
		Visible:    []debt.Point{},
		Insights:   state.ShowDebtInsights,
	}

	debtSeries, err := dashboard.LoadDebt(ctx)
	if err != nil {
		dashboard.logger.Warn("debt section unavailable", zap.Error(err))
		section.Error = err.Error()
		return section
	}
	section.Series = debtSeries

	for _, step := range debt.RevealSteps(debtSeries.Points) {
		section.StepLabels = append(section.StepLabels, step.Label)
	}

	section.Visible = debtSeries.Points
	if state.DebtStep != AllSteps {
		if step, ok := debtSeries.Step(state.DebtStep); ok {
			section.Step = debt.ClampStep(state.DebtStep, len(debtSeries.Points))
			section.Visible = step.Points
		}
	}

	if summary, ok := debt.Summarize(debtSeries); ok {
		section.Summary = &summary
	}
	return section
}

// ChartView computes only the section the named chart plots. The
// zero-initiative chart turns the map on.
func (dashboard *Dashboard) ChartView(ctx context.Context, chartName string, state State) (View, error) {
	view := View{RenderedAt: dashboard.now()}
	switch chartName {
	case ChartInfrastructure:
		view.Infrastructure = dashboard.RenderInfrastructure(ctx, state)
	case ChartZeroInitiative:
		state.ShowZeroInitiative = true
		view.Infrastructure = dashboard.RenderInfrastructure(ctx, state)
	case ChartDebt:
		view.Debt = dashboard.RenderDebt(ctx, state)
	default:
		return View{}, fmt.Errorf("%w %q", ErrUnknownChart, chartName)
	}
	view.State = state
	return view, nil
}

// LoadInfrastructure fetches and prepares the initiatives dataset.
func (dashboard *Dashboard) LoadInfrastructure(ctx context.Context) (*infra.Frame, error) {
	document, err := dashboard.fetcher.Fetch(ctx, dashboard.config.InfrastructureURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch infrastructure dataset: %w", err)
	}
	return dashboard.infraPipeline.Load(document.Reader())
}

// LoadDebt fetches and aggregates the debt dataset.
func (dashboard *Dashboard) LoadDebt(ctx context.Context) (debt.Series, error) {
	document, err := dashboard.fetcher.Fetch(ctx, dashboard.config.DebtURL)
	if err != nil {
		return debt.Series{}, fmt.Errorf("failed to fetch debt dataset: %w", err)
	}
	return dashboard.debtPipeline.Load(document.Reader())
}

// Warm fetches both datasets concurrently so that a caching fetcher serves
// the first render from memory.
func (dashboard *Dashboard) Warm(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, location := range []string{dashboard.config.InfrastructureURL, dashboard.config.DebtURL} {
		location := location
		group.Go(func() error {
			if _, err := dashboard.fetcher.Fetch(groupCtx, location); err != nil {
				return fmt.Errorf("failed to warm %s: %w", location, err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	dashboard.logger.Info("datasets warmed")
	return nil
}

// Workbook renders state with the zero-initiative map and returns the
// export content. It fails only when both sections failed.
func (dashboard *Dashboard) Workbook(ctx context.Context, state State) (export.Workbook, View, error) {
	state.ShowZeroInitiative = true
	view := dashboard.Render(ctx, state)

	if view.Infrastructure.Error != "" && view.Debt.Error != "" {
		return export.Workbook{}, view, fmt.Errorf("nothing to export: %s; %s", view.Infrastructure.Error, view.Debt.Error)
	}

	var workbook export.Workbook
	if view.Infrastructure.Error == "" {
		workbook.Aggregation = &view.Infrastructure.Aggregation
		workbook.ZeroMap = view.Infrastructure.ZeroMap
	}
	if view.Debt.Error == "" {
		workbook.Debt = &view.Debt.Series
	}
	return workbook, view, nil
}
