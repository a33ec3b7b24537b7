package dashboard

import (
	"fmt"
	"html"
	"strings"

	"github.com/coolbeans/lebdash/pkg/chart"
	"github.com/coolbeans/lebdash/pkg/insight"
	"github.com/coolbeans/lebdash/pkg/region"
)

// RenderPage generates the self-contained dashboard page for a view. Every
// control is a link or GET form that encodes the next State, so the page
// works without scripts.
func RenderPage(view View) string {
	var htmlBuilder strings.Builder
	state := view.State

	htmlBuilder.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	htmlBuilder.WriteString("<meta charset=\"UTF-8\">\n")
	htmlBuilder.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	htmlBuilder.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(insight.PageTitle)))
	htmlBuilder.WriteString(pageStyles())
	htmlBuilder.WriteString("</head>\n<body>\n<div class=\"container\">\n")

	// Header
	htmlBuilder.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(insight.Headline)))
	htmlBuilder.WriteString(fmt.Sprintf("<p class=\"caption\">%s</p>\n", html.EscapeString(insight.Caption)))
	htmlBuilder.WriteString(fmt.Sprintf("<figure><img class=\"hero\" src=\"%s\" alt=\"\"><figcaption>%s</figcaption></figure>\n",
		html.EscapeString(insight.HeroImageURL), html.EscapeString(insight.HeroCaption)))

	writeInfrastructureSection(&htmlBuilder, view)
	writeDebtSection(&htmlBuilder, view)

	htmlBuilder.WriteString(fmt.Sprintf("<p class=\"footer\"><a href=\"%s\">Download workbook (xlsx)</a> &middot; rendered %s</p>\n",
		html.EscapeString(state.URL("/export.xlsx")), view.RenderedAt.UTC().Format("2006-01-02 15:04:05 MST")))
	htmlBuilder.WriteString("</div>\n</body>\n</html>\n")
	return htmlBuilder.String()
}

func writeInfrastructureSection(htmlBuilder *strings.Builder, view View) {
	state := view.State
	section := view.Infrastructure

	htmlBuilder.WriteString("<section>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(insight.InfrastructureHeading)))

	if section.Error != "" {
		writeError(htmlBuilder, section.Error)
		htmlBuilder.WriteString("</section>\n")
		return
	}

	// Population range form; the other state fields ride along as hidden inputs.
	htmlBuilder.WriteString("<form class=\"range\" method=\"get\" action=\"/\">\n")
	htmlBuilder.WriteString(fmt.Sprintf("<label>%s</label>\n", html.EscapeString(insight.SliderLabel)))
	for _, handle := range []struct {
		name  string
		value int
	}{
		{"min", state.Range.Min},
		{"max", state.Range.Max},
	} {
		htmlBuilder.WriteString(fmt.Sprintf(
			"<input type=\"range\" name=\"%s\" min=\"%d\" max=\"%d\" step=\"1000\" value=\"%d\" oninput=\"this.nextElementSibling.value=this.value\"><output>%d</output>\n",
			handle.name, region.MinPopulationBound, region.MaxPopulationBound, handle.value, handle.value))
	}
	query := state.Query()
	for _, name := range []string{paramZero, paramInfraInsights, paramDebtInsights, paramStep} {
		if value := query.Get(name); value != "" {
			htmlBuilder.WriteString(fmt.Sprintf("<input type=\"hidden\" name=\"%s\" value=\"%s\">\n",
				name, html.EscapeString(value)))
		}
	}
	htmlBuilder.WriteString("<button type=\"submit\">Apply</button>\n</form>\n")

	if section.Aggregation.Empty() {
		htmlBuilder.WriteString("<p class=\"muted\">No governorate falls inside this population range.</p>\n")
	}
	writeChart(htmlBuilder, state, chart.InfrastructureTitle, ChartInfrastructure)

	writeShares(htmlBuilder, section)

	// Zero-initiative map
	htmlBuilder.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(insight.ZeroInitiativeHeading)))
	writeToggle(htmlBuilder, state.Apply(ZeroInitiativeToggled{}), insight.ZeroInitiativeButton, state.ShowZeroInitiative)
	if section.ZeroMap != nil {
		writeChart(htmlBuilder, state, insight.ZeroInitiativeHeading, ChartZeroInitiative)
		htmlBuilder.WriteString("<ul class=\"districts\">\n")
		for _, point := range section.ZeroMap.Points {
			htmlBuilder.WriteString(fmt.Sprintf("<li>%s <span class=\"muted\">(%.4f, %.4f)</span></li>\n",
				html.EscapeString(point.District), point.Latitude, point.Longitude))
		}
		htmlBuilder.WriteString("</ul>\n")
		if len(section.ZeroMap.Unplotted) > 0 {
			htmlBuilder.WriteString(fmt.Sprintf("<p class=\"muted\">Not on the map (no known centroid): %s</p>\n",
				html.EscapeString(strings.Join(section.ZeroMap.Unplotted, ", "))))
		}
	}

	// Insights
	htmlBuilder.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(insight.InfraInsightsHeading)))
	writeToggle(htmlBuilder, state.Apply(InfraInsightsToggled{}), insight.InsightsButton, state.ShowInfraInsights)
	if section.Insights {
		writeInsight(htmlBuilder, insight.BlockInfrastructure)
	}

	htmlBuilder.WriteString("</section>\n")
}

func writeShares(htmlBuilder *strings.Builder, section InfrastructureSection) {
	summary := section.Summary
	if len(summary.Shares) == 0 {
		return
	}

	htmlBuilder.WriteString("<details class=\"summary\">\n<summary>Share of projects by governorate</summary>\n")
	htmlBuilder.WriteString("<table>\n<tr><th>Governorate</th><th>Projects</th><th>Share</th></tr>\n")
	for _, share := range summary.Shares {
		htmlBuilder.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%.1f%%</td></tr>\n",
			html.EscapeString(share.Governorate.String()), share.Projects, share.Percent))
	}
	htmlBuilder.WriteString("</table>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<p>%d of %d records report no initiative (%.1f%%).</p>\n",
		summary.WithoutInitiatives, summary.WithInitiatives+summary.WithoutInitiatives, summary.ZeroSharePercent))
	htmlBuilder.WriteString("</details>\n")
}

func writeDebtSection(htmlBuilder *strings.Builder, view View) {
	state := view.State
	section := view.Debt

	htmlBuilder.WriteString("<section>\n")
	htmlBuilder.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(insight.DebtHeading)))

	if section.Error != "" {
		writeError(htmlBuilder, section.Error)
		htmlBuilder.WriteString("</section>\n")
		return
	}

	writeChart(htmlBuilder, state, chart.DebtTitle, ChartDebt)

	// Step selector
	if len(section.StepLabels) > 0 {
		currentLabel := "all"
		if section.Step != AllSteps {
			currentLabel = section.StepLabels[section.Step]
		}
		htmlBuilder.WriteString(fmt.Sprintf("<p class=\"step-current\">%s%s</p>\n",
			html.EscapeString(insight.DebtStepPrefix), html.EscapeString(currentLabel)))
		htmlBuilder.WriteString("<nav class=\"steps\">\n")
		for index, label := range section.StepLabels {
			writeStepLink(htmlBuilder, state.Apply(DebtStepSelected{Index: index}), label, index == section.Step)
		}
		writeStepLink(htmlBuilder, state.Apply(DebtStepSelected{Index: AllSteps}), "all", section.Step == AllSteps)
		htmlBuilder.WriteString("</nav>\n")
	}

	if section.Summary != nil {
		htmlBuilder.WriteString(fmt.Sprintf("<p class=\"muted\">%s: %.3f bn &rarr; %s: %.3f bn (peak %s: %.3f bn, x%.1f)</p>\n",
			html.EscapeString(section.Summary.First.Period), section.Summary.First.ValueBillion,
			html.EscapeString(section.Summary.Last.Period), section.Summary.Last.ValueBillion,
			html.EscapeString(section.Summary.Peak.Period), section.Summary.Peak.ValueBillion,
			section.Summary.Growth))
	}

	htmlBuilder.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(insight.DebtInsightsHeading)))
	writeToggle(htmlBuilder, state.Apply(DebtInsightsToggled{}), insight.InsightsButton, state.ShowDebtInsights)
	if section.Insights {
		writeInsight(htmlBuilder, insight.BlockDebt)
	}

	htmlBuilder.WriteString("</section>\n")
}

func writeChart(htmlBuilder *strings.Builder, state State, alt, chartName string) {
	htmlBuilder.WriteString(fmt.Sprintf("<img class=\"chart\" src=\"%s\" alt=\"%s\">\n",
		html.EscapeString(state.URL("/chart/"+chartName+".svg")), html.EscapeString(alt)))
}

func writeToggle(htmlBuilder *strings.Builder, next State, label string, open bool) {
	class := "toggle"
	if open {
		class += " open"
	}
	htmlBuilder.WriteString(fmt.Sprintf("<a class=\"%s\" href=\"%s\">%s</a>\n",
		class, html.EscapeString(next.URL("/")), html.EscapeString(label)))
}

func writeStepLink(htmlBuilder *strings.Builder, next State, label string, active bool) {
	class := "step"
	if active {
		class += " active"
	}
	htmlBuilder.WriteString(fmt.Sprintf("<a class=\"%s\" href=\"%s\">%s</a>\n",
		class, html.EscapeString(next.URL("/")), html.EscapeString(label)))
}

func writeInsight(htmlBuilder *strings.Builder, block insight.Block) {
	rendered, err := insight.HTML(block)
	if err != nil {
		rendered = "<pre>" + html.EscapeString(block.Markdown()) + "</pre>"
	}
	htmlBuilder.WriteString("<div class=\"insight\">\n")
	htmlBuilder.WriteString(rendered)
	htmlBuilder.WriteString("</div>\n")
}

func writeError(htmlBuilder *strings.Builder, message string) {
	htmlBuilder.WriteString(fmt.Sprintf("<p class=\"error\">This section could not be loaded: %s</p>\n",
		html.EscapeString(message)))
}

func pageStyles() string {
	return `<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f7f7f8; color: #222; }
.container { max-width: 1100px; margin: 0 auto; padding: 24px; }
h1 { margin-bottom: 4px; }
.caption, .muted { color: #666; }
.hero { width: 100%; border-radius: 6px; }
figcaption { font-size: 0.85em; color: #888; }
section { background: #fff; border-radius: 8px; padding: 16px 24px; margin: 24px 0; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.chart { width: 100%; max-width: 960px; display: block; margin: 12px 0; }
.range input[type=range] { width: 40%; }
.range output { display: inline-block; min-width: 80px; }
.toggle, .step { display: inline-block; padding: 6px 12px; margin: 4px 4px 4px 0; border: 1px solid #ccc; border-radius: 4px; text-decoration: none; color: #222; }
.toggle.open, .step.active { background: #222; color: #fff; }
.insight { border-left: 3px solid #636efa; padding-left: 12px; }
.error { color: #b00020; font-weight: 600; }
table { border-collapse: collapse; }
th, td { padding: 4px 12px; border-bottom: 1px solid #eee; text-align: left; }
.footer { font-size: 0.85em; color: #888; }
</style>
`
}
