package debt

// Summary holds the headline figures of a debt series.
type Summary struct {
	First Point `json:"first"`
	Last  Point `json:"last"`
	Peak  Point `json:"peak"`

	// Growth is Last.Value / First.Value; 0 when undefined.
	Growth float64 `json:"growth"`
}

// Summarize returns the summary of a series, and false when it is empty.
func Summarize(debtSeries Series) (Summary, bool) {
	if len(debtSeries.Points) == 0 {
		return Summary{}, false
	}

	summary := Summary{
		First: debtSeries.Points[0],
		Last:  debtSeries.Points[len(debtSeries.Points)-1],
		Peak:  debtSeries.Points[0],
	}
	for _, point := range debtSeries.Points[1:] {
		if point.Value > summary.Peak.Value {
			summary.Peak = point
		}
	}
	if summary.First.Value != 0 {
		summary.Growth = summary.Last.Value / summary.First.Value
	}
	return summary, true
}
