package debt

// RevealStep is one position of the step-through control: the series prefix
// up to and including Label's period.
type RevealStep struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// RevealSteps returns one step per point. Step i holds points[0..i] and is
// labelled with points[i].Period.
func RevealSteps(points []Point) []RevealStep {
	steps := make([]RevealStep, len(points))
	for index := range points {
		end := index + 1
		steps[index] = RevealStep{
			Label:  points[index].Period,
			Points: points[:end:end],
		}
	}
	return steps
}

// ClampStep bounds a requested step index to [0, count-1]. It returns -1 when
// there are no steps.
func ClampStep(index, count int) int {
	if count <= 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index >= count {
		return count - 1
	}
	return index
}

// Step returns the prefix for a clamped step index, and false for an empty
// series.
func (debtSeries Series) Step(index int) (RevealStep, bool) {
	clamped := ClampStep(index, len(debtSeries.Points))
	if clamped < 0 {
		return RevealStep{}, false
	}
	end := clamped + 1
	return RevealStep{
		Label:  debtSeries.Points[clamped].Period,
		Points: debtSeries.Points[:end:end],
	}, true
}
