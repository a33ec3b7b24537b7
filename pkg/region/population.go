package region

import "fmt"

const (
	// MinPopulationBound is the lowest value the population slider accepts.
	MinPopulationBound = 350000

	// MaxPopulationBound is the highest value the population slider accepts.
	MaxPopulationBound = 1831000
)

// PopulationTable maps governorates to population estimates. It only drives
// the range filter; the values are never recomputed.
type PopulationTable map[Governorate]int

// DefaultPopulationTable returns the estimates used by the dashboard.
func DefaultPopulationTable() PopulationTable {
	return PopulationTable{
		GovernorateBeqaa:         540000,
		GovernorateMountLebanon:  1831000,
		GovernorateNabatieh:      391000,
		GovernorateAkkar:         432000,
		GovernorateNorth:         803000,
		GovernorateBaalbekHermel: 472000,
		GovernorateSouth:         602000,
	}
}

// PopulationRange is an inclusive [Min, Max] population interval.
type PopulationRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FullPopulationRange returns the slider's default range.
func FullPopulationRange() PopulationRange {
	return PopulationRange{Min: MinPopulationBound, Max: MaxPopulationBound}
}

// Clamp limits both ends to the slider bounds. An inverted range stays
// inverted and therefore selects nothing.
func (populationRange PopulationRange) Clamp() PopulationRange {
	return PopulationRange{
		Min: clampPopulation(populationRange.Min),
		Max: clampPopulation(populationRange.Max),
	}
}

// Contains reports whether population lies inside the inclusive range.
func (populationRange PopulationRange) Contains(population int) bool {
	return populationRange.Min <= population && population <= populationRange.Max
}

// Empty reports whether the range cannot contain any value.
func (populationRange PopulationRange) Empty() bool {
	return populationRange.Min > populationRange.Max
}

// String renders the range for logs and labels.
func (populationRange PopulationRange) String() string {
	return fmt.Sprintf("%d-%d", populationRange.Min, populationRange.Max)
}

func clampPopulation(population int) int {
	if population < MinPopulationBound {
		return MinPopulationBound
	}
	if population > MaxPopulationBound {
		return MaxPopulationBound
	}
	return population
}

// Select returns the canonical governorates whose estimate falls inside the
// requested range, in display order. Entries outside the closed set are never
// selected.
func (populationTable PopulationTable) Select(populationRange PopulationRange) []Governorate {
	selected := make([]Governorate, 0, len(canonicalGovernorates))
	if populationRange.Empty() {
		return selected
	}

	for _, governorate := range canonicalGovernorates {
		population, known := populationTable[governorate]
		if !known {
			continue
		}
		if populationRange.Contains(population) {
			selected = append(selected, governorate)
		}
	}
	return selected
}
