package infra

import (
	"go.uber.org/zap"

	"github.com/coolbeans/lebdash/pkg/dataset"
	"github.com/coolbeans/lebdash/pkg/region"
)

// MapPoint is one plotted district.
type MapPoint struct {
	District string `json:"district"`
	region.Coordinate
}

// ZeroInitiativeMap is the input of the "left behind" district map.
type ZeroInitiativeMap struct {
	Districts []string   `json:"districts"`
	Points    []MapPoint `json:"points"`

	// Unplotted lists districts with no known centroid. They are left off
	// the map, not treated as errors.
	Unplotted []string `json:"unplotted"`

	Center region.Coordinate `json:"center"`
	Zoom   int               `json:"zoom"`
}

// Coordinates returns the plotted coordinates in order.
func (zeroMap ZeroInitiativeMap) Coordinates() []region.Coordinate {
	coordinates := make([]region.Coordinate, len(zeroMap.Points))
	for index, point := range zeroMap.Points {
		coordinates[index] = point.Coordinate
	}
	return coordinates
}

// ZeroInitiativeDistricts returns the distinct area identifiers of rows whose
// initiative flag equals 0, in encounter order. The population filter does not
// apply. Rows whose refArea yields no identifier are skipped.
func (infraFrame *Frame) ZeroInitiativeDistricts() ([]string, error) {
	zeroRows, err := filterFlag(infraFrame.frame, 0)
	if err != nil {
		return nil, err
	}

	districts := make([]string, 0)
	if zeroRows.Nrow() == 0 {
		return districts, nil
	}

	seen := make(map[string]bool)
	for _, district := range dataset.Strings(zeroRows, ColumnArea) {
		if district == "" || seen[district] {
			continue
		}
		seen[district] = true
		districts = append(districts, district)
	}
	return districts, nil
}

// ZeroInitiativeMap resolves zero-initiative districts to centroids.
func (pipeline *Pipeline) ZeroInitiativeMap(infraFrame *Frame) (ZeroInitiativeMap, error) {
	districts, err := infraFrame.ZeroInitiativeDistricts()
	if err != nil {
		return ZeroInitiativeMap{}, err
	}

	zeroMap := ZeroInitiativeMap{
		Districts: districts,
		Points:    make([]MapPoint, 0, len(districts)),
		Unplotted: make([]string, 0),
		Zoom:      DefaultMapZoom,
	}

	for _, district := range districts {
		coordinate, found := pipeline.tables.Centroids.Lookup(district)
		if !found {
			zeroMap.Unplotted = append(zeroMap.Unplotted, district)
			continue
		}
		zeroMap.Points = append(zeroMap.Points, MapPoint{District: district, Coordinate: coordinate})
	}

	zeroMap.Center = region.CenterOf(zeroMap.Coordinates(), region.LebanonCenter)

	pipeline.logger.Debug("zero-initiative map built",
		zap.Int("districts", len(districts)),
		zap.Int("plotted", len(zeroMap.Points)),
		zap.Int("unplotted", len(zeroMap.Unplotted)))

	return zeroMap, nil
}
