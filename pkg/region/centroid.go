package region

import (
	"github.com/twpayne/go-geom"
)

// CentroidTable maps district identifiers to approximate centroids. It only
// covers districts that appear in the published data.
type CentroidTable map[string]Coordinate

// DefaultCentroidTable returns the centroids used for the zero-initiative map.
func DefaultCentroidTable() CentroidTable {
	return CentroidTable{
		"Baabda_District":   {Latitude: 33.8336, Longitude: 35.5442},
		"Byblos_District":   {Latitude: 34.1230, Longitude: 35.6518},
		"Keserwan_District": {Latitude: 34.0100, Longitude: 35.6500},
		"Aley_District":     {Latitude: 33.8106, Longitude: 35.6056},
		"Matn_District":     {Latitude: 33.9089, Longitude: 35.6556},

		"Tyre_District":  {Latitude: 33.2700, Longitude: 35.2033},
		"Sidon_District": {Latitude: 33.5606, Longitude: 35.3756},

		"Bsharri_District":                           {Latitude: 34.2519, Longitude: 36.0100},
		"Batroun_District":                           {Latitude: 34.2550, Longitude: 35.6580},
		"Zgharta_District":                           {Latitude: 34.3986, Longitude: 35.8956},
		"Minieh-Danniyeh_District":                   {Latitude: 34.5070, Longitude: 35.9220},
		"Tripoli_District,_Lebanon":                  {Latitude: 34.4381, Longitude: 35.8390},
		"Miniyeh\u00e2\u0080\u0093Danniyeh_District": {Latitude: 34.5070, Longitude: 35.9220},

		"Marjeyoun_District":  {Latitude: 33.3600, Longitude: 35.6000},
		"Bint_Jbeil_District": {Latitude: 33.1183, Longitude: 35.4322},
		"Hasbaya_District":    {Latitude: 33.3980, Longitude: 35.6850},

		"Zahl\u00e9_District":       {Latitude: 33.8467, Longitude: 35.9020},
		"Western_Beqaa_District":    {Latitude: 33.6050, Longitude: 35.7300},
		"Zahl\u00c3\u00a9_District": {Latitude: 33.8467, Longitude: 35.9020},

		"Hermel_District": {Latitude: 34.3934, Longitude: 36.3717},
	}
}

// Lookup returns the centroid of a district, trying the same spelling
// variants as Normalizer.Lookup. Unknown districts report false and are
// skipped by callers.
func (centroidTable CentroidTable) Lookup(district string) (Coordinate, bool) {
	if district == "" {
		return Coordinate{}, false
	}
	for _, candidate := range tokenVariants(district) {
		if coordinate, found := centroidTable[candidate]; found {
			return coordinate, true
		}
	}
	return Coordinate{}, false
}

// Point converts the coordinate to an XY point (x = longitude, y = latitude).
func (coordinate Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{coordinate.Longitude, coordinate.Latitude})
}

// BoundsOf returns the bounding box of the coordinates. The result is empty
// (IsEmpty reports true) when no coordinates are given.
func BoundsOf(coordinates []Coordinate) *geom.Bounds {
	bounds := geom.NewBounds(geom.XY)
	for _, coordinate := range coordinates {
		bounds.Extend(coordinate.Point())
	}
	return bounds
}

// CenterOf returns the centre of the coordinates' bounding box, or fallback
// when there are no coordinates.
func CenterOf(coordinates []Coordinate, fallback Coordinate) Coordinate {
	bounds := BoundsOf(coordinates)
	if bounds.IsEmpty() {
		return fallback
	}
	return Coordinate{
		Latitude:  (bounds.Min(1) + bounds.Max(1)) / 2,
		Longitude: (bounds.Min(0) + bounds.Max(0)) / 2,
	}
}

// LebanonCenter is the default map centre.
var LebanonCenter = Coordinate{Latitude: 33.8547, Longitude: 35.8623}
