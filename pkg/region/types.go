// Package region holds the static geography of the dashboard: the closed set
// of Lebanese governorates, the district-to-governorate table, population
// estimates and district centroids.
//
// All tables are immutable values. They are built once at startup (see
// DefaultTables) and injected into the infrastructure pipeline; nothing in
// this package keeps mutable global state.
package region

// Governorate is a top-level Lebanese administrative region.
type Governorate string

const (
	GovernorateMountLebanon  Governorate = "Mount Lebanon"
	GovernorateSouth         Governorate = "South"
	GovernorateAkkar         Governorate = "Akkar"
	GovernorateNorth         Governorate = "North"
	GovernorateNabatieh      Governorate = "Nabatieh"
	GovernorateBeqaa         Governorate = "Beqaa"
	GovernorateBaalbekHermel Governorate = "Baalbek-Hermel"

	// GovernorateUnknown classifies area identifiers that are absent from the
	// district table. It is never a member of the closed set.
	GovernorateUnknown Governorate = "Unknown"
)

// canonicalGovernorates lists the closed set in display order.
var canonicalGovernorates = [...]Governorate{
	GovernorateMountLebanon,
	GovernorateSouth,
	GovernorateAkkar,
	GovernorateNorth,
	GovernorateNabatieh,
	GovernorateBeqaa,
	GovernorateBaalbekHermel,
}

// Governorates returns the seven canonical governorates in display order.
// The returned slice is a fresh copy.
func Governorates() []Governorate {
	governorates := make([]Governorate, len(canonicalGovernorates))
	copy(governorates, canonicalGovernorates[:])
	return governorates
}

// IsCanonical reports whether the governorate belongs to the closed set.
func (governorate Governorate) IsCanonical() bool {
	for _, canonical := range canonicalGovernorates {
		if governorate == canonical {
			return true
		}
	}
	return false
}

// String returns the display name.
func (governorate Governorate) String() string {
	return string(governorate)
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}
