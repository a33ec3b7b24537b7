package region

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAreaIdentifier(t *testing.T) {
	testCases := []struct {
		name     string
		refArea  string
		expected string
	}{
		{"page", "http://dbpedia.org/page/Baabda_District", "Baabda_District"},
		{"resource", "http://dbpedia.org/resource/Tyre_District", "Tyre_District"},
		{"trailing_segment", "http://dbpedia.org/page/Aley_District/extra", "Aley_District"},
		{"comma_in_token", "http://dbpedia.org/resource/Tripoli_District,_Lebanon", "Tripoli_District,_Lebanon"},
		{"first_match_wins", "http://x/page/Matn_District/resource/Tyre_District", "Matn_District"},
		{"no_match", "http://dbpedia.org/wiki/Baabda_District", ""},
		{"empty_token", "http://dbpedia.org/page/", ""},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractAreaIdentifier(tc.refArea))
		})
	}
}

func TestDefaultDistrictTable_AllCanonical(t *testing.T) {
	normalizer := NewNormalizer(DefaultDistrictTable())

	for token := range DefaultDistrictTable() {
		governorate, found := normalizer.Lookup(token)
		require.True(t, found, "token %q", token)
		assert.True(t, governorate.IsCanonical(), "token %q mapped to %q", token, governorate)
	}
}

func TestDefaultDistrictTable_MojibakeDuplicates(t *testing.T) {
	table := DefaultDistrictTable()

	assert.Equal(t, GovernorateNorth, table["Miniyeh\u00e2\u0080\u0093Danniyeh_District"])
	assert.Equal(t, GovernorateBeqaa, table["Zahl\u00c3\u00a9_District"])
	assert.Equal(t, table["Zahl\u00e9_District"], table["Zahl\u00c3\u00a9_District"])
}

func TestNormalizer_Lookup(t *testing.T) {
	normalizer := NewNormalizer(DistrictTable{
		"Zahl\u00e9_District":           GovernorateBeqaa,
		"Miniyeh\u2013Danniyeh_District": GovernorateNorth,
		"Baabda_District":                GovernorateMountLebanon,
	})

	testCases := []struct {
		name          string
		token         string
		expected      Governorate
		expectedFound bool
	}{
		{"exact", "Baabda_District", GovernorateMountLebanon, true},
		{"latin1_mojibake", "Zahl\u00c3\u00a9_District", GovernorateBeqaa, true},
		{"latin1_mojibake_en_dash", "Miniyeh\u00e2\u0080\u0093Danniyeh_District", GovernorateNorth, true},
		{"decomposed_accent", "Zahle\u0301_District", GovernorateBeqaa, true},
		{"unknown", "Beirut_Governorate", GovernorateUnknown, false},
		{"empty", "", GovernorateUnknown, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			governorate, found := normalizer.Lookup(tc.token)
			assert.Equal(t, tc.expected, governorate)
			assert.Equal(t, tc.expectedFound, found)
		})
	}
}

func TestNormalizer_CopiesTable(t *testing.T) {
	table := DistrictTable{"Tyre_District": GovernorateSouth}
	normalizer := NewNormalizer(table)

	table["Tyre_District"] = GovernorateNorth
	table["Sidon_District"] = GovernorateSouth

	assert.Equal(t, GovernorateSouth, normalizer.Normalize("Tyre_District"))
	assert.Equal(t, GovernorateUnknown, normalizer.Normalize("Sidon_District"))
	assert.Equal(t, 1, normalizer.Tokens())
}

func TestNormalizer_NormalizeRefArea(t *testing.T) {
	normalizer := NewNormalizer(DefaultDistrictTable())

	district, governorate := normalizer.NormalizeRefArea("http://dbpedia.org/page/Hermel_District")
	assert.Equal(t, "Hermel_District", district)
	assert.Equal(t, GovernorateBaalbekHermel, governorate)

	district, governorate = normalizer.NormalizeRefArea("not a uri")
	assert.Equal(t, "", district)
	assert.Equal(t, GovernorateUnknown, governorate)
}

func TestGovernorates_ClosedSet(t *testing.T) {
	governorates := Governorates()
	require.Len(t, governorates, 7)

	governorates[0] = "Mutated"
	assert.Equal(t, GovernorateMountLebanon, Governorates()[0])
	assert.False(t, GovernorateUnknown.IsCanonical())
}

func TestPopulationTable_Select(t *testing.T) {
	populationTable := DefaultPopulationTable()

	testCases := []struct {
		name     string
		input    PopulationRange
		expected []Governorate
	}{
		{
			name:     "full_range",
			input:    FullPopulationRange(),
			expected: Governorates(),
		},
		{
			name:     "small_only",
			input:    PopulationRange{Min: 350000, Max: 450000},
			expected: []Governorate{GovernorateAkkar, GovernorateNabatieh},
		},
		{
			name:     "inclusive_bounds",
			input:    PopulationRange{Min: 602000, Max: 1831000},
			expected: []Governorate{GovernorateMountLebanon, GovernorateSouth, GovernorateNorth},
		},
		{
			name:     "wider_than_slider",
			input:    PopulationRange{Min: 0, Max: 10000000},
			expected: Governorates(),
		},
		{
			name:     "above_every_estimate",
			input:    PopulationRange{Min: 2000000, Max: 3000000},
			expected: []Governorate{},
		},
		{
			name:     "below_every_estimate",
			input:    PopulationRange{Min: 0, Max: 100000},
			expected: []Governorate{},
		},
		{
			name:     "gap",
			input:    PopulationRange{Min: 900000, Max: 1800000},
			expected: []Governorate{},
		},
		{
			name:     "inverted",
			input:    PopulationRange{Min: 1000000, Max: 400000},
			expected: []Governorate{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			selected := populationTable.Select(tc.input)
			if diff := cmp.Diff(tc.expected, selected); diff != "" {
				t.Errorf("Select(%s) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestPopulationTable_SelectIsMonotonic(t *testing.T) {
	populationTable := DefaultPopulationTable()
	step := 50000

	for minimum := MinPopulationBound; minimum <= MaxPopulationBound; minimum += step {
		for maximum := minimum; maximum <= MaxPopulationBound; maximum += step {
			narrow := populationTable.Select(PopulationRange{Min: minimum, Max: maximum})
			wide := populationTable.Select(PopulationRange{Min: minimum - step, Max: maximum + step})

			for _, governorate := range narrow {
				assert.Contains(t, wide, governorate, "widening %d-%d dropped %s", minimum, maximum, governorate)
			}
		}
	}
}

func TestPopulationTable_IgnoresNonCanonical(t *testing.T) {
	populationTable := PopulationTable{
		GovernorateSouth:   602000,
		GovernorateUnknown: 500000,
	}

	selected := populationTable.Select(FullPopulationRange())
	assert.Equal(t, []Governorate{GovernorateSouth}, selected)
}

func TestCentroidTable_Lookup(t *testing.T) {
	centroids := DefaultCentroidTable()

	coordinate, found := centroids.Lookup("Baabda_District")
	require.True(t, found)
	assert.InDelta(t, 33.8336, coordinate.Latitude, 1e-9)
	assert.InDelta(t, 35.5442, coordinate.Longitude, 1e-9)

	_, found = centroids.Lookup("Akkar_Governorate")
	assert.False(t, found)

	_, found = centroids.Lookup("")
	assert.False(t, found)

	mangled, found := centroids.Lookup("Zahl\u00c3\u00a9_District")
	require.True(t, found)
	clean, _ := centroids.Lookup("Zahl\u00e9_District")
	assert.Equal(t, clean, mangled)
}

func TestCoordinate_Point(t *testing.T) {
	point := Coordinate{Latitude: 33.27, Longitude: 35.2033}.Point()
	assert.InDelta(t, 35.2033, point.X(), 1e-9)
	assert.InDelta(t, 33.27, point.Y(), 1e-9)
}

func TestCenterOf(t *testing.T) {
	center := CenterOf([]Coordinate{
		{Latitude: 33.0, Longitude: 35.0},
		{Latitude: 34.0, Longitude: 36.0},
	}, LebanonCenter)
	assert.InDelta(t, 33.5, center.Latitude, 1e-9)
	assert.InDelta(t, 35.5, center.Longitude, 1e-9)

	assert.Equal(t, LebanonCenter, CenterOf(nil, LebanonCenter))
}
