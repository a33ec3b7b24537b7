package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/lebdash/pkg/debt"
	"github.com/coolbeans/lebdash/pkg/infra"
	"github.com/coolbeans/lebdash/pkg/region"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input       string
		expected    Format
		expectError bool
	}{
		{input: "png", expected: FormatPNG},
		{input: " SVG ", expected: FormatSVG},
		{input: "gif", expectError: true},
		{input: "", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			format, err := ParseFormat(tc.input)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, format)
		})
	}

	assert.Equal(t, "image/png", FormatPNG.ContentType())
	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
}

func TestNewRenderer_Defaults(t *testing.T) {
	renderer := NewRenderer(Config{Width: -1})
	assert.Equal(t, DefaultConfig(), renderer.config)
}

func TestInfrastructureBar(t *testing.T) {
	aggregation := infra.Aggregation{
		Range: region.FullPopulationRange(),
		Counts: []infra.AggregatedCount{
			{Governorate: region.GovernorateSouth, Projects: 1},
			{Governorate: region.GovernorateMountLebanon, Projects: 4},
		},
		Categories: []string{"South", "Mount Lebanon"},
	}

	chartPlot, err := InfrastructureBar(aggregation)
	require.NoError(t, err)
	assert.Equal(t, InfrastructureTitle, chartPlot.Title.Text)
	assert.Equal(t, 0.0, chartPlot.Y.Min)
	assert.InDelta(t, 4.4, chartPlot.Y.Max, 1e-9)

	var buffer bytes.Buffer
	require.NoError(t, NewRenderer(DefaultConfig()).Render(&buffer, chartPlot, FormatPNG))
	assert.True(t, bytes.HasPrefix(buffer.Bytes(), pngMagic))
}

func TestInfrastructureBar_Empty(t *testing.T) {
	chartPlot, err := InfrastructureBar(infra.Aggregation{})
	require.NoError(t, err)

	var buffer bytes.Buffer
	require.NoError(t, NewRenderer(DefaultConfig()).Render(&buffer, chartPlot, FormatSVG))
	assert.Contains(t, buffer.String(), "<svg")
}

func TestDebtLine(t *testing.T) {
	points := []debt.Point{
		{Period: "2018", Value: 3.4e9, ValueBillion: 3.4},
		{Period: "2019", Value: 3.7e9, ValueBillion: 3.7},
		{Period: "2020", Value: 3.1e9, ValueBillion: 3.1},
	}

	for _, step := range debt.RevealSteps(points) {
		chartPlot, err := DebtLine(step.Points)
		require.NoError(t, err, step.Label)
		assert.Equal(t, DebtTitle, chartPlot.Title.Text)
		assert.Equal(t, DebtYLabel, chartPlot.Y.Label.Text)

		var buffer bytes.Buffer
		require.NoError(t, NewRenderer(Config{Width: 320, Height: 200}).Render(&buffer, chartPlot, FormatPNG))
		assert.True(t, bytes.HasPrefix(buffer.Bytes(), pngMagic))
	}

	chartPlot, err := DebtLine(nil)
	require.NoError(t, err)
	assert.Equal(t, emptyAxisMax, chartPlot.Y.Max)
}

func TestZeroInitiativeMap(t *testing.T) {
	zeroMap := infra.ZeroInitiativeMap{
		Points: []infra.MapPoint{
			{District: "Tyre_District", Coordinate: region.Coordinate{Latitude: 33.27, Longitude: 35.2033}},
			{District: "Hermel_District", Coordinate: region.Coordinate{Latitude: 34.3934, Longitude: 36.3717}},
		},
		Center: region.Coordinate{Latitude: 33.8317, Longitude: 35.7875},
		Zoom:   infra.DefaultMapZoom,
	}

	chartPlot, err := ZeroInitiativeMap(zeroMap)
	require.NoError(t, err)

	halfSpan := ZoomSpan(infra.DefaultMapZoom) / 2
	assert.InDelta(t, 35.7875-halfSpan, chartPlot.X.Min, 1e-9)
	assert.InDelta(t, 33.8317+halfSpan, chartPlot.Y.Max, 1e-9)
	for _, point := range zeroMap.Points {
		assert.True(t, point.Longitude > chartPlot.X.Min && point.Longitude < chartPlot.X.Max)
		assert.True(t, point.Latitude > chartPlot.Y.Min && point.Latitude < chartPlot.Y.Max)
	}

	var buffer bytes.Buffer
	require.NoError(t, NewRenderer(DefaultConfig()).Render(&buffer, chartPlot, FormatSVG))
	assert.Contains(t, buffer.String(), "<svg")
}

func TestZoomSpan(t *testing.T) {
	assert.Equal(t, 360.0, ZoomSpan(0))
	assert.Equal(t, 2.8125, ZoomSpan(7))
	assert.Equal(t, 360.0, ZoomSpan(-3))
}
