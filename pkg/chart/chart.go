// Package chart draws the dashboard's bar, line and map charts with gonum/plot
// and encodes them as PNG or SVG.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Format is an image encoding supported by the renderer.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", case-insensitively.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q (use png or svg)", value)
	}
}

// ContentType returns the MIME type of the format.
func (format Format) ContentType() string {
	if format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Chart titles and axis labels.
const (
	InfrastructureTitle  = "Infrastructure Initiatives by Governorate (2018-2023)"
	InfrastructureXLabel = "Governorates"
	InfrastructureYLabel = "Existence of initiatives and projects"

	DebtTitle  = "External Debt in Lebanon as a Function of Time"
	DebtXLabel = "Time (years)"
	DebtYLabel = "External Debt (Billion USD)"

	MapTitle  = "Which Districts Are Left Behind?"
	MapXLabel = "Longitude"
	MapYLabel = "Latitude"
)

var (
	barColor       = color.RGBA{R: 99, G: 110, B: 250, A: 255}
	lineColor      = color.Black
	debtBackground = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	markerColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// emptyAxisMax is the value-axis maximum of a chart without data.
const emptyAxisMax = 1.0

// Config sets the rendered image size in points.
type Config struct {
	Width  float64
	Height float64
}

// DefaultConfig returns a 720x432 point canvas.
func DefaultConfig() Config {
	return Config{Width: 720, Height: 432}
}

// Renderer encodes plots at a fixed size.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer. Non-positive dimensions fall back to the
// defaults.
func NewRenderer(config Config) *Renderer {
	defaults := DefaultConfig()
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Height <= 0 {
		config.Height = defaults.Height
	}
	return &Renderer{config: config}
}

// Render writes the plot to writer in the given format.
func (renderer *Renderer) Render(writer io.Writer, chartPlot *plot.Plot, format Format) error {
	writerTo, err := chartPlot.WriterTo(vg.Points(renderer.config.Width), vg.Points(renderer.config.Height), string(format))
	if err != nil {
		return fmt.Errorf("failed to prepare %s canvas: %w", format, err)
	}
	if _, err := writerTo.WriteTo(writer); err != nil {
		return fmt.Errorf("failed to encode %s chart: %w", format, err)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	chartPlot := plot.New()
	chartPlot.Title.Text = title
	chartPlot.Title.TextStyle.Font.Size = vg.Points(14)
	chartPlot.X.Label.Text = xLabel
	chartPlot.Y.Label.Text = yLabel
	return chartPlot
}
