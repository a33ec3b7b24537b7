package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/lebdash/pkg/chart"
	"github.com/coolbeans/lebdash/pkg/dashboard"
	"github.com/coolbeans/lebdash/pkg/insight"
)

func infraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infra",
		Short: "Count infrastructure initiatives per governorate",
		Long: `Counts rows reporting infrastructure initiatives for every governorate
whose population estimate lies inside [--min, --max], ascending by count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			showSummary, _ := cmd.Flags().GetBool("summary")

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			section := newDashboard(loaded, nil).RenderInfrastructure(ctx, stateFromFlags(cmd))
			if section.Error != "" {
				return errors.New(section.Error)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSONTo(out, section)
			}

			fmt.Fprintf(out, "Population range: %s\n", section.Aggregation.Range)
			fmt.Fprintf(out, "Selected governorates: %d\n\n", len(section.Aggregation.Selected))
			if section.Aggregation.Empty() {
				fmt.Fprintln(out, "No governorate in range.")
			}
			for _, count := range section.Aggregation.Counts {
				fmt.Fprintf(out, "  %-16s %5d\n", count.Governorate, count.Projects)
			}
			fmt.Fprintf(out, "  %-16s %5d\n", "Total", section.Aggregation.Total())

			if showSummary {
				summary := section.Summary
				fmt.Fprintf(out, "\nRows: %d (with initiatives %d, without %d, %.1f%% without)\n",
					summary.Rows, summary.WithInitiatives, summary.WithoutInitiatives, summary.ZeroSharePercent)
				for _, share := range summary.Shares {
					fmt.Fprintf(out, "  %-16s %5d %6.1f%%\n", share.Governorate, share.Projects, share.Percent)
				}
				if len(summary.Unmapped) > 0 {
					fmt.Fprintf(out, "Unmapped area tokens: %s\n", strings.Join(summary.Unmapped, ", "))
				}
			}
			return nil
		},
	}
	stateFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.Flags().Bool("summary", false, "Also print governorate shares")
	return cmd
}

func zeroMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zero-map",
		Short: "List districts reporting no infrastructure initiative",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			state := stateFromFlags(cmd).Apply(dashboard.ZeroInitiativeToggled{})
			section := newDashboard(loaded, nil).RenderInfrastructure(ctx, state)
			if section.Error != "" {
				return errors.New(section.Error)
			}
			zeroMap := section.ZeroMap

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSONTo(out, zeroMap)
			}

			fmt.Fprintf(out, "%s\n\n", insight.ZeroInitiativeHeading)
			for _, point := range zeroMap.Points {
				fmt.Fprintf(out, "  %-28s %8.4f %8.4f\n", point.District, point.Latitude, point.Longitude)
			}
			if len(zeroMap.Unplotted) > 0 {
				fmt.Fprintf(out, "\nNo centroid (not plotted): %s\n", strings.Join(zeroMap.Unplotted, ", "))
			}
			fmt.Fprintf(out, "\nCenter %.4f, %.4f at zoom %d\n", zeroMap.Center.Latitude, zeroMap.Center.Longitude, zeroMap.Zoom)
			return nil
		},
	}
	stateFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func debtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Average external debt per year",
		Long: `Averages external debt values above 1000 per reference period and
converts them to billions. --step limits the output to the reveal step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			section := newDashboard(loaded, nil).RenderDebt(ctx, stateFromFlags(cmd))
			if section.Error != "" {
				return errors.New(section.Error)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return writeJSONTo(out, section)
			}

			if section.Step != dashboard.AllSteps && section.Step < len(section.StepLabels) {
				fmt.Fprintf(out, "%s%s\n\n", insight.DebtStepPrefix, section.StepLabels[section.Step])
			}
			for _, point := range section.Visible {
				fmt.Fprintf(out, "  %-8s %20.2f %10.3f bn\n", point.Period, point.Value, point.ValueBillion)
			}
			fmt.Fprintf(out, "\n%d of %d rows kept\n", section.Series.Kept, section.Series.Rows)
			if section.Summary != nil {
				fmt.Fprintf(out, "Peak %s: %.3f bn, growth %s to %s: x%.2f\n",
					section.Summary.Peak.Period, section.Summary.Peak.ValueBillion,
					section.Summary.First.Period, section.Summary.Last.Period, section.Summary.Growth)
			}
			return nil
		},
	}
	stateFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights [infrastructure|debt]",
		Short: "Render the insight texts in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, _ := cmd.Flags().GetString("style")
			wordWrap, _ := cmd.Flags().GetInt("width")

			blocks := insight.Blocks()
			if len(args) == 1 {
				block := insight.Block(args[0])
				if block.Markdown() == "" {
					return fmt.Errorf("unknown insight block %q", args[0])
				}
				blocks = []insight.Block{block}
			}

			renderer, err := insight.NewTerminalRenderer(style, wordWrap)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, block := range blocks {
				rendered, err := renderer.Render(block)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n%s\n", block.Heading(), rendered)
			}
			return nil
		},
	}
	cmd.Flags().String("style", "", "glamour style (dark, light, notty); empty detects the terminal")
	cmd.Flags().Int("width", insight.DefaultWordWrap, "Word wrap width")
	return cmd
}

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a dashboard chart to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			chartName, _ := cmd.Flags().GetString("name")
			formatName, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("out")

			format, err := chart.ParseFormat(formatName)
			if err != nil {
				return err
			}
			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			view, err := newDashboard(loaded, nil).ChartView(ctx, chartName, stateFromFlags(cmd))
			if err != nil {
				return err
			}
			chartPlot, sectionError, err := dashboard.BuildChart(chartName, view)
			if err != nil {
				return fmt.Errorf("chart %q: %w", chartName, err)
			}
			if sectionError != "" {
				return errors.New(sectionError)
			}

			var buffer bytes.Buffer
			if err := chart.NewRenderer(loaded.ChartRendererConfig()).Render(&buffer, chartPlot, format); err != nil {
				return err
			}
			if output == "" {
				output = chartName + "." + string(format)
			}
			if err := writeOutput(cmd, output, buffer.Bytes()); err != nil {
				return err
			}
			logger.Info("chart written", zap.String("chart", chartName), zap.String("path", output))
			return nil
		},
	}
	stateFlags(cmd)
	cmd.Flags().StringP("name", "n", dashboard.ChartInfrastructure,
		"Chart to render (infrastructure, zero-initiative, debt)")
	cmd.Flags().StringP("format", "f", string(chart.FormatPNG), "Image format (png, svg)")
	cmd.Flags().StringP("out", "o", "", "Output file, - for stdout (default <name>.<format>)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export aggregated results to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("out")

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			workbook, view, err := newDashboard(loaded, nil).Workbook(ctx, stateFromFlags(cmd))
			if err != nil {
				return err
			}
			for section, sectionError := range map[string]string{
				"infrastructure": view.Infrastructure.Error,
				"debt":           view.Debt.Error,
			} {
				if sectionError != "" {
					logger.Warn("section left out of export", zap.String("section", section), zap.String("error", sectionError))
				}
			}

			var buffer bytes.Buffer
			if err := workbook.Write(&buffer); err != nil {
				return err
			}
			if err := writeOutput(cmd, output, buffer.Bytes()); err != nil {
				return err
			}
			logger.Info("workbook written", zap.String("path", output))
			return nil
		},
	}
	stateFlags(cmd)
	cmd.Flags().StringP("out", "o", "lebdash.xlsx", "Output file, - for stdout")
	return cmd
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
