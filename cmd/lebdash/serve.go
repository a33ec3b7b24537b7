package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/lebdash/pkg/chart"
	"github.com/coolbeans/lebdash/pkg/dashboard"
	"github.com/coolbeans/lebdash/pkg/insight"
	"github.com/coolbeans/lebdash/pkg/snapshot"
	"github.com/coolbeans/lebdash/pkg/tui"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serves the dashboard page, its charts, a JSON API and an Excel export.

Routes:
  /                         HTML dashboard (state in the query string)
  /api/view                 Full view as JSON
  /api/infrastructure       Infrastructure section
  /api/zero-initiative      Zero-initiative districts
  /api/debt                 Debt series and reveal steps
  /chart/{name}.{png|svg}   Charts
  /export.xlsx              Workbook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			warm, _ := cmd.Flags().GetBool("warm")

			loaded, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = loaded.Server.Addr
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			dash := newDashboard(loaded, nil)
			if warm {
				if err := dash.Warm(ctx); err != nil {
					logger.Warn("warm-up failed", zap.Error(err))
				}
			}

			server := dashboard.NewServer(dash, chart.NewRenderer(loaded.ChartRendererConfig()), logger.Named("http"))
			logger.Info("serving dashboard", zap.String("addr", addr))
			return server.ListenAndServe(ctx, addr, loaded.Server.ReadHeaderTimeout.Std())
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().Bool("warm", true, "Fetch both datasets before accepting requests")
	return cmd
}

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the dashboard in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			style, _ := cmd.Flags().GetString("style")

			loaded, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			insights, err := insight.NewTerminalRenderer(style, insight.DefaultWordWrap)
			if err != nil {
				return err
			}

			// JSON log lines would corrupt the alternate screen.
			dash := newDashboard(loaded, zap.NewNop())
			program := tea.NewProgram(tui.NewModel(ctx, dash, insights), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("terminal dashboard failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("style", "", "glamour style for insights (dark, light, notty)")
	return cmd
}

func snapshotCmd() *cobra.Command {
	defaults := snapshot.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a full-page screenshot of the dashboard",
		Long: `Captures the dashboard page with headless Chrome. Without --url an
in-process server is started on a free local port for the capture. Population
range, step and toggles apply to that local capture only. The default quality
of 100 writes a PNG; lower values write a JPEG.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL, _ := cmd.Flags().GetString("url")
			output, _ := cmd.Flags().GetString("out")
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			settle, _ := cmd.Flags().GetDuration("settle")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			chromePath, _ := cmd.Flags().GetString("chrome")
			showZero, _ := cmd.Flags().GetBool("zero")
			showInsights, _ := cmd.Flags().GetBool("insights")
			quality, _ := cmd.Flags().GetInt("quality")

			state := stateFromFlags(cmd)
			if showZero {
				state = state.Apply(dashboard.ZeroInitiativeToggled{})
			}
			if showInsights {
				state = state.Apply(dashboard.InfraInsightsToggled{}).Apply(dashboard.DebtInsightsToggled{})
			}

			captureConfig := snapshot.Config{
				URL:      pageURL,
				Width:    width,
				Height:   height,
				Quality:  quality,
				Settle:   settle,
				Timeout:  timeout,
				ExecPath: chromePath,
				Logger:   logger.Named("snapshot"),
			}

			if !cmd.Flags().Changed("out") {
				output = "lebdash" + captureConfig.Extension()
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			var image []byte
			var err error
			if pageURL != "" {
				image, err = snapshot.Capture(ctx, captureConfig)
			} else {
				image, err = captureLocal(ctx, captureConfig, state)
			}
			if err != nil {
				return err
			}

			if err := writeOutput(cmd, output, image); err != nil {
				return err
			}
			logger.Info("snapshot written", zap.String("path", output), zap.Int("bytes", len(image)))
			return nil
		},
	}
	stateFlags(cmd)
	cmd.Flags().String("url", "", "Dashboard URL to capture (default: start a local server)")
	cmd.Flags().StringP("out", "o", "lebdash.png", "Output file, - for stdout (default extension follows --quality)")
	cmd.Flags().Int("quality", defaults.Quality, "Screenshot quality; 100 for PNG, lower for JPEG")
	cmd.Flags().Int("width", defaults.Width, "Browser window width")
	cmd.Flags().Int("height", defaults.Height, "Browser window height")
	cmd.Flags().Duration("settle", defaults.Settle, "Wait after load for charts")
	cmd.Flags().Duration("timeout", defaults.Timeout, "Capture timeout")
	cmd.Flags().String("chrome", "", "Path to the Chrome or Chromium binary")
	cmd.Flags().Bool("zero", false, "Open the zero-initiative map")
	cmd.Flags().Bool("insights", false, "Open both insight blocks")
	return cmd
}

// captureLocal serves the dashboard on a loopback port and captures state.
func captureLocal(ctx context.Context, captureConfig snapshot.Config, state dashboard.State) ([]byte, error) {
	loaded, err := loadConfig()
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	dash := newDashboard(loaded, nil)
	server := dashboard.NewServer(dash, chart.NewRenderer(loaded.ChartRendererConfig()), logger.Named("http"))
	captureConfig.URL = "http://" + listener.Addr().String() + state.URL("/")

	serveCtx, stopServing := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(serveCtx)

	group.Go(func() error {
		return server.Serve(groupCtx, listener, 10*time.Second)
	})

	var image []byte
	group.Go(func() error {
		defer stopServing()
		if err := dash.Warm(groupCtx); err != nil {
			logger.Warn("warm-up failed", zap.Error(err))
		}
		var captureErr error
		image, captureErr = snapshot.Capture(groupCtx, captureConfig)
		return captureErr
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return image, nil
}
