package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coolbeans/lebdash/pkg/config"
	"github.com/coolbeans/lebdash/pkg/dashboard"
	"github.com/coolbeans/lebdash/pkg/region"
	"github.com/coolbeans/lebdash/pkg/source"
)

var version = "0.1.0"

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lebdash",
		Short: "Lebanon infrastructure and external debt dashboard",
		Long: `lebdash fetches two public datasets about Lebanon and presents them as a
dashboard:

  - Infrastructure initiatives per governorate, filtered by population size,
    with the districts that report no initiative at all
  - Average external debt per year, revealed one year at a time

Serve it over HTTP, browse it in the terminal, or run a single pipeline.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zapConfig := zap.NewProductionConfig()
			if verbose {
				zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zapConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(infraCmd())
	rootCmd.AddCommand(zeroMapCmd())
	rootCmd.AddCommand(debtCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(chartCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(tablesCmd())

	return rootCmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// loadConfig reads --config and the environment.
func loadConfig() (config.Config, error) {
	loaded, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	logger.Debug("configuration loaded",
		zap.String("path", configPath),
		zap.String("infrastructure_url", loaded.Data.InfrastructureURL),
		zap.String("debt_url", loaded.Data.DebtURL))
	return loaded, nil
}

// newDashboard wires the dataset client and both pipelines. A nil
// dashboardLogger falls back to the command logger.
func newDashboard(loaded config.Config, dashboardLogger *zap.Logger) *dashboard.Dashboard {
	if dashboardLogger == nil {
		dashboardLogger = logger
	}
	client := source.NewClient(loaded.SourceConfig(dashboardLogger.Named("source")))
	return dashboard.New(dashboard.Config{
		InfrastructureURL: loaded.Data.InfrastructureURL,
		DebtURL:           loaded.Data.DebtURL,
		MapZoom:           loaded.Map.Zoom,
		Logger:            dashboardLogger.Named("dashboard"),
	}, client, region.DefaultTables())
}

// stateFlags registers the flags shared by commands that render a view.
func stateFlags(cmd *cobra.Command) {
	cmd.Flags().Int("min", region.MinPopulationBound, "Lower bound of the population range")
	cmd.Flags().Int("max", region.MaxPopulationBound, "Upper bound of the population range")
	cmd.Flags().Int("step", dashboard.AllSteps, "Debt reveal step (-1 for the whole series)")
}

// stateFromFlags builds a dashboard state by replaying flag values as events.
func stateFromFlags(cmd *cobra.Command) dashboard.State {
	minPopulation, _ := cmd.Flags().GetInt("min")
	maxPopulation, _ := cmd.Flags().GetInt("max")
	step, _ := cmd.Flags().GetInt("step")

	state := dashboard.DefaultState()
	state = state.Apply(dashboard.PopulationRangeChanged{Min: minPopulation, Max: maxPopulation})
	state = state.Apply(dashboard.DebtStepSelected{Index: step})
	return state
}

func writeJSONTo(writer io.Writer, value interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the district, population and centroid tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := region.DefaultTables()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Population estimates:")
			for _, governorate := range region.Governorates() {
				fmt.Fprintf(out, "  %-16s %9d\n", governorate, tables.Population[governorate])
			}

			districtTable := tables.Normalizer.Table()
			fmt.Fprintf(out, "\nDistrict lookup (%d tokens):\n", len(districtTable))
			tokens := make([]string, 0, len(districtTable))
			for token := range districtTable {
				tokens = append(tokens, token)
			}
			sort.Strings(tokens)
			for _, token := range tokens {
				fmt.Fprintf(out, "  %-36q %s\n", token, districtTable[token])
			}

			fmt.Fprintf(out, "\nDistrict centroids (%d):\n", len(tables.Centroids))
			districts := make([]string, 0, len(tables.Centroids))
			for district := range tables.Centroids {
				districts = append(districts, district)
			}
			sort.Strings(districts)
			for _, district := range districts {
				coordinate := tables.Centroids[district]
				fmt.Fprintf(out, "  %-28s %8.4f %8.4f\n", district, coordinate.Latitude, coordinate.Longitude)
			}
			return nil
		},
	}
}
