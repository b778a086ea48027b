package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

var (
	flagMaxSteps    int
	flagOutputDir   string
	flagLogStats    bool
	flagPerf        bool
	flagStatsWindow int
	flagMaxLag      int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless simulation",
	Long: `Run the simulation until max_steps ticks complete or both species die out,
then log a summary of the population history.

With --output-dir the run writes config.yaml, history.csv, telemetry.csv,
perf.csv and cells.csv to that directory.`,
	Args: cobra.NoArgs,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Stop after N ticks (default from config)")
	runCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	runCmd.Flags().BoolVar(&flagLogStats, "log-stats", false, "Output stats windows via slog")
	runCmd.Flags().BoolVar(&flagPerf, "perf", false, "Time each tick phase")
	runCmd.Flags().IntVar(&flagStatsWindow, "stats-window", 0, "Stats window size in ticks (0 = use config)")
	runCmd.Flags().IntVar(&flagMaxLag, "max-lag", 50, "Largest predator lag tried in the summary correlation")
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max-steps") {
		cfg.Simulation.MaxSteps = flagMaxSteps
	}
	if flagStatsWindow > 0 {
		cfg.Telemetry.StatsWindow = flagStatsWindow
	}
	seed := resolveSeed(cfg)
	cfg.Simulation.Seed = seed

	output, err := telemetry.NewOutputManager(flagOutputDir)
	if err != nil {
		return err
	}
	defer closeInto(output, &err)

	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	opts := game.Options{
		Config:    cfg,
		Seed:      seed,
		TrackPerf: flagPerf,
		LogStats:  flagLogStats,
	}
	// A nil *OutputManager must not become a non-nil Sink
	if output != nil {
		opts.Sink = output
	}

	w, err := game.NewWorld(opts)
	if err != nil {
		return err
	}

	slog.Info("starting simulation",
		"seed", seed,
		"width", cfg.World.Width,
		"height", cfg.World.Height,
		"prey", w.PreyCount(),
		"predators", w.PredatorCount(),
		"max_steps", cfg.Simulation.MaxSteps,
		"output_dir", output.Dir(),
	)

	reason, runErr := w.Run(cmd.Context())

	if err := output.WriteCells(w.CellRecords()); err != nil {
		return err
	}

	summary := telemetry.Summarize(w.PreyHistory(), w.PredatorHistory(), flagMaxLag)
	slog.Info("summary", "stop", reason.String(), "summary", summary)
	if perf, ok := w.PerfStats(); ok {
		perf.LogStats()
	}

	if runErr != nil {
		return fmt.Errorf("simulation stopped at tick %d: %w", w.Tick(), runErr)
	}
	return nil
}

// closeInto closes c and reports its error through err unless err is
// already set.
func closeInto(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing output: %w", cerr)
	}
}
