// ecosim runs a grid predator/prey ecosystem simulation headlessly.
//
// Usage:
//
//	ecosim run              - Run a simulation and log a summary
//	ecosim terrain          - Print an ASCII preview of the generated terrain
//
// Global flags:
//
//	--config <path>  - YAML config overlaid on the embedded defaults
//	--seed <value>   - RNG seed (0 = simulation.seed, then time-based)
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/ecosim/config"
)

var (
	// Global flags
	flagConfig string
	flagSeed   int64
)

func main() {
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ecosim",
	Short: "Grid predator/prey ecosystem simulation",
	Long: `ecosim simulates prey grazing a regrowing resource field on generated
terrain while predators hunt them.

Examples:
  ecosim run --max-steps 500 --output-dir runs/a
  ecosim run --config my.yaml --seed 7 --log-stats
  ecosim terrain --seed 7`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, then time-based)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(terrainCmd)
}

// loadConfig initializes the global config from --config.
func loadConfig() (*config.Config, error) {
	if err := config.Init(flagConfig); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return config.Cfg(), nil
}

// resolveSeed picks the flag seed, then the config seed, then the clock.
func resolveSeed(cfg *config.Config) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	if cfg.Simulation.Seed != 0 {
		return cfg.Simulation.Seed
	}
	return time.Now().UnixNano()
}
