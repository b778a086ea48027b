package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/systems"
)

var terrainCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Print an ASCII preview of the generated terrain",
	Long: `Generate terrain for the configured size and seed and print it as text.

Legend: ~ water, . grass, ^ forest, M mountain.

The same config and seed produce the same terrain as 'ecosim run'.`,
	Args: cobra.NoArgs,
	RunE: runTerrain,
}

func runTerrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seed := resolveSeed(cfg)

	t := game.GenerateTerrain(cfg, rand.New(rand.NewSource(seed)))

	out := cmd.OutOrStdout()
	fmt.Fprint(out, t.ASCII())
	fmt.Fprintln(out)

	c := t.Cuts()
	fmt.Fprintf(out, "seed %d  noise %s  cuts water<%.3f grass<%.3f forest<%.3f\n", seed, cfg.Terrain.Noise, c.Water, c.Grass, c.Forest)

	area := float64(t.Width() * t.Height())
	counts := t.ClassCounts()
	for _, class := range systems.TerrainClasses() {
		n := counts[class]
		fmt.Fprintf(out, "  %-9s %6d  %5.1f%%\n", class, n, float64(n)/area*100)
	}
	fmt.Fprintf(out, "  %-9s %6d\n", "passable", t.PassableCount())
	return nil
}
