package game

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/pthm-cable/ecosim/config"
)

func TestGenerateTerrainMatchesWorld(t *testing.T) {
	for _, noise := range []string{config.NoiseUniform, config.NoiseSimplex} {
		t.Run(noise, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Terrain.Noise = noise

			w := newTestWorld(t, cfg, 11)
			preview := GenerateTerrain(cfg, rand.New(rand.NewSource(11)))

			if !slices.Equal(w.Terrain().Cells(), preview.Cells()) {
				t.Error("preview terrain differs from the world's terrain for the same seed")
			}
			if w.Terrain().Cuts() != preview.Cuts() {
				t.Errorf("cuts %+v vs %+v", w.Terrain().Cuts(), preview.Cuts())
			}
		})
	}
}

func TestSimplexWorldHoldsInvariants(t *testing.T) {
	cfg := smallConfig()
	cfg.Terrain.Noise = config.NoiseSimplex
	cfg.Simulation.MaxSteps = 20
	w := newTestWorld(t, cfg, 5)

	for w.Tick() < cfg.Simulation.MaxSteps {
		if err := w.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if err := w.CheckInvariants(); err != nil {
			t.Fatalf("tick %d: %v", w.Tick(), err)
		}
	}
}
