package game

import (
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
)

// GenerateTerrain builds the terrain a world created from cfg would use
// when rng is seeded the same way. It is the first consumer of rng.
func GenerateTerrain(cfg *config.Config, rng systems.RNG) *systems.Terrain {
	tc := cfg.Terrain

	var cuts *systems.Cuts
	if c := tc.Cuts; c != nil {
		cuts = &systems.Cuts{Water: c.Water, Grass: c.Grass, Forest: c.Forest}
	}

	if tc.Noise == config.NoiseSimplex {
		opts := systems.SimplexOptions{
			Octaves:     tc.Octaves,
			Frequency:   tc.Frequency,
			Persistence: tc.Persistence,
		}
		return systems.GenerateSimplexTerrain(cfg.World.Width, cfg.World.Height, tc.SmoothingPasses, opts, cuts, rng)
	}
	return systems.GenerateTerrain(cfg.World.Width, cfg.World.Height, tc.SmoothingPasses, cuts, rng)
}
