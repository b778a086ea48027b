// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Resource   ResourceConfig   `yaml:"resource"`
	Prey       PreyConfig       `yaml:"prey"`
	Predator   PredatorConfig   `yaml:"predator"`
	Simulation SimulationConfig `yaml:"simulation"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid dimensions and topology.
type WorldConfig struct {
	Width          int  `yaml:"width"`           // Grid width in cells
	Height         int  `yaml:"height"`          // Grid height in cells
	Toroidal       bool `yaml:"toroidal"`        // Wrap neighbour lookups on both axes
	MovementRadius int  `yaml:"movement_radius"` // Square neighbourhood radius (values < 1 act as 1)
}

// PopulationConfig holds initial counts and population-control parameters.
type PopulationConfig struct {
	InitialPrey            int     `yaml:"initial_prey"`
	InitialPredators       int     `yaml:"initial_predators"`
	MaxEntities            int     `yaml:"max_entities"`             // Reproduction never pushes prey+predators above this
	MaxPreyDensity         float64 `yaml:"max_prey_density"`         // Prey per cell before overcrowding culls start
	PreyOvercrowdMortality float64 `yaml:"prey_overcrowd_mortality"` // Cull probability per unit of overflow ratio
	RoamDensityThreshold   float64 `yaml:"roam_density_threshold"`   // Below this global density everyone roams
	RandomMoveChance       float64 `yaml:"random_move_chance"`       // Per-agent chance of a random move
}

// ResourceConfig holds base resource field parameters, scaled per terrain class.
type ResourceConfig struct {
	BaseMax          float64 `yaml:"base_max"`
	BaseRegrowthRate float64 `yaml:"base_regrowth_rate"` // Fraction of the gap to capacity closed per tick
}

// SpeciesConfig holds the parameters shared by both species.
type SpeciesConfig struct {
	InitialEnergy      float64 `yaml:"initial_energy"`
	BaseMoveCost       float64 `yaml:"base_move_cost"` // Scaled by the destination cell's move cost
	ReproduceThreshold float64 `yaml:"reproduce_threshold"`
	ReproduceCost      float64 `yaml:"reproduce_cost"`
	MaxAge             int     `yaml:"max_age"` // Ticks
}

// PreyConfig extends SpeciesConfig with grazing parameters.
type PreyConfig struct {
	SpeciesConfig `yaml:",inline"`
	EatAmount     float64 `yaml:"eat_amount"` // Max resource eaten per tick
}

// PredatorConfig extends SpeciesConfig with hunting parameters.
type PredatorConfig struct {
	SpeciesConfig   `yaml:",inline"`
	EatGain         float64 `yaml:"eat_gain"`          // Energy gained per successful hunt
	HuntDeathChance float64 `yaml:"hunt_death_chance"` // Probability the hunter dies instead
}

// SimulationConfig holds run limits.
type SimulationConfig struct {
	MaxSteps int   `yaml:"max_steps"`
	Seed     int64 `yaml:"seed"` // 0 = time-based when chosen by the CLI
}

// Terrain noise sources.
const (
	NoiseUniform = "uniform" // Independent uniform draw per cell
	NoiseSimplex = "simplex" // Fractal simplex noise
)

// TerrainConfig holds terrain generation parameters.
type TerrainConfig struct {
	Noise           string      `yaml:"noise"` // uniform or simplex
	SmoothingPasses int         `yaml:"smoothing_passes"`
	Cuts            *CutsConfig `yaml:"cuts,omitempty"` // Fixed classification cuts (nil = random draw)

	// Simplex only
	Octaves     int     `yaml:"octaves"`
	Frequency   float64 `yaml:"frequency"`   // Cycles per cell at the first octave
	Persistence float64 `yaml:"persistence"` // Amplitude falloff per octave
}

// CutsConfig pins the classification thresholds on smoothed noise in [0,1).
type CutsConfig struct {
	Water  float64 `yaml:"water"`
	Grass  float64 `yaml:"grass"`
	Forest float64 `yaml:"forest"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Area           int // World.Width * World.Height
	MovementRadius int // max(1, World.MovementRadius)
	MaxPrey        int // floor(MaxPreyDensity * Area)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	if c.Terrain.Cuts != nil {
		cuts := *c.Terrain.Cuts
		out.Terrain.Cuts = &cuts
	}
	return &out
}

// Validate reports every out-of-range field, joined into a single error.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.World.Width <= 0 || c.World.Height <= 0 {
		bad("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.World.MovementRadius < 0 {
		bad("world.movement_radius must be non-negative, got %d", c.World.MovementRadius)
	}

	nonNegInt := map[string]int{
		"population.initial_prey":      c.Population.InitialPrey,
		"population.initial_predators": c.Population.InitialPredators,
		"population.max_entities":      c.Population.MaxEntities,
		"prey.max_age":                 c.Prey.MaxAge,
		"predator.max_age":             c.Predator.MaxAge,
		"simulation.max_steps":         c.Simulation.MaxSteps,
		"terrain.smoothing_passes":     c.Terrain.SmoothingPasses,
		"terrain.octaves":              c.Terrain.Octaves,
		"telemetry.stats_window":       c.Telemetry.StatsWindow,
		"telemetry.perf_window":        c.Telemetry.PerfWindow,
	}
	for _, name := range sortedKeys(nonNegInt) {
		if v := nonNegInt[name]; v < 0 {
			bad("%s must be non-negative, got %d", name, v)
		}
	}

	nonNeg := map[string]float64{
		"population.max_prey_density":         c.Population.MaxPreyDensity,
		"population.prey_overcrowd_mortality": c.Population.PreyOvercrowdMortality,
		"population.roam_density_threshold":   c.Population.RoamDensityThreshold,
		"resource.base_max":                   c.Resource.BaseMax,
		"resource.base_regrowth_rate":         c.Resource.BaseRegrowthRate,
		"prey.initial_energy":                 c.Prey.InitialEnergy,
		"prey.base_move_cost":                 c.Prey.BaseMoveCost,
		"prey.eat_amount":                     c.Prey.EatAmount,
		"prey.reproduce_threshold":            c.Prey.ReproduceThreshold,
		"prey.reproduce_cost":                 c.Prey.ReproduceCost,
		"predator.initial_energy":             c.Predator.InitialEnergy,
		"predator.base_move_cost":             c.Predator.BaseMoveCost,
		"predator.eat_gain":                   c.Predator.EatGain,
		"predator.reproduce_threshold":        c.Predator.ReproduceThreshold,
		"predator.reproduce_cost":             c.Predator.ReproduceCost,
		"terrain.persistence":                 c.Terrain.Persistence,
	}
	for _, name := range sortedKeys(nonNeg) {
		if v := nonNeg[name]; !finite(v) || v < 0 {
			bad("%s must be a finite non-negative number, got %g", name, v)
		}
	}

	probs := map[string]float64{
		"population.random_move_chance": c.Population.RandomMoveChance,
		"predator.hunt_death_chance":    c.Predator.HuntDeathChance,
	}
	for _, name := range sortedKeys(probs) {
		if v := probs[name]; !(v >= 0 && v <= 1) {
			bad("%s must be in [0,1], got %g", name, v)
		}
	}

	switch c.Terrain.Noise {
	case NoiseUniform, NoiseSimplex:
	default:
		bad("terrain.noise must be %q or %q, got %q", NoiseUniform, NoiseSimplex, c.Terrain.Noise)
	}
	if c.Terrain.Noise == NoiseSimplex && (c.Terrain.Octaves < 1 || !(c.Terrain.Frequency > 0) || !finite(c.Terrain.Frequency)) {
		bad("simplex terrain needs octaves >= 1 and frequency > 0, got %d/%g",
			c.Terrain.Octaves, c.Terrain.Frequency)
	}

	if cuts := c.Terrain.Cuts; cuts != nil {
		if !finite(cuts.Water) || !finite(cuts.Grass) || !finite(cuts.Forest) ||
			cuts.Water < 0 || cuts.Grass < cuts.Water || cuts.Forest < cuts.Grass {
			bad("terrain.cuts must satisfy 0 <= water <= grass <= forest, got %g/%g/%g",
				cuts.Water, cuts.Grass, cuts.Forest)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating a loaded config in code.
func (c *Config) ComputeDerived() {
	c.Derived.Area = c.World.Width * c.World.Height
	c.Derived.MovementRadius = max(1, c.World.MovementRadius)
	c.Derived.MaxPrey = int(c.Population.MaxPreyDensity * float64(c.Derived.Area))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
