// Package game owns the simulation state and advances it tick by tick.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// ErrNoPassableCell is returned when agents are requested on a grid
// without a single passable cell.
var ErrNoPassableCell = errors.New("no passable cell to place agents")

// Sink receives one population record after every completed tick.
type Sink interface {
	WriteTick(rec telemetry.TickRecord) error
}

// WindowSink is optionally implemented by a Sink that also stores
// per-window telemetry and perf stats.
type WindowSink interface {
	WriteTelemetry(stats telemetry.WindowStats) error
	WritePerf(stats telemetry.PerfStats, windowEnd int) error
}

// Options configures world creation.
type Options struct {
	Config        *config.Config              // nil uses the embedded defaults
	Seed          int64                       // Random seed, used as given
	Sink          Sink                        // Optional per-tick output
	StatsCallback func(telemetry.WindowStats) // Called on each stats window flush
	TrackPerf     bool                        // Time each tick phase
	LogStats      bool                        // Log stats windows with slog
}

// World holds the complete simulation state.
// It is not safe for concurrent use.
type World struct {
	cfg *config.Config
	rng *rand.Rand

	world *ecs.World

	// Entity mapper and filter over all agent components
	agentMapper *ecs.Map3[
		components.Position,
		components.Vitals,
		components.Organism,
	]
	agentFilter *ecs.Filter3[
		components.Position,
		components.Vitals,
		components.Organism,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map[components.Position]
	vitalsMap *ecs.Map[components.Vitals]

	terrain   *systems.Terrain
	resources *systems.ResourceField
	neighbors *systems.Neighborhood
	mover     systems.Mover

	// State
	tick    int
	nextID  uint32
	numPrey int
	numPred int

	preyHistory []int
	predHistory []int

	// Telemetry
	sink          Sink
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// Per-tick scratch
	order     []ecs.Entity
	survivors []ecs.Entity
	preyCells map[int][]ecs.Entity
}

// NewWorld validates the configuration, generates terrain and resources,
// and places the initial population.
func NewWorld(opts Options) (*World, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	cfg.ComputeDerived()

	world := ecs.NewWorld()
	w := &World{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		world:  world,
		nextID: 1,
		agentMapper: ecs.NewMap3[
			components.Position,
			components.Vitals,
			components.Organism,
		](world),
		agentFilter: ecs.NewFilter3[
			components.Position,
			components.Vitals,
			components.Organism,
		](world),
		posMap:    ecs.NewMap[components.Position](world),
		vitalsMap: ecs.NewMap[components.Vitals](world),

		sink:          opts.Sink,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
		preyCells:     make(map[int][]ecs.Entity),
	}
	if opts.TrackPerf {
		w.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	w.terrain = GenerateTerrain(cfg, w.rng)
	w.resources = systems.NewResourceField(w.terrain, cfg.Resource.BaseMax, cfg.Resource.BaseRegrowthRate, w.rng)
	w.neighbors = systems.NewNeighborhood(w.terrain, cfg.Derived.MovementRadius, cfg.World.Toroidal)

	if err := w.spawnInitialPopulation(); err != nil {
		return nil, err
	}

	return w, nil
}

// species returns the parameters shared by both kinds.
func (w *World) species(kind components.Kind) *config.SpeciesConfig {
	if kind == components.KindPrey {
		return &w.cfg.Prey.SpeciesConfig
	}
	return &w.cfg.Predator.SpeciesConfig
}

// Config returns the effective configuration. Callers must not modify it.
func (w *World) Config() *config.Config { return w.cfg }

// Tick returns the number of completed ticks.
func (w *World) Tick() int { return w.tick }

// PreyCount returns the number of live prey.
func (w *World) PreyCount() int { return w.numPrey }

// PredatorCount returns the number of live predators.
func (w *World) PredatorCount() int { return w.numPred }

// Extinct reports whether both species are gone.
func (w *World) Extinct() bool { return w.numPrey == 0 && w.numPred == 0 }
