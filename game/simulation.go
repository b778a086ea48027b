package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// StopReason tells why Run returned.
type StopReason uint8

const (
	StopMaxSteps  StopReason = iota // simulation.max_steps ticks completed
	StopExtinct                     // both species died out
	StopCancelled                   // context cancelled between ticks
)

func (r StopReason) String() string {
	switch r {
	case StopMaxSteps:
		return "max_steps"
	case StopExtinct:
		return "extinct"
	case StopCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Run steps the world until simulation.max_steps ticks have completed,
// both species are extinct, or ctx is cancelled. Extinction is checked
// before every tick. When err is non-nil the reason is not meaningful.
func (w *World) Run(ctx context.Context) (StopReason, error) {
	for w.tick < w.cfg.Simulation.MaxSteps {
		if err := ctx.Err(); err != nil {
			return StopCancelled, err
		}
		if w.Extinct() {
			slog.Info("all agents died out", "tick", w.tick)
			return StopExtinct, nil
		}
		if err := w.Step(); err != nil {
			return StopMaxSteps, err
		}
	}

	slog.Info("simulation finished",
		"tick", w.tick,
		"prey", w.numPrey,
		"predators", w.numPred,
	)
	return StopMaxSteps, nil
}

// Step advances the simulation by one tick: environment, prey, predators,
// then history. A sink error is returned after the tick is complete.
func (w *World) Step() error {
	w.startTick()

	w.startPhase(telemetry.PhaseEnvironment)
	w.resources.Regrow()

	w.startPhase(telemetry.PhasePrey)
	w.stepPrey()

	w.startPhase(telemetry.PhasePredator)
	w.stepPredators()

	w.startPhase(telemetry.PhaseCleanup)
	w.cleanupDead()

	w.tick++
	w.preyHistory = append(w.preyHistory, w.numPrey)
	w.predHistory = append(w.predHistory, w.numPred)

	w.startPhase(telemetry.PhaseTelemetry)
	var err error
	if w.sink != nil {
		rec := telemetry.TickRecord{
			Tick:          w.tick,
			Prey:          w.numPrey,
			Predators:     w.numPred,
			TotalResource: w.resources.Total(),
		}
		if serr := w.sink.WriteTick(rec); serr != nil {
			err = fmt.Errorf("writing tick %d: %w", w.tick, serr)
		}
	}
	w.endTick()

	if ferr := w.flushTelemetry(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// density is the live population per cell.
func (w *World) density() float64 {
	return float64(w.numPrey+w.numPred) / float64(w.cfg.Derived.Area)
}

// collectLive gathers live agents of kind in query order, then shuffles them.
func (w *World) collectLive(kind components.Kind) []ecs.Entity {
	w.order = w.order[:0]
	query := w.agentFilter.Query()
	for query.Next() {
		_, vitals, org := query.Get()
		if vitals.Alive && org.Kind == kind {
			w.order = append(w.order, query.Entity())
		}
	}
	w.rng.Shuffle(len(w.order), func(i, j int) {
		w.order[i], w.order[j] = w.order[j], w.order[i]
	})
	return w.order
}

// move relocates an agent to a random or greedy neighbour, or leaves it in
// place when it has no passable neighbour.
func (w *World) move(
	pos *components.Position,
	greedy func(nb []components.Position) (components.Position, bool),
	roaming bool,
) {
	nb := w.neighbors.Around(*pos)
	if len(nb) == 0 {
		return
	}

	var dest components.Position
	var ok bool
	if systems.ShouldRoam(roaming, w.cfg.Population.RandomMoveChance, w.rng) {
		dest, ok = w.mover.Random(nb, w.rng)
	} else {
		dest, ok = greedy(nb)
	}
	if ok {
		*pos = dest
	}
}

// age applies one tick of aging and movement cost at the agent's cell.
// Returns false and records the death if the agent is exhausted.
func (w *World) age(kind components.Kind, pos components.Position, vitals *components.Vitals) bool {
	cost := w.species(kind).BaseMoveCost * w.terrain.MoveCostScale(pos)
	if vitals.Tick(cost) {
		return true
	}

	cause := telemetry.CauseOldAge
	if vitals.Energy <= 0 {
		cause = telemetry.CauseStarvation
	}
	w.kill(kind, cause)
	return false
}

// canReproduce reports whether one more agent fits under max_entities.
func (w *World) canReproduce() bool {
	return w.numPrey+w.numPred+1 <= w.cfg.Population.MaxEntities
}

// stepPrey runs the prey phase.
func (w *World) stepPrey() {
	cfg := w.cfg
	order := w.collectLive(components.KindPrey)
	roaming := w.density() < cfg.Population.RoamDensityThreshold

	greedy := func(nb []components.Position) (components.Position, bool) {
		return w.mover.GreedyPrey(nb, w.resources, w.rng)
	}

	w.survivors = w.survivors[:0]
	for _, e := range order {
		pos := w.posMap.Get(e)
		w.move(pos, greedy, roaming)

		vitals := w.vitalsMap.Get(e)
		if !w.age(components.KindPrey, *pos, vitals) {
			continue
		}

		vitals.Energy += w.resources.Consume(*pos, cfg.Prey.EatAmount)

		if vitals.Energy >= cfg.Prey.ReproduceThreshold && w.canReproduce() {
			child := w.reproduce(components.KindPrey, *pos, vitals)
			w.survivors = append(w.survivors, child)
		}
		w.survivors = append(w.survivors, e)
	}

	w.cullOvercrowded(w.survivors)
}

// cullOvercrowded kills each live prey independently once the population
// exceeds the density cap.
func (w *World) cullOvercrowded(prey []ecs.Entity) {
	p := OvercrowdingCullProbability(w.numPrey, w.cfg.Derived.MaxPrey, w.cfg.Population.PreyOvercrowdMortality)
	if p <= 0 {
		return
	}
	for _, e := range prey {
		if w.rng.Float64() < p {
			w.vitalsMap.Get(e).Alive = false
			w.kill(components.KindPrey, telemetry.CauseOvercrowding)
		}
	}
}

// OvercrowdingCullProbability is the per-prey death chance for a prey count
// against a density cap. It is 0 at or below the cap, or when the cap is 0,
// and grows linearly with the relative overflow up to 1.
func OvercrowdingCullProbability(count, maxPrey int, mortality float64) float64 {
	if maxPrey <= 0 || count <= maxPrey {
		return 0
	}
	over := float64(count-maxPrey) / float64(maxPrey)
	return min(1, over*mortality)
}

// stepPredators runs the predator phase: movement, hunting, reproduction.
func (w *World) stepPredators() {
	cfg := w.cfg
	w.indexPrey()

	order := w.collectLive(components.KindPredator)
	roaming := w.density() < cfg.Population.RoamDensityThreshold

	width := w.terrain.Width()
	hasPrey := func(p components.Position) bool {
		return len(w.preyCells[p.Y*width+p.X]) > 0
	}
	greedy := func(nb []components.Position) (components.Position, bool) {
		return w.mover.GreedyPredator(nb, hasPrey, w.rng)
	}

	w.survivors = w.survivors[:0]
	for _, e := range order {
		pos := w.posMap.Get(e)
		w.move(pos, greedy, roaming)

		if !w.age(components.KindPredator, *pos, w.vitalsMap.Get(e)) {
			continue
		}
		w.survivors = append(w.survivors, e)
	}

	w.hunt(w.survivors)

	for _, e := range w.survivors {
		vitals := w.vitalsMap.Get(e)
		if !vitals.Alive {
			continue
		}
		if vitals.Energy >= cfg.Predator.ReproduceThreshold && w.canReproduce() {
			w.reproduce(components.KindPredator, *w.posMap.Get(e), vitals)
		}
	}
}

// indexPrey buckets live prey by cell index in query order.
func (w *World) indexPrey() {
	clear(w.preyCells)
	width := w.terrain.Width()
	query := w.agentFilter.Query()
	for query.Next() {
		pos, vitals, org := query.Get()
		if !vitals.Alive || org.Kind != components.KindPrey {
			continue
		}
		cell := pos.Y*width + pos.X
		w.preyCells[cell] = append(w.preyCells[cell], query.Entity())
	}
}

// hunt resolves at most one predation per cell holding both species.
// Cells are visited in the order their first predator appears.
func (w *World) hunt(predators []ecs.Entity) {
	width := w.terrain.Width()

	var cells []int
	groups := make(map[int][]ecs.Entity)
	for _, e := range predators {
		pos := w.posMap.Get(e)
		cell := pos.Y*width + pos.X
		if _, seen := groups[cell]; !seen {
			cells = append(cells, cell)
		}
		groups[cell] = append(groups[cell], e)
	}

	for _, cell := range cells {
		prey := w.preyCells[cell]
		if len(prey) == 0 {
			continue
		}

		hunters := groups[cell]
		hunter := hunters[w.rng.Intn(len(hunters))]
		victim := prey[w.rng.Intn(len(prey))]
		w.collector.RecordHuntAttempt()

		if w.rng.Float64() < w.cfg.Predator.HuntDeathChance {
			w.vitalsMap.Get(hunter).Alive = false
			w.kill(components.KindPredator, telemetry.CauseHuntDeath)
			continue
		}

		w.vitalsMap.Get(victim).Alive = false
		w.kill(components.KindPrey, telemetry.CausePredation)
		w.vitalsMap.Get(hunter).Energy += w.cfg.Predator.EatGain
		w.collector.RecordKill()
	}
}
