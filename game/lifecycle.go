package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// spawnInitialPopulation places prey then predators on random passable cells.
func (w *World) spawnInitialPopulation() error {
	pop := w.cfg.Population
	if pop.InitialPrey+pop.InitialPredators == 0 {
		return nil
	}
	if w.terrain.PassableCount() == 0 {
		return fmt.Errorf("placing %d prey and %d predators: %w",
			pop.InitialPrey, pop.InitialPredators, ErrNoPassableCell)
	}

	for i := 0; i < pop.InitialPrey; i++ {
		pos, _ := w.terrain.RandomPassableCell(w.rng)
		w.spawnAgent(components.KindPrey, pos)
	}
	for i := 0; i < pop.InitialPredators; i++ {
		pos, _ := w.terrain.RandomPassableCell(w.rng)
		w.spawnAgent(components.KindPredator, pos)
	}
	return nil
}

// spawnAgent creates a fresh agent of kind at pos.
// Pointers obtained from mappers before this call may be invalidated.
func (w *World) spawnAgent(kind components.Kind, pos components.Position) ecs.Entity {
	species := w.species(kind)

	vitals := components.Vitals{
		Energy: species.InitialEnergy,
		MaxAge: species.MaxAge,
		Alive:  true,
	}
	org := components.Organism{ID: w.nextID, Kind: kind}
	w.nextID++

	entity := w.agentMapper.NewEntity(&pos, &vitals, &org)

	// Track population by kind
	if kind == components.KindPrey {
		w.numPrey++
	} else {
		w.numPred++
	}

	return entity
}

// reproduce pays the parent's cost and spawns a child at its cell.
// Returns the child entity. The parent's vitals pointer is invalid afterwards.
func (w *World) reproduce(kind components.Kind, pos components.Position, vitals *components.Vitals) ecs.Entity {
	vitals.Energy -= w.species(kind).ReproduceCost
	child := w.spawnAgent(kind, pos)
	w.collector.RecordBirth(kind)
	return child
}

// kill updates live counts and telemetry for an agent just marked dead.
func (w *World) kill(kind components.Kind, cause telemetry.DeathCause) {
	if kind == components.KindPrey {
		w.numPrey--
	} else {
		w.numPred--
	}
	w.collector.RecordDeath(kind, cause)
}

// cleanupDead removes dead agents from the ECS world.
func (w *World) cleanupDead() {
	// First pass: collect dead entities (must complete before modifying)
	var toRemove []ecs.Entity
	query := w.agentFilter.Query()
	for query.Next() {
		_, vitals, _ := query.Get()
		if !vitals.Alive {
			toRemove = append(toRemove, query.Entity())
		}
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		w.world.RemoveEntity(e)
	}
}
