package game

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Agent is a read-only view of one live agent.
type Agent struct {
	ID       uint32
	Kind     components.Kind
	Position components.Position
	Energy   float64
	Age      int
}

// Snapshot is a copy of the observable world state at a tick boundary.
type Snapshot struct {
	Tick            int
	Width, Height   int
	Terrain         []systems.TerrainClass // row-major
	Resources       []float64              // row-major
	MaxResources    []float64              // row-major
	Prey            []components.Position
	Predators       []components.Position
	PreyHistory     []int
	PredatorHistory []int
}

// Terrain returns the immutable terrain grid.
func (w *World) Terrain() *systems.Terrain { return w.terrain }

// Resources returns a copy of the current resource grid, row-major.
func (w *World) Resources() []float64 { return w.resources.Snapshot() }

// MaxResources returns a copy of the per-cell capacity grid, row-major.
func (w *World) MaxResources() []float64 { return w.resources.Capacity() }

// TotalResource returns the resource summed over all cells.
func (w *World) TotalResource() float64 { return w.resources.Total() }

// PreyPositions returns the cells of all live prey.
func (w *World) PreyPositions() []components.Position {
	return w.positions(components.KindPrey)
}

// PredatorPositions returns the cells of all live predators.
func (w *World) PredatorPositions() []components.Position {
	return w.positions(components.KindPredator)
}

// PreyHistory returns a copy of the live prey count after each tick.
func (w *World) PreyHistory() []int { return slices.Clone(w.preyHistory) }

// PredatorHistory returns a copy of the live predator count after each tick.
func (w *World) PredatorHistory() []int { return slices.Clone(w.predHistory) }

func (w *World) positions(kind components.Kind) []components.Position {
	var out []components.Position
	query := w.agentFilter.Query()
	for query.Next() {
		pos, vitals, org := query.Get()
		if vitals.Alive && org.Kind == kind {
			out = append(out, *pos)
		}
	}
	return out
}

// Agents returns views of all live agents of kind, ordered by ID.
func (w *World) Agents(kind components.Kind) []Agent {
	var out []Agent
	query := w.agentFilter.Query()
	for query.Next() {
		pos, vitals, org := query.Get()
		if !vitals.Alive || org.Kind != kind {
			continue
		}
		out = append(out, Agent{
			ID:       org.ID,
			Kind:     org.Kind,
			Position: *pos,
			Energy:   vitals.Energy,
			Age:      vitals.Age,
		})
	}
	slices.SortFunc(out, func(a, b Agent) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Snapshot copies the full observable state.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Tick:            w.tick,
		Width:           w.terrain.Width(),
		Height:          w.terrain.Height(),
		Terrain:         w.terrain.Cells(),
		Resources:       w.Resources(),
		MaxResources:    w.MaxResources(),
		Prey:            w.PreyPositions(),
		Predators:       w.PredatorPositions(),
		PreyHistory:     w.PreyHistory(),
		PredatorHistory: w.PredatorHistory(),
	}
}

// CellRecords returns one row per cell for the terrain/resource map.
func (w *World) CellRecords() []telemetry.CellRecord {
	width := w.terrain.Width()
	records := make([]telemetry.CellRecord, 0, len(w.resources.Res))
	for i, res := range w.resources.Res {
		x, y := i%width, i/width
		records = append(records, telemetry.CellRecord{
			X:        x,
			Y:        y,
			Terrain:  w.terrain.At(x, y).String(),
			Capacity: w.resources.Max[i],
			Resource: res,
		})
	}
	return records
}

// CheckInvariants verifies the tick-boundary invariants and reports every
// violation found. Intended for tests and debugging.
func (w *World) CheckInvariants() error {
	var errs []error

	for i, r := range w.resources.Res {
		if !(r >= 0 && r <= w.resources.Max[i]) {
			errs = append(errs, fmt.Errorf("cell %d: resource %g outside [0, %g]", i, r, w.resources.Max[i]))
		}
	}

	var prey, preds int
	query := w.agentFilter.Query()
	for query.Next() {
		pos, vitals, org := query.Get()
		if !vitals.Alive {
			errs = append(errs, fmt.Errorf("agent %d: dead agent not removed", org.ID))
			continue
		}
		if !w.terrain.Passable(*pos) {
			errs = append(errs, fmt.Errorf("agent %d: on impassable cell %+v", org.ID, *pos))
		}
		if vitals.Age > vitals.MaxAge {
			errs = append(errs, fmt.Errorf("agent %d: alive at age %d > max %d", org.ID, vitals.Age, vitals.MaxAge))
		}
		if org.Kind == components.KindPrey {
			prey++
		} else {
			preds++
		}
	}

	if prey != w.numPrey || preds != w.numPred {
		errs = append(errs, fmt.Errorf("counts %d/%d do not match agents %d/%d", w.numPrey, w.numPred, prey, preds))
	}
	if len(w.preyHistory) != w.tick || len(w.predHistory) != w.tick {
		errs = append(errs, fmt.Errorf("history length %d/%d after %d ticks", len(w.preyHistory), len(w.predHistory), w.tick))
	}

	return errors.Join(errs...)
}
