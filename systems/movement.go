package systems

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/ecosim/components"
)

// GreedyTolerance is the fraction of the best neighbouring resource level a
// cell must reach to be a greedy prey candidate.
const GreedyTolerance = 0.9

// ShouldRoam reports whether an agent moves to a uniformly random neighbour
// this tick. The per-agent draw is skipped when the population is roaming.
func ShouldRoam(roaming bool, randomMoveChance float64, rng RNG) bool {
	return roaming || rng.Float64() < randomMoveChance
}

// Mover picks destinations among neighbour cells.
// Scratch buffers are reused between calls, so a Mover is single-goroutine.
type Mover struct {
	levels     []float64
	candidates []components.Position
}

// Random returns a uniformly chosen cell from nb.
// ok is false when nb is empty.
func (m *Mover) Random(nb []components.Position, rng RNG) (components.Position, bool) {
	if len(nb) == 0 {
		return components.Position{}, false
	}
	return nb[rng.Intn(len(nb))], true
}

// GreedyPrey picks uniformly among neighbours whose resource is at least
// GreedyTolerance of the best neighbouring level.
func (m *Mover) GreedyPrey(nb []components.Position, rf *ResourceField, rng RNG) (components.Position, bool) {
	if len(nb) == 0 {
		return components.Position{}, false
	}

	m.levels = m.levels[:0]
	for _, p := range nb {
		m.levels = append(m.levels, rf.At(p))
	}
	cut := floats.Max(m.levels) * GreedyTolerance

	m.candidates = m.candidates[:0]
	for i, p := range nb {
		if m.levels[i] >= cut {
			m.candidates = append(m.candidates, p)
		}
	}
	return m.Random(m.candidates, rng)
}

// GreedyPredator picks uniformly among neighbours holding live prey, falling
// back to any neighbour when none do.
func (m *Mover) GreedyPredator(nb []components.Position, hasPrey func(components.Position) bool, rng RNG) (components.Position, bool) {
	m.candidates = m.candidates[:0]
	for _, p := range nb {
		if hasPrey(p) {
			m.candidates = append(m.candidates, p)
		}
	}
	if len(m.candidates) > 0 {
		return m.Random(m.candidates, rng)
	}
	return m.Random(nb, rng)
}
