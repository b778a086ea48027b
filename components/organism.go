// Package components defines ECS components for the simulation.
package components

// Kind distinguishes the two species.
type Kind uint8

const (
	KindPrey Kind = iota
	KindPredator
)

// String returns the lowercase species name used in logs and CSV.
func (k Kind) String() string {
	if k == KindPredator {
		return "predator"
	}
	return "prey"
}

// Vitals tracks an agent's metabolic state.
// Energy may dip to zero or below only inside the phase that clears Alive.
type Vitals struct {
	Energy float64
	Age    int // ticks lived
	MaxAge int
	Alive  bool
}

// Exhausted reports whether the agent ran out of energy or outlived MaxAge.
func (v *Vitals) Exhausted() bool {
	return v.Energy <= 0 || v.Age > v.MaxAge
}

// Tick ages the agent by one tick and charges cost.
// Returns false when the agent died from it.
func (v *Vitals) Tick(cost float64) bool {
	v.Age++
	v.Energy -= cost
	if v.Exhausted() {
		v.Alive = false
	}
	return v.Alive
}

// Organism bundles identity and species.
type Organism struct {
	ID   uint32
	Kind Kind
}
