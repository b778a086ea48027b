package systems

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/ecosim/components"
)

// ResourceField is a per-cell consumable resource grid with logistic-style
// regrowth toward a terrain-dependent capacity. All slices are row-major.
type ResourceField struct {
	W, H int

	// Current resource in [0, Max]
	Res []float64
	// Capacity per cell (base_max * terrain resource scale)
	Max []float64
	// Fraction of the gap to capacity closed per tick
	Rate []float64
}

// NewResourceField derives capacities and rates from terrain and seeds each
// cell with a uniform draw in [0, Max].
func NewResourceField(t *Terrain, baseMax, baseRegrowth float64, rng RNG) *ResourceField {
	n := t.Width() * t.Height()
	rf := &ResourceField{
		W:    t.Width(),
		H:    t.Height(),
		Res:  make([]float64, n),
		Max:  make([]float64, n),
		Rate: make([]float64, n),
	}

	for i, class := range t.cells {
		p := class.Params()
		rf.Max[i] = baseMax * p.ResourceScale
		rf.Rate[i] = baseRegrowth * p.RegrowthScale
	}
	for i := range rf.Res {
		rf.Res[i] = rng.Float64() * rf.Max[i]
	}

	return rf
}

// Regrow advances every cell one tick toward capacity.
// The result is clamped so rates above 1 cannot overshoot.
func (rf *ResourceField) Regrow() {
	for i := range rf.Res {
		r := rf.Res[i] + rf.Rate[i]*(rf.Max[i]-rf.Res[i])
		rf.Res[i] = clampFloat(r, 0, rf.Max[i])
	}
}

// Consume removes up to amount from pos and returns what was taken.
func (rf *ResourceField) Consume(pos components.Position, amount float64) float64 {
	i := pos.Y*rf.W + pos.X
	eaten := min(amount, rf.Res[i])
	if eaten <= 0 {
		return 0
	}
	rf.Res[i] -= eaten
	return eaten
}

// At returns the current resource at pos.
func (rf *ResourceField) At(pos components.Position) float64 {
	return rf.Res[pos.Y*rf.W+pos.X]
}

// Total returns the sum of resource over all cells.
func (rf *ResourceField) Total() float64 {
	return floats.Sum(rf.Res)
}

// Snapshot returns a copy of the current resource grid.
func (rf *ResourceField) Snapshot() []float64 {
	return append([]float64(nil), rf.Res...)
}

// Capacity returns a copy of the capacity grid.
func (rf *ResourceField) Capacity() []float64 {
	return append([]float64(nil), rf.Max...)
}

// GridSize returns the grid dimensions.
func (rf *ResourceField) GridSize() (int, int) {
	return rf.W, rf.H
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
