// Package systems implements the grid environment: terrain, resources and movement rules.
package systems

import (
	"fmt"

	"github.com/pthm-cable/ecosim/components"
)

// TerrainClass represents the type of terrain in a cell.
type TerrainClass uint8

const (
	TerrainWater TerrainClass = iota
	TerrainGrass
	TerrainForest
	TerrainMountain

	numTerrainClasses
)

// TerrainParams holds the static multipliers of a terrain class.
type TerrainParams struct {
	Name          string
	Passable      bool
	ResourceScale float64
	RegrowthScale float64
	MoveCostScale float64 // effectively infinite on impassable cells
}

var terrainParams = [numTerrainClasses]TerrainParams{
	TerrainWater:    {Name: "water", Passable: false, ResourceScale: 0.0, RegrowthScale: 0.0, MoveCostScale: 100.0},
	TerrainGrass:    {Name: "grass", Passable: true, ResourceScale: 1.0, RegrowthScale: 1.0, MoveCostScale: 1.0},
	TerrainForest:   {Name: "forest", Passable: true, ResourceScale: 2.2, RegrowthScale: 0.8, MoveCostScale: 1.8},
	TerrainMountain: {Name: "mountain", Passable: false, ResourceScale: 0.0, RegrowthScale: 0.0, MoveCostScale: 100.0},
}

// Params returns the static multipliers for the class.
func (c TerrainClass) Params() TerrainParams {
	return terrainParams[c]
}

// Passable reports whether agents may stand on the class.
func (c TerrainClass) Passable() bool {
	return terrainParams[c].Passable
}

// String returns the class name.
func (c TerrainClass) String() string {
	if c >= numTerrainClasses {
		return fmt.Sprintf("terrain(%d)", uint8(c))
	}
	return terrainParams[c].Name
}

// Glyph returns a single character for ASCII previews.
func (c TerrainClass) Glyph() byte {
	switch c {
	case TerrainWater:
		return '~'
	case TerrainGrass:
		return '.'
	case TerrainForest:
		return '^'
	default:
		return 'M'
	}
}

// TerrainClasses lists every class in index order.
func TerrainClasses() []TerrainClass {
	return []TerrainClass{TerrainWater, TerrainGrass, TerrainForest, TerrainMountain}
}

// Cuts are the classification thresholds on smoothed noise.
type Cuts struct {
	Water, Grass, Forest float64
}

// RandomCuts draws the water/grass/forest thresholds.
// Water lands in [0.10, 0.25), grass 0.25-0.40 above it, forest 0.15-0.30
// above grass and never above 0.95.
func RandomCuts(rng RNG) Cuts {
	water := 0.10 + rng.Float64()*0.15
	grass := water + 0.25 + rng.Float64()*0.15
	forest := grass + 0.15 + rng.Float64()*0.15
	return Cuts{Water: water, Grass: grass, Forest: min(forest, 0.95)}
}

// Classify maps a smoothed noise value to a terrain class.
func (c Cuts) Classify(v float64) TerrainClass {
	switch {
	case v < c.Water:
		return TerrainWater
	case v < c.Grass:
		return TerrainGrass
	case v < c.Forest:
		return TerrainForest
	default:
		return TerrainMountain
	}
}

// Terrain is an immutable classification grid, row-major.
type Terrain struct {
	width, height int
	cells         []TerrainClass
	cuts          Cuts
	passable      int
}

// GenerateTerrain builds a terrain grid from smoothed uniform noise.
// When cuts is nil the thresholds are drawn from rng after the noise.
func GenerateTerrain(width, height, smoothingPasses int, cuts *Cuts, rng RNG) *Terrain {
	return ClassifyNoise(UniformNoise(width, height, rng), width, height, smoothingPasses, cuts, rng)
}

// GenerateSimplexTerrain builds a terrain grid from fractal simplex noise,
// smoothed and classified like GenerateTerrain.
func GenerateSimplexTerrain(width, height, smoothingPasses int, opts SimplexOptions, cuts *Cuts, rng RNG) *Terrain {
	return ClassifyNoise(SimplexNoise(width, height, opts, rng), width, height, smoothingPasses, cuts, rng)
}

// ClassifyNoise smooths a row-major noise grid and maps it to terrain
// classes. When cuts is nil the thresholds are drawn from rng.
func ClassifyNoise(noise []float64, width, height, smoothingPasses int, cuts *Cuts, rng RNG) *Terrain {
	for i := 0; i < smoothingPasses; i++ {
		noise = Smooth(noise, width, height)
	}

	c := Cuts{}
	if cuts != nil {
		c = *cuts
	} else {
		c = RandomCuts(rng)
	}

	cells := make([]TerrainClass, len(noise))
	for i, v := range noise {
		cells[i] = c.Classify(v)
	}

	t := NewTerrain(width, height, cells)
	t.cuts = c
	return t
}

// NewTerrain wraps an explicit classification grid.
// The slice is copied; len(cells) must equal width*height.
func NewTerrain(width, height int, cells []TerrainClass) *Terrain {
	if len(cells) != width*height {
		panic(fmt.Sprintf("systems: terrain grid has %d cells, want %d", len(cells), width*height))
	}
	t := &Terrain{
		width:  width,
		height: height,
		cells:  append([]TerrainClass(nil), cells...),
	}
	for _, c := range t.cells {
		if c.Passable() {
			t.passable++
		}
	}
	return t
}

// UniformTerrain returns a grid filled with one class.
func UniformTerrain(width, height int, class TerrainClass) *Terrain {
	cells := make([]TerrainClass, width*height)
	for i := range cells {
		cells[i] = class
	}
	return NewTerrain(width, height, cells)
}

// Width returns the grid width.
func (t *Terrain) Width() int { return t.width }

// Height returns the grid height.
func (t *Terrain) Height() int { return t.height }

// Cuts returns the thresholds used to classify the grid.
func (t *Terrain) Cuts() Cuts { return t.cuts }

// At returns the class of cell (x, y). Coordinates must be in bounds.
func (t *Terrain) At(x, y int) TerrainClass {
	return t.cells[y*t.width+x]
}

// InBounds reports whether (x, y) lies on the grid.
func (t *Terrain) InBounds(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

// Passable reports whether pos is on the grid and standable.
func (t *Terrain) Passable(pos components.Position) bool {
	return t.InBounds(pos.X, pos.Y) && t.At(pos.X, pos.Y).Passable()
}

// MoveCostScale returns the movement cost multiplier of pos.
func (t *Terrain) MoveCostScale(pos components.Position) float64 {
	return t.At(pos.X, pos.Y).Params().MoveCostScale
}

// PassableCount returns the number of standable cells.
func (t *Terrain) PassableCount() int { return t.passable }

// Cells returns a copy of the classification grid, row-major.
func (t *Terrain) Cells() []TerrainClass {
	return append([]TerrainClass(nil), t.cells...)
}

// ClassCounts returns how many cells each class occupies, indexed by class.
func (t *Terrain) ClassCounts() []int {
	counts := make([]int, numTerrainClasses)
	for _, c := range t.cells {
		counts[c]++
	}
	return counts
}

// RandomPassableCell draws uniform cells until a passable one is found.
// Returns false if the grid has no passable cell.
func (t *Terrain) RandomPassableCell(rng RNG) (components.Position, bool) {
	if t.passable == 0 {
		return components.Position{}, false
	}
	for {
		x := rng.Intn(t.width)
		y := rng.Intn(t.height)
		if t.At(x, y).Passable() {
			return components.Position{X: x, Y: y}, true
		}
	}
}

// ASCII renders the grid one row per line using class glyphs.
func (t *Terrain) ASCII() string {
	buf := make([]byte, 0, (t.width+1)*t.height)
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			buf = append(buf, t.At(x, y).Glyph())
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
