package systems

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestGenerateTerrainDeterministic(t *testing.T) {
	a := GenerateTerrain(40, 30, 3, nil, rand.New(rand.NewSource(7)))
	b := GenerateTerrain(40, 30, 3, nil, rand.New(rand.NewSource(7)))

	if a.Cuts() != b.Cuts() {
		t.Fatalf("cuts differ for equal seeds: %+v vs %+v", a.Cuts(), b.Cuts())
	}
	ac, bc := a.Cells(), b.Cells()
	for i := range ac {
		if ac[i] != bc[i] {
			t.Fatalf("cell %d differs for equal seeds: %v vs %v", i, ac[i], bc[i])
		}
	}
}

func TestGenerateTerrainFixedCuts(t *testing.T) {
	cuts := Cuts{Water: 0, Grass: 2, Forest: 2}
	terrain := GenerateTerrain(10, 10, 3, &cuts, rand.New(rand.NewSource(1)))

	counts := terrain.ClassCounts()
	if counts[TerrainGrass] != 100 {
		t.Errorf("expected 100 grass cells, got counts %v", counts)
	}
	if terrain.PassableCount() != 100 {
		t.Errorf("expected 100 passable cells, got %d", terrain.PassableCount())
	}
}

func TestRandomCutsRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		c := RandomCuts(rng)
		if c.Water < 0.10 || c.Water >= 0.25 {
			t.Fatalf("water cut %v out of [0.10, 0.25)", c.Water)
		}
		if d := c.Grass - c.Water; d < 0.25-1e-12 || d >= 0.40 {
			t.Fatalf("grass offset %v out of [0.25, 0.40)", d)
		}
		if c.Forest > 0.95 || c.Forest < c.Grass {
			t.Fatalf("forest cut %v invalid (grass %v)", c.Forest, c.Grass)
		}
	}
}

func TestCutsClassify(t *testing.T) {
	c := Cuts{Water: 0.2, Grass: 0.5, Forest: 0.8}
	tests := []struct {
		v    float64
		want TerrainClass
	}{
		{0.0, TerrainWater},
		{0.19, TerrainWater},
		{0.2, TerrainGrass},
		{0.49, TerrainGrass},
		{0.5, TerrainForest},
		{0.8, TerrainMountain},
		{0.99, TerrainMountain},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.v); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSmoothKernel(t *testing.T) {
	src := make([]float64, 9)
	src[4] = 16

	got := Smooth(src, 3, 3)
	want := []float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("cell %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if src[4] != 16 {
		t.Error("Smooth modified its input")
	}
}

func TestSmoothPreservesConstantField(t *testing.T) {
	src := make([]float64, 20)
	for i := range src {
		src[i] = 0.42
	}
	for i, v := range Smooth(src, 5, 4) {
		if math.Abs(v-0.42) > 1e-12 {
			t.Errorf("cell %d: expected 0.42 with edge padding, got %v", i, v)
		}
	}
}

func TestTerrainParams(t *testing.T) {
	tests := []struct {
		class    TerrainClass
		passable bool
		resource float64
		regrowth float64
		moveCost float64
	}{
		{TerrainWater, false, 0, 0, 100},
		{TerrainGrass, true, 1.0, 1.0, 1.0},
		{TerrainForest, true, 2.2, 0.8, 1.8},
		{TerrainMountain, false, 0, 0, 100},
	}

	for _, tt := range tests {
		p := tt.class.Params()
		if p.Passable != tt.passable || p.ResourceScale != tt.resource ||
			p.RegrowthScale != tt.regrowth || p.MoveCostScale != tt.moveCost {
			t.Errorf("%v: unexpected params %+v", tt.class, p)
		}
	}
}

func TestRandomPassableCell(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	water := UniformTerrain(4, 4, TerrainWater)
	if _, ok := water.RandomPassableCell(rng); ok {
		t.Error("expected no passable cell on an all-water grid")
	}

	cells := make([]TerrainClass, 16)
	cells[9] = TerrainForest
	single := NewTerrain(4, 4, cells)
	pos, ok := single.RandomPassableCell(rng)
	if !ok {
		t.Fatal("expected a passable cell")
	}
	if pos != (components.Position{X: 1, Y: 2}) {
		t.Errorf("expected the only forest cell (1,2), got %+v", pos)
	}
}

func TestTerrainCellsIsCopy(t *testing.T) {
	terrain := UniformTerrain(2, 2, TerrainGrass)
	cells := terrain.Cells()
	cells[0] = TerrainWater
	if terrain.At(0, 0) != TerrainGrass {
		t.Error("mutating Cells() changed the terrain")
	}
}

func TestTerrainASCII(t *testing.T) {
	terrain := NewTerrain(3, 2, []TerrainClass{
		TerrainWater, TerrainGrass, TerrainForest,
		TerrainMountain, TerrainGrass, TerrainGrass,
	})
	want := "~.^\nM..\n"
	if got := terrain.ASCII(); got != want {
		t.Errorf("ASCII() = %q, want %q", got, want)
	}
	if !strings.HasSuffix(terrain.ASCII(), "\n") {
		t.Error("expected trailing newline")
	}
}

func TestSimplexNoiseRangeAndDeterminism(t *testing.T) {
	opts := SimplexOptions{Octaves: 3, Frequency: 0.1, Persistence: 0.5}
	a := SimplexNoise(16, 12, opts, rand.New(rand.NewSource(3)))
	b := SimplexNoise(16, 12, opts, rand.New(rand.NewSource(3)))

	if len(a) != 16*12 {
		t.Fatalf("len = %d, want %d", len(a), 16*12)
	}
	for i, v := range a {
		if v < 0 || v > 1 {
			t.Errorf("cell %d: %g outside [0,1]", i, v)
		}
		if v != b[i] {
			t.Fatalf("cell %d differs for equal seeds: %g vs %g", i, v, b[i])
		}
	}
}

func TestGenerateSimplexTerrainFixedCuts(t *testing.T) {
	opts := SimplexOptions{Octaves: 2, Frequency: 0.05, Persistence: 0.5}
	cuts := Cuts{Water: 0, Grass: 2, Forest: 2}
	terrain := GenerateSimplexTerrain(8, 8, 1, opts, &cuts, rand.New(rand.NewSource(1)))

	if terrain.PassableCount() != 64 {
		t.Errorf("expected 64 passable cells, got %d", terrain.PassableCount())
	}
	if terrain.Cuts() != cuts {
		t.Errorf("Cuts() = %+v, want %+v", terrain.Cuts(), cuts)
	}
}
