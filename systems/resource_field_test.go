package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestResourceFieldCreation(t *testing.T) {
	terrain := NewTerrain(2, 2, []TerrainClass{
		TerrainWater, TerrainGrass,
		TerrainForest, TerrainMountain,
	})
	rf := NewResourceField(terrain, 8.0, 0.1, rand.New(rand.NewSource(42)))

	w, h := rf.GridSize()
	if w != 2 || h != 2 {
		t.Fatalf("expected grid size 2x2, got %dx%d", w, h)
	}

	wantMax := []float64{0, 8.0, 8.0 * 2.2, 0}
	wantRate := []float64{0, 0.1, 0.1 * 0.8, 0}
	for i := range wantMax {
		if math.Abs(rf.Max[i]-wantMax[i]) > 1e-12 {
			t.Errorf("cell %d: max %v, want %v", i, rf.Max[i], wantMax[i])
		}
		if math.Abs(rf.Rate[i]-wantRate[i]) > 1e-12 {
			t.Errorf("cell %d: rate %v, want %v", i, rf.Rate[i], wantRate[i])
		}
		if rf.Res[i] < 0 || rf.Res[i] > rf.Max[i] {
			t.Errorf("cell %d: initial resource %v outside [0, %v]", i, rf.Res[i], rf.Max[i])
		}
	}
}

func TestResourceFieldRegrow(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		start float64
		want  float64
	}{
		{"closes gap fraction", 0.5, 2.0, 6.0},
		{"full at rate one", 1.0, 0.0, 10.0},
		{"clamped above rate one", 1.5, 0.0, 10.0},
		{"no regrowth", 0.0, 3.0, 3.0},
		{"already full", 0.3, 10.0, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf := NewResourceField(UniformTerrain(1, 1, TerrainGrass), 10.0, tt.rate, rand.New(rand.NewSource(1)))
			rf.Res[0] = tt.start
			rf.Regrow()
			if math.Abs(rf.Res[0]-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", rf.Res[0], tt.want)
			}
		})
	}
}

func TestResourceFieldStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	terrain := GenerateTerrain(20, 20, 3, nil, rng)
	rf := NewResourceField(terrain, 8.0, 0.9, rng)

	for tick := 0; tick < 50; tick++ {
		rf.Regrow()
		for i := 0; i < 40; i++ {
			pos := components.Position{X: rng.Intn(20), Y: rng.Intn(20)}
			rf.Consume(pos, rng.Float64()*5)
		}
		for i, r := range rf.Res {
			if r < 0 || r > rf.Max[i] {
				t.Fatalf("tick %d cell %d: resource %v outside [0, %v]", tick, i, r, rf.Max[i])
			}
		}
	}
}

func TestResourceFieldConsume(t *testing.T) {
	rf := NewResourceField(UniformTerrain(2, 1, TerrainGrass), 8.0, 0.1, rand.New(rand.NewSource(1)))
	rf.Res[0] = 2.0
	rf.Res[1] = 5.0

	if got := rf.Consume(components.Position{X: 0, Y: 0}, 3.2); got != 2.0 {
		t.Errorf("expected eaten clamped to 2.0, got %v", got)
	}
	if rf.Res[0] != 0 {
		t.Errorf("expected depleted cell, got %v", rf.Res[0])
	}
	if got := rf.Consume(components.Position{X: 1, Y: 0}, 3.2); got != 3.2 {
		t.Errorf("expected full bite 3.2, got %v", got)
	}
	if got := rf.Consume(components.Position{X: 0, Y: 0}, 1.0); got != 0 {
		t.Errorf("expected nothing from empty cell, got %v", got)
	}
	if math.Abs(rf.Total()-1.8) > 1e-9 {
		t.Errorf("expected total 1.8, got %v", rf.Total())
	}
}

func TestResourceFieldSnapshotIsCopy(t *testing.T) {
	rf := NewResourceField(UniformTerrain(2, 2, TerrainGrass), 8.0, 0.1, rand.New(rand.NewSource(1)))
	snap := rf.Snapshot()
	snap[0] = -1
	if rf.Res[0] < 0 {
		t.Error("mutating Snapshot() changed the field")
	}
}
