package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePrey)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhasePredator)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhasePrey]; !ok {
		t.Error("expected prey phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhasePredator]; !ok {
		t.Error("expected predator phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePrey)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc.now = clock.Now

	// Uneven phase durations on a manual clock
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePrey)
		clock.Advance(10 * time.Microsecond)
		pc.StartPhase(PhasePredator)
		clock.Advance(90 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration != 100*time.Microsecond {
		t.Errorf("AvgTickDuration = %v, want 100µs", stats.AvgTickDuration)
	}
	if got := stats.PhaseAvg[PhasePredator]; got != 90*time.Microsecond {
		t.Errorf("predator avg = %v, want 90µs", got)
	}

	fastPct := stats.PhasePct[PhasePrey]
	slowPct := stats.PhasePct[PhasePredator]
	if math.Abs(fastPct-10) > 1e-9 || math.Abs(slowPct-90) > 1e-9 {
		t.Errorf("phase pct = %v/%v, want 10/90", fastPct, slowPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		MinTickDuration: 100 * time.Microsecond,
		MaxTickDuration: 900 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseEnvironment: 10,
			PhasePrey:        60,
			PhasePredator:    25,
			PhaseCleanup:     5,
		},
		TicksPerSecond: 4000,
	}

	row := stats.ToCSV(300)

	if row.WindowEnd != 300 {
		t.Errorf("expected window_end 300, got %d", row.WindowEnd)
	}
	if row.AvgTickUS != 250 || row.MinTickUS != 100 || row.MaxTickUS != 900 {
		t.Errorf("unexpected tick timings: %+v", row)
	}
	if row.PreyPct != 60 || row.PredatorPct != 25 || row.EnvironmentPct != 10 || row.CleanupPct != 5 {
		t.Errorf("unexpected phase percentages: %+v", row)
	}
	if row.TelemetryPct != 0 {
		t.Errorf("expected missing telemetry phase to read 0, got %v", row.TelemetryPct)
	}
}
