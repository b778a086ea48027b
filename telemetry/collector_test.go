package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)

	c.RecordBirth(components.KindPrey)
	c.RecordBirth(components.KindPrey)
	c.RecordBirth(components.KindPredator)
	c.RecordDeath(components.KindPrey, CauseStarvation)
	c.RecordDeath(components.KindPrey, CausePredation)
	c.RecordDeath(components.KindPrey, CauseOvercrowding)
	c.RecordDeath(components.KindPredator, CauseHuntDeath)
	c.RecordDeath(components.KindPredator, CauseOldAge)
	c.RecordHuntAttempt()
	c.RecordHuntAttempt()
	c.RecordHuntAttempt()
	c.RecordHuntAttempt()
	c.RecordKill()

	if c.ShouldFlush(9) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("expected flush at window end")
	}

	stats := c.Flush(10, 40, 6, []float64{1, 2, 3}, []float64{20}, 123.5)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 10 {
		t.Errorf("unexpected window [%d, %d]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.PreyBirths != 2 || stats.PredBirths != 1 {
		t.Errorf("unexpected births prey=%d pred=%d", stats.PreyBirths, stats.PredBirths)
	}
	if stats.PreyDeaths != 3 || stats.PredDeaths != 2 {
		t.Errorf("unexpected deaths prey=%d pred=%d", stats.PreyDeaths, stats.PredDeaths)
	}
	if stats.Starvation != 1 || stats.Predation != 1 || stats.Overcrowding != 1 ||
		stats.HuntDeaths != 1 || stats.OldAge != 1 {
		t.Errorf("unexpected causes %+v", stats)
	}
	if math.Abs(stats.KillRate-0.25) > 1e-9 {
		t.Errorf("kill rate = %v, want 0.25", stats.KillRate)
	}
	if math.Abs(stats.PreyEnergyMean-2) > 1e-9 || stats.PredEnergyP50 != 20 {
		t.Errorf("unexpected energy stats %+v", stats)
	}
	if stats.TotalResource != 123.5 {
		t.Errorf("total resource = %v, want 123.5", stats.TotalResource)
	}

	// Counters reset and the next window starts where this one ended
	next := c.Flush(15, 0, 0, nil, nil, 0)
	if next.WindowStartTick != 10 {
		t.Errorf("expected next window to start at 10, got %d", next.WindowStartTick)
	}
	if next.PreyBirths != 0 || next.Kills != 0 || next.HuntsAttempted != 0 || next.Starvation != 0 {
		t.Errorf("expected reset counters, got %+v", next)
	}
	if c.WindowDurationTicks() != 10 {
		t.Errorf("window duration lost on reset: %d", c.WindowDurationTicks())
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("expected window of 1 tick, got %d", c.WindowDurationTicks())
	}
	if !c.ShouldFlush(1) {
		t.Error("expected flush after one tick")
	}
}

func TestDeathCauseString(t *testing.T) {
	tests := []struct {
		cause DeathCause
		want  string
	}{
		{CauseStarvation, "starvation"},
		{CauseOldAge, "old_age"},
		{CauseOvercrowding, "overcrowding"},
		{CausePredation, "predation"},
		{CauseHuntDeath, "hunt_death"},
		{DeathCause(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.cause.String(); got != tt.want {
			t.Errorf("DeathCause(%d).String() = %q, want %q", tt.cause, got, tt.want)
		}
	}
}
