// Package telemetry collects population statistics and writes run output.
package telemetry

import "github.com/pthm-cable/ecosim/components"

// DeathCause identifies why an agent was removed.
type DeathCause uint8

const (
	CauseStarvation  DeathCause = iota // energy reached zero
	CauseOldAge                        // age exceeded max_age
	CauseOvercrowding                  // prey overcrowding cull
	CausePredation                     // prey taken by a predator
	CauseHuntDeath                     // predator died while hunting
)

// String returns the cause name used in logs and CSV headers.
func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseOldAge:
		return "old_age"
	case CauseOvercrowding:
		return "overcrowding"
	case CausePredation:
		return "predation"
	case CauseHuntDeath:
		return "hunt_death"
	default:
		return "unknown"
	}
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	preyBirths     int
	predBirths     int
	preyDeaths     int
	predDeaths     int
	starvation     int
	oldAge         int
	overcrowding   int
	predation      int
	huntDeaths     int
	huntsAttempted int
	kills          int
}

// NewCollector creates a new stats collector that flushes every
// windowTicks ticks. Windows shorter than one tick act as one.
func NewCollector(windowTicks int) *Collector {
	return &Collector{
		windowDurationTicks: max(1, windowTicks),
	}
}

// RecordHuntAttempt records a predator engaging prey in its cell.
func (c *Collector) RecordHuntAttempt() {
	c.huntsAttempted++
}

// RecordKill records a successful hunt.
func (c *Collector) RecordKill() {
	c.kills++
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	if kind == components.KindPrey {
		c.preyBirths++
	} else {
		c.predBirths++
	}
}

// RecordDeath records a death event and its cause.
func (c *Collector) RecordDeath(kind components.Kind, cause DeathCause) {
	if kind == components.KindPrey {
		c.preyDeaths++
	} else {
		c.predDeaths++
	}

	switch cause {
	case CauseStarvation:
		c.starvation++
	case CauseOldAge:
		c.oldAge++
	case CauseOvercrowding:
		c.overcrowding++
	case CausePredation:
		c.predation++
	case CauseHuntDeath:
		c.huntDeaths++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides current population counts, energy values for
// percentile calculation, and the total resource on the grid.
func (c *Collector) Flush(
	currentTick int,
	preyCount, predCount int,
	preyEnergies, predEnergies []float64,
	totalResource float64,
) WindowStats {
	var killRate float64
	if c.huntsAttempted > 0 {
		killRate = float64(c.kills) / float64(c.huntsAttempted)
	}

	preyMean, preyP10, preyP50, preyP90 := ComputeEnergyStats(preyEnergies)
	predMean, predP10, predP50, predP90 := ComputeEnergyStats(predEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		PreyCount: preyCount,
		PredCount: predCount,

		PreyBirths: c.preyBirths,
		PredBirths: c.predBirths,
		PreyDeaths: c.preyDeaths,
		PredDeaths: c.predDeaths,

		Starvation:   c.starvation,
		OldAge:       c.oldAge,
		Overcrowding: c.overcrowding,
		Predation:    c.predation,
		HuntDeaths:   c.huntDeaths,

		HuntsAttempted: c.huntsAttempted,
		Kills:          c.kills,
		KillRate:       killRate,

		PreyEnergyMean: preyMean,
		PreyEnergyP10:  preyP10,
		PreyEnergyP50:  preyP50,
		PreyEnergyP90:  preyP90,

		PredEnergyMean: predMean,
		PredEnergyP10:  predP10,
		PredEnergyP50:  predP50,
		PredEnergyP90:  predP90,

		TotalResource: totalResource,
	}

	// Reset for next window
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		windowStartTick:     currentTick,
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
