package game

import (
	"fmt"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/telemetry"
)

// flushTelemetry flushes the stats window when it is due and forwards the
// result to the callback, the log and a WindowSink.
func (w *World) flushTelemetry() error {
	if !w.collector.ShouldFlush(w.tick) {
		return nil
	}

	preyEnergies, predEnergies := w.sampleEnergyDistributions()
	stats := w.collector.Flush(w.tick, w.numPrey, w.numPred, preyEnergies, predEnergies, w.resources.Total())

	if w.statsCallback != nil {
		w.statsCallback(stats)
	}

	var perfStats telemetry.PerfStats
	if w.perfCollector != nil {
		perfStats = w.perfCollector.Stats()
	}

	// Log stats if enabled (console output)
	if w.logStats {
		stats.LogStats()
		if w.perfCollector != nil {
			perfStats.LogStats()
		}
	}

	ws, ok := w.sink.(WindowSink)
	if !ok {
		return nil
	}
	if err := ws.WriteTelemetry(stats); err != nil {
		return fmt.Errorf("writing telemetry window %d: %w", stats.WindowEndTick, err)
	}
	if w.perfCollector != nil {
		if err := ws.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			return fmt.Errorf("writing perf window %d: %w", stats.WindowEndTick, err)
		}
	}
	return nil
}

// sampleEnergyDistributions collects live energy values for percentile calculation.
func (w *World) sampleEnergyDistributions() (preyEnergies, predEnergies []float64) {
	query := w.agentFilter.Query()
	for query.Next() {
		_, vitals, org := query.Get()
		if !vitals.Alive {
			continue
		}
		if org.Kind == components.KindPrey {
			preyEnergies = append(preyEnergies, vitals.Energy)
		} else {
			predEnergies = append(predEnergies, vitals.Energy)
		}
	}
	return preyEnergies, predEnergies
}

func (w *World) startTick() {
	if w.perfCollector != nil {
		w.perfCollector.StartTick()
	}
}

func (w *World) startPhase(phase string) {
	if w.perfCollector != nil {
		w.perfCollector.StartPhase(phase)
	}
}

func (w *World) endTick() {
	if w.perfCollector != nil {
		w.perfCollector.EndTick()
	}
}

// PerfStats returns the rolling per-phase timings.
// ok is false unless the world was created with TrackPerf.
func (w *World) PerfStats() (stats telemetry.PerfStats, ok bool) {
	if w.perfCollector == nil {
		return telemetry.PerfStats{}, false
	}
	return w.perfCollector.Stats(), true
}
