package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Events during window
	PreyBirths int `csv:"prey_births"`
	PredBirths int `csv:"pred_births"`
	PreyDeaths int `csv:"prey_deaths"`
	PredDeaths int `csv:"pred_deaths"`

	// Deaths by cause
	Starvation   int `csv:"starvation"`
	OldAge       int `csv:"old_age"`
	Overcrowding int `csv:"overcrowding"`
	Predation    int `csv:"predation"`
	HuntDeaths   int `csv:"hunt_deaths"`

	// Hunting
	HuntsAttempted int     `csv:"hunts_attempted"`
	Kills          int     `csv:"kills"`
	KillRate       float64 `csv:"kill_rate"`

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`

	TotalResource float64 `csv:"total_resource"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("starvation", s.Starvation),
		slog.Int("old_age", s.OldAge),
		slog.Int("overcrowding", s.Overcrowding),
		slog.Int("predation", s.Predation),
		slog.Int("hunt_deaths", s.HuntDeaths),
		slog.Int("hunts_attempted", s.HuntsAttempted),
		slog.Int("kills", s.Kills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_p10", s.PreyEnergyP10),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("prey_energy_p90", s.PreyEnergyP90),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_p10", s.PredEnergyP10),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
		slog.Float64("pred_energy_p90", s.PredEnergyP90),
		slog.Float64("total_resource", s.TotalResource),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_deaths", s.PreyDeaths,
		"pred_deaths", s.PredDeaths,
		"starvation", s.Starvation,
		"old_age", s.OldAge,
		"overcrowding", s.Overcrowding,
		"predation", s.Predation,
		"hunt_deaths", s.HuntDeaths,
		"kills", s.Kills,
		"kill_rate", s.KillRate,
		"prey_energy_mean", s.PreyEnergyMean,
		"pred_energy_mean", s.PredEnergyMean,
		"total_resource", s.TotalResource,
	)
}
