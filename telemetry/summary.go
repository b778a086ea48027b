package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a finished run's population history.
type Summary struct {
	Ticks          int
	FinalPrey      int
	FinalPredators int
	PeakPrey       int
	PeakPredators  int
	MeanPrey       float64
	MeanPredators  float64
	StdPrey        float64
	StdPredators   float64

	// Lag in ticks at which predator counts best track prey counts,
	// and the Pearson correlation at that lag. Correlation is NaN when
	// either series is constant over the compared range.
	PredatorLag    int
	LagCorrelation float64
}

// Summarize computes summary statistics over the two history series.
// Lags from 0 to maxLag are tried for the prey/predator correlation.
func Summarize(prey, predators []int, maxLag int) Summary {
	n := min(len(prey), len(predators))
	s := Summary{Ticks: n, LagCorrelation: math.NaN()}
	if n == 0 {
		return s
	}

	x := toFloats(prey[:n])
	y := toFloats(predators[:n])

	s.FinalPrey = prey[n-1]
	s.FinalPredators = predators[n-1]
	s.PeakPrey = int(floats.Max(x))
	s.PeakPredators = int(floats.Max(y))
	s.MeanPrey, s.StdPrey = stat.MeanStdDev(x, nil)
	s.MeanPredators, s.StdPredators = stat.MeanStdDev(y, nil)
	if n == 1 {
		s.StdPrey, s.StdPredators = 0, 0
	}

	for lag := 0; lag <= maxLag && n-lag >= 2; lag++ {
		c := stat.Correlation(x[:n-lag], y[lag:], nil)
		if math.IsNaN(c) {
			continue
		}
		if math.IsNaN(s.LagCorrelation) || c > s.LagCorrelation {
			s.LagCorrelation = c
			s.PredatorLag = lag
		}
	}

	return s
}

func toFloats(v []int) []float64 {
	out := make([]float64, len(v))
	for i, n := range v {
		out[i] = float64(n)
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int("final_prey", s.FinalPrey),
		slog.Int("final_predators", s.FinalPredators),
		slog.Int("peak_prey", s.PeakPrey),
		slog.Int("peak_predators", s.PeakPredators),
		slog.Float64("mean_prey", s.MeanPrey),
		slog.Float64("mean_predators", s.MeanPredators),
		slog.Float64("std_prey", s.StdPrey),
		slog.Float64("std_predators", s.StdPredators),
	}
	// JSON has no NaN
	if !math.IsNaN(s.LagCorrelation) {
		attrs = append(attrs,
			slog.Int("predator_lag", s.PredatorLag),
			slog.Float64("lag_correlation", s.LagCorrelation),
		)
	}
	return slog.GroupValue(attrs...)
}
