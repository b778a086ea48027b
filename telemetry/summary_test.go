package telemetry

import (
	"math"
	"testing"
)

func TestSummarizeLaggedCorrelation(t *testing.T) {
	prey := []int{1, 2, 3, 4, 5, 4, 3, 2, 1}
	pred := []int{1, 1, 1, 2, 3, 4, 5, 4, 3}

	s := Summarize(prey, pred, 4)

	if s.Ticks != 9 {
		t.Errorf("ticks = %d, want 9", s.Ticks)
	}
	if s.FinalPrey != 1 || s.FinalPredators != 3 {
		t.Errorf("final = %d/%d, want 1/3", s.FinalPrey, s.FinalPredators)
	}
	if s.PeakPrey != 5 || s.PeakPredators != 5 {
		t.Errorf("peak = %d/%d, want 5/5", s.PeakPrey, s.PeakPredators)
	}
	if math.Abs(s.MeanPrey-25.0/9) > 1e-9 {
		t.Errorf("mean prey = %v, want %v", s.MeanPrey, 25.0/9)
	}
	if s.PredatorLag != 2 {
		t.Errorf("predator lag = %d, want 2", s.PredatorLag)
	}
	if math.Abs(s.LagCorrelation-1) > 1e-9 {
		t.Errorf("lag correlation = %v, want 1", s.LagCorrelation)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		prey    []int
		pred    []int
		ticks   int
		wantNaN bool
	}{
		{"empty", nil, nil, 0, true},
		{"single tick", []int{5}, []int{2}, 1, true},
		{"constant prey", []int{5, 5, 5, 5}, []int{1, 2, 3, 4}, 4, true},
		{"mismatched lengths", []int{1, 2, 3}, []int{3, 2}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.prey, tt.pred, 3)
			if s.Ticks != tt.ticks {
				t.Errorf("ticks = %d, want %d", s.Ticks, tt.ticks)
			}
			if got := math.IsNaN(s.LagCorrelation); got != tt.wantNaN {
				t.Errorf("NaN correlation = %v, want %v", got, tt.wantNaN)
			}
			if math.IsNaN(s.StdPrey) || math.IsNaN(s.StdPredators) {
				t.Errorf("std-dev should never be NaN, got %v/%v", s.StdPrey, s.StdPredators)
			}
		})
	}
}
