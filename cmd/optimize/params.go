// Package main provides CMA-ES optimization for ecosystem parameters.
package main

import (
	"github.com/pthm-cable/ecosim/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Prey (initial_energy and max_age locked)
			{Name: "prey_move_cost", Path: "prey.base_move_cost", Min: 0.05, Max: 0.8, Default: 0.27},
			{Name: "prey_eat_amount", Path: "prey.eat_amount", Min: 1.0, Max: 8.0, Default: 3.2},
			{Name: "prey_repro_thresh", Path: "prey.reproduce_threshold", Min: 12.0, Max: 40.0, Default: 22.0},
			{Name: "prey_repro_cost", Path: "prey.reproduce_cost", Min: 3.0, Max: 15.0, Default: 9.0},
			// Predator
			{Name: "pred_move_cost", Path: "predator.base_move_cost", Min: 0.2, Max: 2.0, Default: 0.7},
			{Name: "pred_eat_gain", Path: "predator.eat_gain", Min: 4.0, Max: 30.0, Default: 14.0},
			{Name: "pred_repro_thresh", Path: "predator.reproduce_threshold", Min: 20.0, Max: 70.0, Default: 38.0},
			{Name: "pred_repro_cost", Path: "predator.reproduce_cost", Min: 8.0, Max: 35.0, Default: 20.0},
			{Name: "hunt_death_chance", Path: "predator.hunt_death_chance", Min: 0.0, Max: 0.2, Default: 0.04},
			// Environment
			{Name: "regrowth_rate", Path: "resource.base_regrowth_rate", Min: 0.02, Max: 0.3, Default: 0.09},
			// Population
			{Name: "max_prey_density", Path: "population.max_prey_density", Min: 0.05, Max: 1.0, Default: 0.25},
			{Name: "overcrowd_mortality", Path: "population.prey_overcrowd_mortality", Min: 0.1, Max: 1.0, Default: 0.9},
			{Name: "random_move_chance", Path: "population.random_move_chance", Min: 0.0, Max: 0.6, Default: 0.2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and
// recomputes its derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	next := func() float64 {
		v := clamped[i]
		i++
		return v
	}

	cfg.Prey.BaseMoveCost = next()
	cfg.Prey.EatAmount = next()
	cfg.Prey.ReproduceThreshold = next()
	cfg.Prey.ReproduceCost = next()

	cfg.Predator.BaseMoveCost = next()
	cfg.Predator.EatGain = next()
	cfg.Predator.ReproduceThreshold = next()
	cfg.Predator.ReproduceCost = next()
	cfg.Predator.HuntDeathChance = next()

	cfg.Resource.BaseRegrowthRate = next()

	cfg.Population.MaxPreyDensity = next()
	cfg.Population.PreyOvercrowdMortality = next()
	cfg.Population.RandomMoveChance = next()

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Prey.BaseMoveCost,
		cfg.Prey.EatAmount,
		cfg.Prey.ReproduceThreshold,
		cfg.Prey.ReproduceCost,

		cfg.Predator.BaseMoveCost,
		cfg.Predator.EatGain,
		cfg.Predator.ReproduceThreshold,
		cfg.Predator.ReproduceCost,
		cfg.Predator.HuntDeathChance,

		cfg.Resource.BaseRegrowthRate,

		cfg.Population.MaxPreyDensity,
		cfg.Population.PreyOvercrowdMortality,
		cfg.Population.RandomMoveChance,
	}
}
