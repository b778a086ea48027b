package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastErr     error   // first world error from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastErr returns the first error from the most recent evaluation, if any.
func (fe *FitnessEvaluator) LastErr() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastErr
}

// Ticks of grace before coexistence is checked, so the initial population
// can settle.
const warmupTicks = 20

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int                     // ticks both species coexisted (or maxTicks)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	err           error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	err     error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative coexistence ticks: longer coexistence = lower fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// One world per goroutine; worlds share nothing but the base config,
	// which is cloned before use.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
				err:     result.err,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	var firstErr error
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if firstErr == nil {
			firstErr = r.err
		}
	}

	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastErr = firstErr
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run.
// Runs until either species dies out or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Simulation.MaxSteps = fe.maxTicks
	cfg.Simulation.Seed = seed

	result := &runResult{}

	w, err := game.NewWorld(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = fmt.Errorf("seed %d: %w", seed, err)
		return result
	}

	for w.Tick() < fe.maxTicks {
		if err := w.Step(); err != nil {
			result.err = fmt.Errorf("seed %d: %w", seed, err)
			break
		}
		if w.Tick() < warmupTicks {
			continue
		}
		if w.PreyCount() == 0 || w.PredatorCount() == 0 {
			break
		}
	}

	result.survivalTicks = w.Tick()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func computeFitness(survivalTicks int, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.25

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either species < this
	qualityTargetRatio   = 5.0
	qualityTargetKill    = 0.7
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, huntSum float64
	var ratioCount, huntCount int

	preyCounts := make([]float64, 0, len(valid))
	predCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.PreyCount < qualityMinPop || w.PredCount < qualityMinPop {
			continue
		}

		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		// 1. Population ratio score
		ratio := float64(w.PreyCount) / float64(w.PredCount)
		logErr := math.Log(ratio / qualityTargetRatio)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		// 3. Hunting score (only windows with hunts)
		if w.HuntsAttempted > 0 {
			huntSum += math.Exp(-math.Pow((w.KillRate-qualityTargetKill)/0.25, 2))
			huntCount++
		}
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)

	// 2. Population stability (CV across all valid windows)
	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := cv(preyCounts)
		cvPred := cv(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore

	return min(max(quality, 0), 1)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
