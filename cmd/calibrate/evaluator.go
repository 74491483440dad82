package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/telemetry"
)

// missPenalty is returned when a surface is flat and the log error is
// undefined.
const missPenalty = 1e6

// Evaluator synthesizes surfaces at a candidate amplitude and measures
// their significant wave height.
type Evaluator struct {
	base  *config.Config
	seeds []int64
	times []float64

	mu     sync.Mutex
	lastHs float64
}

// NewEvaluator creates an evaluator that averages over every seed and
// sample time.
func NewEvaluator(base *config.Config, seeds []int64, times []float64) *Evaluator {
	return &Evaluator{base: base, seeds: seeds, times: times}
}

// LastHs returns the mean Hs from the most recent evaluation.
func (e *Evaluator) LastHs() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastHs
}

// MeanHs returns the significant wave height averaged over all seeds and
// times, with the Phillips amplitude set to 10^logAmp. Each evaluation uses
// a fresh synthesizer so results do not depend on call order.
func (e *Evaluator) MeanHs(logAmp float64) (float64, error) {
	cfg := *e.base
	cfg.Ocean.Amplitude = math.Pow(10, logAmp)

	synth, err := ocean.NewSynthesizerFromConfig(&cfg)
	if err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for _, seed := range e.seeds {
		for _, t := range e.times {
			p := ocean.ParamsFromConfig(&cfg, t)
			p.Seed = seed
			verts, err := synth.Synthesize(p)
			if err != nil {
				return 0, fmt.Errorf("seed %d t=%g: %w", seed, t, err)
			}
			sum += telemetry.ComputeFieldStats(p, verts).SignificantHeight
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	hs := sum / float64(count)
	e.mu.Lock()
	e.lastHs = hs
	e.mu.Unlock()
	return hs, nil
}

// Objective returns the squared log error between the mean Hs at 10^x[0]
// and target (lower = better).
func (e *Evaluator) Objective(target float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		hs, err := e.MeanHs(x[0])
		if err != nil || hs <= 0 {
			return missPenalty
		}
		d := math.Log(hs / target)
		return d * d
	}
}

// NewMethod returns the optimizer named by name.
func NewMethod(name string) (optimize.Method, error) {
	switch name {
	case "nelder-mead":
		return &optimize.NelderMead{}, nil
	case "cmaes":
		return &optimize.CmaEsChol{InitStepSize: 0.5}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (want nelder-mead or cmaes)", name)
	}
}

// Calibrate searches log10 amplitude space for the amplitude whose mean Hs
// matches target, starting from the amplitude in the base config. onEval,
// when non-nil, sees every evaluation in order.
func Calibrate(e *Evaluator, target float64, method optimize.Method, maxEvals int, onEval func(x, f float64)) (float64, error) {
	if target <= 0 {
		return 0, fmt.Errorf("target Hs must be positive, got %g", target)
	}
	if e.base.Ocean.Amplitude <= 0 {
		return 0, fmt.Errorf("base amplitude must be positive, got %g", e.base.Ocean.Amplitude)
	}

	obj := e.Objective(target)
	bestX, bestF := math.NaN(), math.Inf(1)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			f := obj(x)
			if f < bestF {
				bestX, bestF = x[0], f
			}
			if onEval != nil {
				onEval(x[0], f)
			}
			return f
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	initX := []float64{math.Log10(e.base.Ocean.Amplitude)}
	result, err := optimize.Minimize(problem, initX, settings, method)
	if math.IsNaN(bestX) {
		if err != nil {
			return 0, err
		}
		bestX = result.X[0]
	}
	return math.Pow(10, bestX), nil
}
