// Package main searches for the Phillips amplitude that produces a target
// significant wave height.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/swell/config"
)

// evalRecord is one row of calibrate_log.csv.
type evalRecord struct {
	Eval         int     `csv:"eval"`
	LogAmplitude float64 `csv:"log10_amplitude"`
	Amplitude    float64 `csv:"amplitude"`
	MeanHs       float64 `csv:"mean_hs"`
	Objective    float64 `csv:"objective"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetHs := flag.Float64("target-hs", 2.0, "Target significant wave height in meters")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	samples := flag.Int("samples", 4, "Sample times per seed, spread over one phase period")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	methodName := flag.String("method", "nelder-mead", "Optimizer: nelder-mead or cmaes")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	method, err := NewMethod(*methodName)
	if err != nil {
		log.Fatal(err)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	times := make([]float64, *samples)
	for i := range times {
		times[i] = baseCfg.Physics.PhasePeriod * float64(i) / float64(*samples)
	}

	evaluator := NewEvaluator(baseCfg, evalSeeds, times)

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	startTime := time.Now()
	onEval := func(x, f float64) {
		evalCount++

		rec := []evalRecord{{
			Eval:         evalCount,
			LogAmplitude: x,
			Amplitude:    math.Pow(10, x),
			MeanHs:       evaluator.LastHs(),
			Objective:    f,
		}}
		marshal := gocsv.MarshalWithoutHeaders
		if evalCount == 1 {
			marshal = gocsv.Marshal
		}
		if err := marshal(rec, logFile); err != nil {
			log.Printf("failed to write eval %d: %v", evalCount, err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
		fmt.Printf("Eval %d/%d: amplitude=%.4g hs=%.3f err=%.2e | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, rec[0].Amplitude, rec[0].MeanHs, f,
			formatDuration(elapsed), formatDuration(remaining))
	}

	fmt.Printf("Calibrating amplitude for Hs=%.3f m with %s, max_evals=%d\n", *targetHs, *methodName, *maxEvals)
	fmt.Printf("Grid %dx%d, %d seeds x %d sample times per evaluation\n",
		baseCfg.Derived.M, baseCfg.Derived.N, *seeds, *samples)

	best, err := Calibrate(evaluator, *targetHs, method, *maxEvals, onEval)
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best amplitude: %.6g\n", best)

	bestCfg := *baseCfg
	bestCfg.Ocean.Amplitude = best
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
