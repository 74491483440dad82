package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/swell/config"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibrate.yaml")
	data := []byte(`
ocean:
  amplitude: 0.001
  wind_speed: 6
  resolution_exp_m: 4
  resolution_exp_n: 4
  size_x: 60
  size_z: 60
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	return cfg
}

func TestMeanHs_ScalesWithSqrtAmplitude(t *testing.T) {
	e := NewEvaluator(smallConfig(t), []int64{1, 2}, []float64{0, 3.5})

	lo, err := e.MeanHs(-3)
	if err != nil {
		t.Fatalf("MeanHs failed: %v", err)
	}
	hi, err := e.MeanHs(-3 + math.Log10(4))
	if err != nil {
		t.Fatalf("MeanHs failed: %v", err)
	}
	if lo <= 0 {
		t.Fatalf("expected positive Hs, got %v", lo)
	}
	if ratio := hi / lo; math.Abs(ratio-2) > 1e-9 {
		t.Errorf("quadrupling amplitude should double Hs, ratio = %v", ratio)
	}
	if e.LastHs() != hi {
		t.Errorf("LastHs = %v, want %v", e.LastHs(), hi)
	}
}

func TestMeanHs_Repeatable(t *testing.T) {
	e := NewEvaluator(smallConfig(t), []int64{7}, []float64{1})
	a, err := e.MeanHs(-2.5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.MeanHs(-2.5)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("repeated evaluation differs: %v vs %v", a, b)
	}
}

func TestMeanHs_LeavesBaseConfigAlone(t *testing.T) {
	cfg := smallConfig(t)
	e := NewEvaluator(cfg, []int64{1}, []float64{0})
	if _, err := e.MeanHs(-1); err != nil {
		t.Fatal(err)
	}
	if cfg.Ocean.Amplitude != 0.001 {
		t.Errorf("base amplitude changed to %v", cfg.Ocean.Amplitude)
	}
}

func TestObjective(t *testing.T) {
	e := NewEvaluator(smallConfig(t), []int64{1}, []float64{0})
	hs, err := e.MeanHs(-3)
	if err != nil {
		t.Fatal(err)
	}

	obj := e.Objective(hs)
	if f := obj([]float64{-3}); f > 1e-20 {
		t.Errorf("objective at exact amplitude = %v, want 0", f)
	}
	if f := obj([]float64{-2}); f <= 0 {
		t.Errorf("objective away from target = %v, want > 0", f)
	}
}

func TestCalibrate(t *testing.T) {
	for _, name := range []string{"nelder-mead", "cmaes"} {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig(t)
			e := NewEvaluator(cfg, []int64{1, 2}, []float64{0})

			// Hs grows with sqrt(amplitude), so the exact answer is known.
			hs0, err := e.MeanHs(math.Log10(cfg.Ocean.Amplitude))
			if err != nil {
				t.Fatal(err)
			}
			target := 2 * hs0
			want := 4 * cfg.Ocean.Amplitude

			method, err := NewMethod(name)
			if err != nil {
				t.Fatal(err)
			}
			evals := 0
			got, err := Calibrate(e, target, method, 300, func(x, f float64) { evals++ })
			if err != nil {
				t.Fatalf("Calibrate failed: %v", err)
			}
			if evals == 0 {
				t.Error("expected evaluations to be reported")
			}
			if rel := math.Abs(got-want) / want; rel > 0.01 {
				t.Errorf("amplitude = %v, want %v (rel err %v)", got, want, rel)
			}
		})
	}
}

func TestCalibrate_RejectsBadTarget(t *testing.T) {
	e := NewEvaluator(smallConfig(t), []int64{1}, []float64{0})
	if _, err := Calibrate(e, 0, nil, 10, nil); err == nil {
		t.Error("expected error for zero target")
	}
}

func TestNewMethod_Unknown(t *testing.T) {
	if _, err := NewMethod("bfgs"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{3*time.Hour + 5*time.Minute + 9*time.Second, "3h05m09s"},
		{400 * time.Millisecond, "0m00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
