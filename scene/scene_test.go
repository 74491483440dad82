package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/telemetry"
)

// smallConfig loads the defaults shrunk to a 16×16 grid.
func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`
ocean:
  resolution_exp_m: 4
  resolution_exp_n: 4
  size_x: 60
  size_z: 60
scene:
  fps: 10
  patches:
    - name: west
      seed: 3
      offset_x: -60
    - name: east
      seed: 4
      offset_x: 60
telemetry:
  stats_window: 0.5
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

func TestScene_StepAdvances(t *testing.T) {
	cfg := smallConfig(t)
	s, err := New(cfg, nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	if s.PatchCount() != 2 {
		t.Fatalf("expected 2 patches, got %d", s.PatchCount())
	}

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}
	if s.Frame() != 3 {
		t.Errorf("expected frame 3, got %d", s.Frame())
	}
	if want := 3 / cfg.Scene.FPS; math.Abs(s.Time()-want) > 1e-12 {
		t.Errorf("expected time %v, got %v", want, s.Time())
	}
	if s.PerfStats().VerticesPerSec <= 0 {
		t.Error("expected perf stats to count synthesized vertices")
	}

	var names []string
	s.Each(func(patch *Patch, surface *Surface) {
		names = append(names, patch.Name)
		if len(surface.Vertices) != 16*16 {
			t.Errorf("%s: expected 256 vertices, got %d", patch.Name, len(surface.Vertices))
		}
		if surface.Stats.Frame != 2 || surface.Stats.Patch != patch.Name {
			t.Errorf("%s: unexpected stats %+v", patch.Name, surface.Stats)
		}
		if surface.Params.Seed != patch.Seed {
			t.Errorf("%s: pass used seed %d, want %d", patch.Name, surface.Params.Seed, patch.Seed)
		}
	})
	if len(names) != 2 {
		t.Errorf("expected to visit 2 patches, got %v", names)
	}
}

func TestScene_PatchesMatchDirectSynthesis(t *testing.T) {
	cfg := smallConfig(t)
	s, err := New(cfg, nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	if err := s.Update(2.5); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	s.Each(func(patch *Patch, surface *Surface) {
		p := ocean.ParamsFromConfig(cfg, 2.5)
		p.Seed = patch.Seed
		want, err := ocean.NewSynthesizer(ocean.ConstantsFromConfig(cfg), nil).Synthesize(p)
		if err != nil {
			t.Fatalf("Synthesize failed: %v", err)
		}
		for i := range want {
			if surface.Vertices[i] != want[i] {
				t.Fatalf("%s: vertex %d differs", patch.Name, i)
			}
		}
	})
}

func TestScene_Paused(t *testing.T) {
	s, err := New(smallConfig(t), nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	s.TogglePause()
	if err := s.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if s.Frame() != 0 || s.Time() != 0 {
		t.Errorf("paused scene advanced to frame %d time %v", s.Frame(), s.Time())
	}

	s.TogglePause()
	if s.Paused() {
		t.Error("expected scene to resume")
	}
}

func TestScene_ApplyPreset(t *testing.T) {
	cfg := smallConfig(t)
	s, err := New(cfg, nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	if err := s.ApplyPreset("storm"); err != nil {
		t.Fatalf("ApplyPreset failed: %v", err)
	}
	if err := s.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	s.Each(func(_ *Patch, surface *Surface) {
		if surface.Params.WindSpeed != 18 {
			t.Errorf("expected storm wind speed, got %v", surface.Params.WindSpeed)
		}
	})

	if err := s.ApplyPreset("doldrums"); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestScene_RejectedPresetKeepsRunning(t *testing.T) {
	cfg := smallConfig(t)
	s, err := New(cfg, nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	limit := -0.5
	cfg.Presets["broken"] = config.PresetConfig{WaveSizeLimit: &limit}
	if err := s.ApplyPreset("broken"); err == nil {
		t.Fatal("expected an error for a preset with a negative wave size limit")
	}
	if err := s.Step(); err != nil {
		t.Fatalf("Step after a rejected preset failed: %v", err)
	}
}

func TestScene_OutputAndSnapshots(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Telemetry.DumpVertices = true

	outDir := filepath.Join(t.TempDir(), "out")
	snapDir := filepath.Join(t.TempDir(), "snaps")
	s, err := New(cfg, nil, Options{OutputDir: outDir, SnapshotDir: snapDir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < 7; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}

	paths, err := s.SaveSnapshots()
	if err != nil {
		t.Fatalf("SaveSnapshots failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 snapshots, got %v", paths)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Two patches per frame plus the header
	data, err := os.ReadFile(filepath.Join(outDir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 1+7*2 {
		t.Errorf("expected 15 lines in frames.csv, got %d", len(lines))
	}

	// Frames run t=0 to t=0.6; a 0.5s stats window flushes perf once
	data, err = os.ReadFile(filepath.Join(outDir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Errorf("expected header + 1 perf row, got %d lines", len(lines))
	}

	if _, err := os.Stat(filepath.Join(outDir, "vertices", "east_000006.csv")); err != nil {
		t.Errorf("expected vertex dump: %v", err)
	}

	// Every saved snapshot replays to the stored surface.
	for _, path := range paths {
		snapshot, err := telemetry.LoadSnapshot(path)
		if err != nil {
			t.Fatalf("LoadSnapshot failed: %v", err)
		}
		if snapshot.Frame != 6 {
			t.Errorf("expected frame 6, got %d", snapshot.Frame)
		}
		verts, err := snapshot.Replay()
		if err != nil {
			t.Fatalf("Replay failed: %v", err)
		}
		stats := telemetry.ComputeFieldStats(snapshot.Params.Params(), verts)
		if stats.HeightVariance != snapshot.Stats.HeightVariance {
			t.Errorf("%s: replayed variance %v, want %v", snapshot.Patch, stats.HeightVariance, snapshot.Stats.HeightVariance)
		}
	}
}

func TestScene_SnapshotsRequireDir(t *testing.T) {
	s, err := New(smallConfig(t), nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	if _, err := s.SaveSnapshots(); err == nil {
		t.Error("expected an error without a snapshot directory")
	}
}
