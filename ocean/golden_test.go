package ocean_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/telemetry"
)

var update = flag.Bool("update", false, "rewrite golden surface fixtures")

func goldenParams() ocean.Params {
	return ocean.Params{
		Amplitude:     1e-3,
		WindSpeed:     2,
		WindDir:       mgl64.Vec2{1, 0},
		Choppiness:    1,
		Time:          0,
		M:             16,
		N:             16,
		Lx:            60,
		Lz:            60,
		WaveSizeLimit: 0.1,
		Seed:          1,
	}
}

// TestGoldenSurface pins the 16×16 reference surface. Regenerate with
// go test ./ocean -run TestGoldenSurface -update.
func TestGoldenSurface(t *testing.T) {
	p := goldenParams()
	synth := ocean.NewSynthesizer(ocean.DefaultConstants(), ocean.FFT2{})
	verts, err := synth.Synthesize(p)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	path := filepath.Join("testdata", "golden_16x16.csv")
	if *update {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("creating testdata: %v", err)
		}
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("creating golden file: %v", err)
		}
		defer f.Close()
		if err := telemetry.WriteVertexCSV(f, verts, p.N); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		return
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening golden file (regenerate with -update): %v", err)
	}
	defer f.Close()

	want, err := telemetry.ReadVertexCSV(f)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if len(want) != len(verts) {
		t.Fatalf("expected %d vertices, got %d", len(want), len(verts))
	}
	for i := range want {
		if d := verts[i].Sub(want[i]).Len(); d > 1e-9 {
			t.Fatalf("vertex %d drifted by %g: got %v, want %v", i, d, verts[i], want[i])
		}
	}
}
