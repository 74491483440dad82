package telemetry

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/ocean"
)

func flatSurface(p ocean.Params, height float64) []mgl64.Vec3 {
	verts := make([]mgl64.Vec3, p.M*p.N)
	for m := 0; m < p.M; m++ {
		for n := 0; n < p.N; n++ {
			rest := p.RestPosition(m, n)
			verts[m*p.N+n] = mgl64.Vec3{rest.X(), height, rest.Z()}
		}
	}
	return verts
}

func TestComputeFieldStats_Flat(t *testing.T) {
	p := testParams()
	fs := ComputeFieldStats(p, flatSurface(p, 0.25))

	if fs.Vertices != p.M*p.N {
		t.Errorf("expected %d vertices, got %d", p.M*p.N, fs.Vertices)
	}
	if math.Abs(fs.HeightMean-0.25) > 1e-12 {
		t.Errorf("expected mean 0.25, got %v", fs.HeightMean)
	}
	if fs.HeightVariance > 1e-20 {
		t.Errorf("expected zero variance, got %v", fs.HeightVariance)
	}
	if fs.SignificantHeight > 1e-9 {
		t.Errorf("expected zero Hs, got %v", fs.SignificantHeight)
	}
	if fs.MaxDisplacement != 0 {
		t.Errorf("expected zero displacement, got %v", fs.MaxDisplacement)
	}
	if fs.SimTime != p.Time {
		t.Errorf("expected sim time %v, got %v", p.Time, fs.SimTime)
	}
}

func TestComputeFieldStats_Distribution(t *testing.T) {
	p := testParams()
	verts := flatSurface(p, 0)

	// Half the cells at +1, half at -1: mean 0, variance 1, Hs 4.
	for i := range verts {
		if i%2 == 0 {
			verts[i][1] = 1
		} else {
			verts[i][1] = -1
		}
	}
	// Push one vertex sideways.
	verts[5][0] += 3
	verts[5][2] += 4

	fs := ComputeFieldStats(p, verts)

	if math.Abs(fs.HeightMean) > 1e-12 {
		t.Errorf("expected mean 0, got %v", fs.HeightMean)
	}
	if math.Abs(fs.HeightVariance-1) > 1e-12 {
		t.Errorf("expected variance 1, got %v", fs.HeightVariance)
	}
	if math.Abs(fs.SignificantHeight-4) > 1e-9 {
		t.Errorf("expected Hs 4, got %v", fs.SignificantHeight)
	}
	if fs.HeightMin != -1 || fs.HeightMax != 1 {
		t.Errorf("expected range [-1, 1], got [%v, %v]", fs.HeightMin, fs.HeightMax)
	}
	if fs.HeightP10 != -1 || fs.HeightP90 != 1 {
		t.Errorf("unexpected percentiles p10=%v p90=%v", fs.HeightP10, fs.HeightP90)
	}
	if math.Abs(fs.MaxDisplacement-5) > 1e-9 {
		t.Errorf("expected max displacement 5, got %v", fs.MaxDisplacement)
	}
}

func TestComputeFieldStats_Empty(t *testing.T) {
	fs := ComputeFieldStats(testParams(), nil)
	if fs.Vertices != 0 || fs.HeightVariance != 0 {
		t.Errorf("expected zero stats for empty input, got %+v", fs)
	}
}

func TestVertexCSVRoundTrip(t *testing.T) {
	p := testParams()
	verts, err := ocean.NewSynthesizer(ocean.DefaultConstants(), ocean.FFT2{}).Synthesize(p)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteVertexCSV(&buf, verts, p.N); err != nil {
		t.Fatalf("WriteVertexCSV failed: %v", err)
	}

	loaded, err := ReadVertexCSV(&buf)
	if err != nil {
		t.Fatalf("ReadVertexCSV failed: %v", err)
	}
	if len(loaded) != len(verts) {
		t.Fatalf("expected %d vertices, got %d", len(verts), len(loaded))
	}
	for i := range verts {
		if loaded[i].Sub(verts[i]).Len() > 1e-12 {
			t.Fatalf("vertex %d mismatch: got %v, want %v", i, loaded[i], verts[i])
		}
	}
}
