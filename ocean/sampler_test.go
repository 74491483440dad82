package ocean

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestSampler_Deterministic(t *testing.T) {
	a := NewSampler(42)
	b := NewSampler(42)
	for i := 0; i < 1000; i++ {
		if x, y := a.Gaussian(), b.Gaussian(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestSampler_PhaseAlternates(t *testing.T) {
	s := NewSampler(1)
	if s.Phase() != 0 {
		t.Fatalf("new sampler should start at phase 0, got %d", s.Phase())
	}
	s.Gaussian()
	if s.Phase() != 1 {
		t.Errorf("expected phase 1 after one draw, got %d", s.Phase())
	}
	s.Gaussian()
	if s.Phase() != 0 {
		t.Errorf("expected phase 0 after two draws, got %d", s.Phase())
	}
}

func TestSampler_PairSharesUniforms(t *testing.T) {
	s := NewSampler(3)
	z0 := s.Gaussian()
	z1 := s.Gaussian()

	// Both halves come from the same (U, V): z0 = r·sin θ, z1 = r·cos θ.
	r := math.Sqrt(-2 * math.Log(s.u))
	if math.Abs(math.Hypot(z0, z1)-r) > 1e-12 {
		t.Errorf("pair radius %v does not match cached radius %v", math.Hypot(z0, z1), r)
	}
}

func TestSampler_SeedKeepsPhase(t *testing.T) {
	s := NewSampler(5)
	s.Gaussian()
	cachedU := s.u

	s.Seed(5)
	if s.Phase() != 1 {
		t.Fatalf("reseeding must not reset the phase, got %d", s.Phase())
	}

	// The next draw reuses the cached pair rather than the new stream.
	z := s.Gaussian()
	want := math.Sqrt(-2*math.Log(cachedU)) * math.Cos(2*math.Pi*s.v)
	if z != want {
		t.Errorf("expected cached cosine half %v, got %v", want, z)
	}
}

func TestSampler_ResetPhase(t *testing.T) {
	s := NewSampler(5)
	s.Gaussian()
	s.ResetPhase()
	s.Seed(5)

	fresh := NewSampler(5)
	for i := 0; i < 10; i++ {
		if x, y := s.Gaussian(), fresh.Gaussian(); x != y {
			t.Fatalf("draw %d after ResetPhase differs from fresh sampler: %v vs %v", i, x, y)
		}
	}
}

func TestSampler_ComplexOrder(t *testing.T) {
	a := NewSampler(11)
	b := NewSampler(11)

	c := a.GaussianComplex()
	re := b.Gaussian()
	im := b.Gaussian()
	if real(c) != re || imag(c) != im {
		t.Errorf("expected (%v, %v), got %v", re, im, c)
	}
}

func TestSampler_Distribution(t *testing.T) {
	s := NewSampler(2024)
	const n = 200000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = s.Gaussian()
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			t.Fatalf("draw %d is not finite: %v", i, xs[i])
		}
	}

	mean, variance := stat.MeanVariance(xs, nil)
	if math.Abs(mean) > 0.02 {
		t.Errorf("expected mean near 0, got %v", mean)
	}
	if math.Abs(variance-1) > 0.02 {
		t.Errorf("expected variance near 1, got %v", variance)
	}
}
