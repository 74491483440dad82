package ocean

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// scenarioParams is the 16×16 reference scenario used across the tests.
func scenarioParams() Params {
	return Params{
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

// livelyParams has a stronger wind so most cells carry energy.
func livelyParams() Params {
	p := scenarioParams()
	p.WindSpeed = 8
	p.WindDir = mgl64.Vec2{1, 1}
	return p
}

func TestPhillips_ZeroWaveVector(t *testing.T) {
	spec := NewSpectrum(livelyParams(), DefaultConstants())
	if got := spec.Phillips(mgl64.Vec2{}); got != 0 {
		t.Errorf("expected 0 at k=0, got %v", got)
	}
	if got := spec.Phillips(mgl64.Vec2{1e-17, 0}); got != 0 {
		t.Errorf("expected 0 below epsilon, got %v", got)
	}
}

func TestPhillips_Formula(t *testing.T) {
	p := livelyParams()
	c := DefaultConstants()
	spec := NewSpectrum(p, c)

	k := mgl64.Vec2{0.3, 0.1}
	kLen := k.Len()
	L := p.WindSpeed * p.WindSpeed / c.Gravity
	w := p.WindDir.Normalize()
	dot := k.Normalize().Dot(w)
	want := p.Amplitude * math.Exp(-1/math.Pow(kLen*L, 2)) / math.Pow(kLen, 4) *
		dot * dot * math.Exp(-kLen*kLen*p.WaveSizeLimit*p.WaveSizeLimit)

	got := spec.Phillips(k)
	if math.Abs(got-want) > 1e-12*math.Abs(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPhillips_PerpendicularToWind(t *testing.T) {
	p := livelyParams()
	p.WindDir = mgl64.Vec2{1, 0}
	spec := NewSpectrum(p, DefaultConstants())

	if got := spec.Phillips(mgl64.Vec2{0, 0.5}); got != 0 {
		t.Errorf("expected no energy across the wind, got %v", got)
	}
	if spec.Phillips(mgl64.Vec2{0.5, 0}) <= 0 {
		t.Error("expected energy along the wind")
	}
}

func TestPhillips_ScalesWithAmplitude(t *testing.T) {
	p := livelyParams()
	c := DefaultConstants()
	k := mgl64.Vec2{0.2, -0.4}

	base := NewSpectrum(p, c).Phillips(k)
	p.Amplitude *= 3
	scaled := NewSpectrum(p, c).Phillips(k)

	if math.Abs(scaled-3*base) > 1e-12*scaled {
		t.Errorf("expected %v, got %v", 3*base, scaled)
	}
}

func TestPhillips_ZeroWindSpeed(t *testing.T) {
	p := livelyParams()
	p.WindSpeed = 0
	spec := NewSpectrum(p, DefaultConstants())

	got := spec.Phillips(mgl64.Vec2{0.5, 0.5})
	if got != 0 || math.IsNaN(got) {
		t.Errorf("expected 0 with no wind, got %v", got)
	}
}

func TestDispersion_QuantizedAndMonotone(t *testing.T) {
	c := DefaultConstants()
	spec := NewSpectrum(livelyParams(), c)
	w0 := c.Omega0()

	prev := -1.0
	for i := 0; i <= 2000; i++ {
		kLen := float64(i) * 0.005
		w := spec.Dispersion(mgl64.Vec2{kLen * 0.6, kLen * 0.8})

		if w < 0 {
			t.Fatalf("negative dispersion %v at |k|=%v", w, kLen)
		}
		q := w / w0
		if math.Abs(q-math.Round(q)) > 1e-9 {
			t.Fatalf("dispersion %v at |k|=%v is not a multiple of ω0", w, kLen)
		}
		if w < prev {
			t.Fatalf("dispersion decreased at |k|=%v: %v < %v", kLen, w, prev)
		}
		prev = w
	}
}

func TestDispersion_CustomPeriod(t *testing.T) {
	c := Constants{Gravity: 9.8, PhasePeriod: 10}
	spec := NewSpectrum(livelyParams(), c)

	k := mgl64.Vec2{1, 0}
	physical := math.Sqrt(9.8)
	want := math.Floor(physical/c.Omega0()) * c.Omega0()
	if got := spec.Dispersion(k); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := spec.Dispersion(k); got > physical {
		t.Errorf("quantized frequency %v exceeds physical %v", got, physical)
	}
}

func TestWaveVector_Centered(t *testing.T) {
	p := scenarioParams()
	if k := p.WaveVector(p.M/2, p.N/2); k.Len() != 0 {
		t.Errorf("expected zero wave-vector at grid midpoint, got %v", k)
	}

	k := p.WaveVector(0, 0)
	want := mgl64.Vec2{2 * math.Pi * -8 / p.Lx, 2 * math.Pi * -8 / p.Lz}
	if !k.ApproxEqual(want) {
		t.Errorf("expected %v at (0,0), got %v", want, k)
	}

	// n runs along X, m along Z
	k = p.WaveVector(p.M/2, p.N/2+1)
	if k.X() <= 0 || k.Y() != 0 {
		t.Errorf("expected +X wave-vector, got %v", k)
	}
}
