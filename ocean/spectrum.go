package ocean

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon guards the removable singularity of the Phillips spectrum at k = 0.
const epsilon = 2.220446049250313e-16

// Spectrum evaluates the wind-driven Phillips spectrum and the quantized
// deep-water dispersion relation for one set of parameters.
type Spectrum struct {
	amplitude float64
	windDir   mgl64.Vec2
	largest   float64 // L = V²/g, largest wave a wind of speed V sustains
	limitSq   float64 // l²
	gravity   float64
	omega0    float64
}

// NewSpectrum precomputes the per-pass terms of the spectrum.
func NewSpectrum(p Params, c Constants) Spectrum {
	dir := p.WindDir
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Spectrum{
		amplitude: p.Amplitude,
		windDir:   dir,
		largest:   p.WindSpeed * p.WindSpeed / c.Gravity,
		limitSq:   p.WaveSizeLimit * p.WaveSizeLimit,
		gravity:   c.Gravity,
		omega0:    c.Omega0(),
	}
}

// Dispersion returns ω(k) = ω0·floor(sqrt(g|k|)/ω0). Rounding down to a
// multiple of ω0 makes the surface exactly periodic in the phase period.
func (s Spectrum) Dispersion(k mgl64.Vec2) float64 {
	return math.Floor(math.Sqrt(s.gravity*k.Len())/s.omega0) * s.omega0
}

// Phillips returns the expected spectral energy at wave-vector k:
//
//	A · exp(-1/(|k|L)²) / |k|⁴ · (k̂·ŵ)² · exp(-|k|²l²)
//
// It returns 0 for |k| below machine epsilon.
func (s Spectrum) Phillips(k mgl64.Vec2) float64 {
	kLen := k.Len()
	if kLen < epsilon {
		return 0
	}

	kHat := k.Mul(1 / kLen)
	kL := kLen * s.largest
	align := kHat.Dot(s.windDir)

	nomin := math.Exp(-1 / (kL * kL))
	denom := kLen * kLen * kLen * kLen
	scale := math.Exp(-kLen * kLen * s.limitSq)

	return s.amplitude * nomin / denom * align * align * scale
}

// unit returns k/|k|, or the zero vector when |k| is zero.
func unit(k mgl64.Vec2) mgl64.Vec2 {
	l := k.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return k.Mul(1 / l)
}
