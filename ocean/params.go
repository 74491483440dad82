// Package ocean synthesizes a time-varying ocean surface from wind and wave
// statistics using Tessendorf's FFT method.
//
// The pipeline is: a seeded Gaussian Sampler draws one random spectral
// coefficient per frequency cell, the Phillips Spectrum scales it, the
// quantized dispersion relation evolves it to the requested time, and
// Reconstruct inverse-transforms the height and displacement spectra into an
// ordered grid of surface vertices.
package ocean

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/config"
)

// Resolution limits for either grid axis.
const (
	MinResolution = 16
	MaxResolution = 2048
)

// ErrInvalidParameters is returned when a synthesis call is rejected before
// any sampling happens.
var ErrInvalidParameters = errors.New("invalid ocean parameters")

// Constants holds the physical constants of the simulation.
type Constants struct {
	Gravity     float64 // m/s^2
	PhasePeriod float64 // seconds; the surface repeats with this period
}

// DefaultConstants returns g = 9.8 and a 240 s phase period.
func DefaultConstants() Constants {
	return Constants{Gravity: 9.8, PhasePeriod: 240}
}

// Omega0 returns the fundamental angular frequency 2π/T.
func (c Constants) Omega0() float64 {
	return 2 * math.Pi / c.PhasePeriod
}

// Params is the full input of one synthesis pass.
//
// N cells span the X axis (length Lx) and M cells span the Z axis (length Lz).
// Vertices come out row-major with m as the row index.
type Params struct {
	Amplitude     float64    // A, height of the Phillips spectrum
	WindSpeed     float64    // V in m/s
	WindDir       mgl64.Vec2 // direction in the XZ plane; normalized by the spectrum
	Choppiness    float64    // λ, horizontal displacement scale
	Time          float64    // t in seconds
	M, N          int        // grid cells along Z and X
	Lx, Lz        float64    // domain extents in metres
	WaveSizeLimit float64    // l, waves shorter than this are suppressed
	Seed          int64
}

// Validate checks the parameters and returns an error wrapping
// ErrInvalidParameters describing the first problem found.
func (p Params) Validate() error {
	if !isPow2(p.M) || p.M < MinResolution || p.M > MaxResolution {
		return fmt.Errorf("%w: M=%d must be a power of two in [%d, %d]", ErrInvalidParameters, p.M, MinResolution, MaxResolution)
	}
	if !isPow2(p.N) || p.N < MinResolution || p.N > MaxResolution {
		return fmt.Errorf("%w: N=%d must be a power of two in [%d, %d]", ErrInvalidParameters, p.N, MinResolution, MaxResolution)
	}

	finite := []struct {
		name string
		v    float64
	}{
		{"amplitude", p.Amplitude},
		{"wind speed", p.WindSpeed},
		{"choppiness", p.Choppiness},
		{"time", p.Time},
		{"Lx", p.Lx},
		{"Lz", p.Lz},
		{"wave size limit", p.WaveSizeLimit},
		{"wind direction x", p.WindDir.X()},
		{"wind direction z", p.WindDir.Y()},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParameters, f.name)
		}
	}

	if p.Lx <= 0 || p.Lz <= 0 {
		return fmt.Errorf("%w: domain extents must be positive (Lx=%g, Lz=%g)", ErrInvalidParameters, p.Lx, p.Lz)
	}
	if p.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %g is negative", ErrInvalidParameters, p.Amplitude)
	}
	if p.WindSpeed < 0 {
		return fmt.Errorf("%w: wind speed %g is negative", ErrInvalidParameters, p.WindSpeed)
	}
	if p.WaveSizeLimit < 0 {
		return fmt.Errorf("%w: wave size limit %g is negative", ErrInvalidParameters, p.WaveSizeLimit)
	}
	if p.WindDir.Len() == 0 {
		return fmt.Errorf("%w: wind direction is the zero vector", ErrInvalidParameters)
	}
	return nil
}

// Offsets returns the centered cell offsets m' = m - M/2 and n' = n - N/2.
func (p Params) Offsets(m, n int) (mc, nc int) {
	return m - p.M/2, n - p.N/2
}

// WaveVector maps frequency cell (m, n) to k = (2π·n'/Lx, 2π·m'/Lz).
// The zero frequency sits at the grid midpoint.
func (p Params) WaveVector(m, n int) mgl64.Vec2 {
	mc, nc := p.Offsets(m, n)
	return mgl64.Vec2{
		2 * math.Pi * float64(nc) / p.Lx,
		2 * math.Pi * float64(mc) / p.Lz,
	}
}

// RestPosition returns the undisplaced position of spatial cell (m, n).
func (p Params) RestPosition(m, n int) mgl64.Vec3 {
	mc, nc := p.Offsets(m, n)
	return mgl64.Vec3{
		float64(nc) * p.Lx / float64(p.N),
		0,
		float64(mc) * p.Lz / float64(p.M),
	}
}

// ConstantsFromConfig reads the physics section of cfg.
func ConstantsFromConfig(cfg *config.Config) Constants {
	return Constants{
		Gravity:     cfg.Physics.Gravity,
		PhasePeriod: cfg.Physics.PhasePeriod,
	}
}

// ParamsFromConfig builds the parameters of one pass at time t from the
// ocean section of cfg. Resolution exponents are already expanded into cell
// counts by the config layer.
func ParamsFromConfig(cfg *config.Config, t float64) Params {
	o := cfg.Ocean
	return Params{
		Amplitude:     o.Amplitude,
		WindSpeed:     o.WindSpeed,
		WindDir:       cfg.Derived.WindDir,
		Choppiness:    o.Choppiness,
		Time:          t,
		M:             cfg.Derived.M,
		N:             cfg.Derived.N,
		Lx:            o.SizeX,
		Lz:            o.SizeZ,
		WaveSizeLimit: o.WaveSizeLimit,
		Seed:          o.Seed,
	}
}

func isPow2(v int) bool {
	return v > 0 && v&(v-1) == 0
}
