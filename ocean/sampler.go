package ocean

import (
	"math"
	"math/rand"
)

// randMax is the largest value of the 31-bit uniform stream.
const randMax = 1<<31 - 1

// Sampler draws unit-Gaussian samples with the Box-Muller transform, two
// samples per uniform pair.
//
// It carries two independent pieces of state: the uniform stream, and the
// cached uniform pair with its phase flag. Seed only replaces the stream; the
// cache and phase survive reseeding and are cleared only by ResetPhase. A pass
// that draws an even number of samples leaves the phase where it found it.
//
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rng   *rand.Rand
	u, v  float64
	phase int
}

// NewSampler creates a sampler whose stream is keyed by seed, at phase 0.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Seed restarts the uniform stream. The cached pair and phase are kept.
func (s *Sampler) Seed(seed int64) {
	s.rng.Seed(seed)
}

// ResetPhase drops the cached pair and returns to phase 0.
func (s *Sampler) ResetPhase() {
	s.u, s.v = 0, 0
	s.phase = 0
}

// Phase reports 0 when the next Gaussian draws a fresh uniform pair and 1
// when it reuses the cached one.
func (s *Sampler) Phase() int {
	return s.phase
}

// Gaussian returns one sample of N(0, 1).
func (s *Sampler) Gaussian() float64 {
	var z float64
	if s.phase == 0 {
		s.u = (float64(s.rng.Int31()) + 1) / (randMax + 2) // (0, 1]
		s.v = float64(s.rng.Int31()) / (randMax + 1)       // [0, 1)
		z = math.Sqrt(-2*math.Log(s.u)) * math.Sin(2*math.Pi*s.v)
	} else {
		z = math.Sqrt(-2*math.Log(s.u)) * math.Cos(2*math.Pi*s.v)
	}
	s.phase = 1 - s.phase
	return z
}

// GaussianComplex returns a complex number whose real part, then imaginary
// part, are consecutive Gaussian draws.
func (s *Sampler) GaussianComplex() complex128 {
	re := s.Gaussian()
	im := s.Gaussian()
	return complex(re, im)
}
