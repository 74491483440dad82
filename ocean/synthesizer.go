package ocean

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/config"
)

// Synthesizer runs complete synthesis passes. It owns one Sampler whose
// phase carries over between passes, so passes on the same Synthesizer are
// serialized.
type Synthesizer struct {
	mu        sync.Mutex
	consts    Constants
	transform InverseTransform
	sampler   *Sampler
	logger    *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used for per-pass debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// WithSampler shares an existing sampler instead of creating one.
func WithSampler(smp *Sampler) Option {
	return func(s *Synthesizer) { s.sampler = smp }
}

// NewSynthesizer creates a synthesizer. A nil transform selects FFT2.
func NewSynthesizer(c Constants, tr InverseTransform, opts ...Option) *Synthesizer {
	if tr == nil {
		tr = FFT2{}
	}
	s := &Synthesizer{
		consts:    c,
		transform: tr,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = NewSampler(0)
	}
	return s
}

// NewSynthesizerFromConfig builds a synthesizer from the physics and ocean
// sections of cfg.
func NewSynthesizerFromConfig(cfg *config.Config, opts ...Option) (*Synthesizer, error) {
	tr, err := NewTransform(cfg.Ocean.Transform)
	if err != nil {
		return nil, fmt.Errorf("ocean transform: %w", err)
	}
	return NewSynthesizer(ConstantsFromConfig(cfg), tr, opts...), nil
}

// Constants returns the physical constants in use.
func (s *Synthesizer) Constants() Constants {
	return s.consts
}

// Sampler returns the synthesizer's sampler. Callers must not draw from it
// while a pass is running.
func (s *Synthesizer) Sampler() *Sampler {
	return s.sampler
}

// Synthesize validates p and returns the M·N displaced surface vertices in
// row-major order. Invalid parameters are rejected before the sampler is
// touched.
func (s *Synthesizer) Synthesize(p Params) ([]mgl64.Vec3, error) {
	f, err := s.Fields(p)
	if err != nil {
		return nil, err
	}
	return s.Surface(p, f)
}

// Fields runs the sampling half of a pass: reseed, then build the height
// and displacement spectra.
func (s *Synthesizer) Fields(p Params) (Fields, error) {
	if err := p.Validate(); err != nil {
		return Fields{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sampler.Seed(p.Seed)
	f := SynthesizeFields(p, NewSpectrum(p, s.consts), s.sampler)

	s.logger.Debug("ocean fields synthesized",
		"m", p.M,
		"n", p.N,
		"seed", p.Seed,
		"time", p.Time,
		"draws", p.M*p.N*drawsPerCell,
		"sampler_phase", s.sampler.Phase(),
	)
	return f, nil
}

// Surface runs the deterministic half of a pass on spectra produced by
// Fields with the same parameters. Spectra whose shape is not p.M×p.N are
// rejected with ErrInvalidParameters.
func (s *Synthesizer) Surface(p Params, f Fields) ([]mgl64.Vec3, error) {
	if err := f.checkShape(p.M, p.N); err != nil {
		return nil, err
	}
	return Reconstruct(p, f, s.transform), nil
}
