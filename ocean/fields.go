package ocean

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/go-gl/mathgl/mgl64"
)

// ComplexField is a dense row-major grid of complex values.
type ComplexField struct {
	Rows, Cols int
	Data       []complex128
}

// NewComplexField allocates a zeroed rows×cols field.
func NewComplexField(rows, cols int) ComplexField {
	return ComplexField{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// At returns the value of cell (m, n).
func (f ComplexField) At(m, n int) complex128 {
	return f.Data[m*f.Cols+n]
}

// Fields holds the three spectra of one pass.
type Fields struct {
	Height ComplexField
	DispX  ComplexField
	DispZ  ComplexField
}

// checkShape reports an error wrapping ErrInvalidParameters unless all three
// spectra are rows×cols.
func (f Fields) checkShape(rows, cols int) error {
	for _, c := range []ComplexField{f.Height, f.DispX, f.DispZ} {
		if c.Rows != rows || c.Cols != cols || len(c.Data) != rows*cols {
			return fmt.Errorf("%w: spectra are %dx%d, parameters ask for %dx%d",
				ErrInvalidParameters, c.Rows, c.Cols, rows, cols)
		}
	}
	return nil
}

// drawsPerCell is the number of Gaussian samples SynthesizeFields consumes
// per frequency cell. It is even, so a full pass leaves the sampler phase
// unchanged.
const drawsPerCell = 4

// SynthesizeFields builds the height and horizontal displacement spectra at
// time p.Time.
//
// Cells are visited in row-major order and each draws h0(k), then h0(-k),
// from the sampler. The draws are positional: changing the traversal order
// changes the ocean.
func SynthesizeFields(p Params, spec Spectrum, s *Sampler) Fields {
	f := Fields{
		Height: NewComplexField(p.M, p.N),
		DispX:  NewComplexField(p.M, p.N),
		DispZ:  NewComplexField(p.M, p.N),
	}

	for m := 0; m < p.M; m++ {
		for n := 0; n < p.N; n++ {
			idx := m*p.N + n
			k := p.WaveVector(m, n)

			h0k := baseAmplitude(spec, s, k)
			h0mk := baseAmplitude(spec, s, k.Mul(-1))

			phi := spec.Dispersion(k) * p.Time
			sin, cos := math.Sincos(phi)
			c0 := complex(cos, sin)
			c1 := complex(cos, -sin)

			h := h0k*c0 + cmplx.Conj(h0mk)*c1
			f.Height.Data[idx] = h

			kHat := unit(k)
			f.DispX.Data[idx] = complex(0, -kHat.X()) * h
			f.DispZ.Data[idx] = complex(0, -kHat.Y()) * h
		}
	}
	return f
}

// baseAmplitude returns h0(k) = ξ·sqrt(P(k)/2) for a fresh complex draw ξ.
func baseAmplitude(spec Spectrum, s *Sampler, k mgl64.Vec2) complex128 {
	xi := s.GaussianComplex()
	return xi * complex(math.Sqrt(spec.Phillips(k)/2), 0)
}
