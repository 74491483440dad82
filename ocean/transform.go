package ocean

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// InverseTransform computes the unnormalized inverse DFT of a row-major
// rows×cols array:
//
//	dst[r,c] = Σ_m Σ_n src[m,n] · exp(+2πi(m·r/rows + n·c/cols))
//
// Inverse writes into dst when it has length rows*cols and allocates
// otherwise; it returns the result. src is never modified. Implementations
// must be safe to call from several goroutines at once.
type InverseTransform interface {
	Inverse(dst, src []complex128, rows, cols int) []complex128
}

// Transform backend names accepted by NewTransform.
const (
	TransformFFT2   = "fft2"
	TransformFlat   = "flat"
	TransformDSP    = "dsp"
	TransformDirect = "direct"
)

// ErrUnknownTransform is returned by NewTransform for an unrecognized name.
var ErrUnknownTransform = errors.New("unknown transform")

// NewTransform returns the backend registered under name. An empty name
// selects TransformFFT2.
func NewTransform(name string) (InverseTransform, error) {
	switch name {
	case "", TransformFFT2:
		return FFT2{}, nil
	case TransformFlat:
		return Flat{}, nil
	case TransformDSP:
		return DSP{}, nil
	case TransformDirect:
		return Direct{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
}

// FFT2 is a separable 2D inverse FFT built on gonum: every row, then every
// column.
type FFT2 struct{}

// Inverse implements InverseTransform.
func (FFT2) Inverse(dst, src []complex128, rows, cols int) []complex128 {
	dst = ensureLen(dst, rows*cols)
	copy(dst, src)

	rowFFT := fourier.NewCmplxFFT(cols)
	line := make([]complex128, cols)
	for r := 0; r < rows; r++ {
		row := dst[r*cols : (r+1)*cols]
		rowFFT.Sequence(line, row)
		copy(row, line)
	}

	colFFT := fourier.NewCmplxFFT(rows)
	col := make([]complex128, rows)
	out := make([]complex128, rows)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			col[r] = dst[r*cols+c]
		}
		colFFT.Sequence(out, col)
		for r := 0; r < rows; r++ {
			dst[r*cols+c] = out[r]
		}
	}
	return dst
}

// Flat runs one 1D inverse FFT over the flattened rows*cols array. This is
// not a 2D transform; the checkerboard correction in Reconstruct assumes a
// 2D one. It is kept for comparison with hosts that transform the flat
// vertex array.
type Flat struct{}

// Inverse implements InverseTransform.
func (Flat) Inverse(dst, src []complex128, rows, cols int) []complex128 {
	dst = ensureLen(dst, rows*cols)
	return fourier.NewCmplxFFT(rows*cols).Sequence(dst, src)
}

// DSP uses go-dsp's 2D inverse FFT, which divides by rows*cols; the result
// is scaled back up to match the other backends.
type DSP struct{}

// Inverse implements InverseTransform.
func (DSP) Inverse(dst, src []complex128, rows, cols int) []complex128 {
	dst = ensureLen(dst, rows*cols)

	grid := make([][]complex128, rows)
	for r := range grid {
		grid[r] = make([]complex128, cols)
		copy(grid[r], src[r*cols:(r+1)*cols])
	}

	out := fft.IFFT2(grid)
	scale := complex(float64(rows*cols), 0)
	for r := range out {
		for c, v := range out[r] {
			dst[r*cols+c] = v * scale
		}
	}
	return dst
}

// Direct evaluates the 2D inverse DFT by its definition in O((rows·cols)²).
// It exists as a reference for the FFT backends.
type Direct struct{}

// Inverse implements InverseTransform.
func (Direct) Inverse(dst, src []complex128, rows, cols int) []complex128 {
	dst = ensureLen(dst, rows*cols)

	rowTw := twiddles(rows)
	colTw := twiddles(cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum complex128
			for m := 0; m < rows; m++ {
				wm := rowTw[(m*r)%rows]
				for n := 0; n < cols; n++ {
					sum += src[m*cols+n] * wm * colTw[(n*c)%cols]
				}
			}
			dst[r*cols+c] = sum
		}
	}
	return dst
}

// twiddles returns exp(+2πi·j/n) for j in [0, n).
func twiddles(n int) []complex128 {
	w := make([]complex128, n)
	for j := range w {
		w[j] = cmplx.Rect(1, 2*math.Pi*float64(j)/float64(n))
	}
	return w
}

func ensureLen(dst []complex128, n int) []complex128 {
	if len(dst) != n {
		return make([]complex128, n)
	}
	return dst
}
