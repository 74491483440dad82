package ocean

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Reconstruct inverse-transforms the three spectra and assembles the
// displaced vertex grid in row-major (m, n) order. The spectra in f must
// be p.M×p.N; Synthesizer.Surface checks this.
//
// The transforms are independent and run concurrently.
func Reconstruct(p Params, f Fields, tr InverseTransform) []mgl64.Vec3 {
	height, dispX, dispZ := inverseAll(f, tr)
	return assemble(p, height, dispX, dispZ, true)
}

// inverseAll runs the three inverse transforms in parallel.
func inverseAll(f Fields, tr InverseTransform) (height, dispX, dispZ []complex128) {
	var wg sync.WaitGroup
	run := func(out *[]complex128, in ComplexField) {
		defer wg.Done()
		*out = tr.Inverse(nil, in.Data, in.Rows, in.Cols)
	}

	wg.Add(3)
	go run(&height, f.Height)
	go run(&dispX, f.DispX)
	go run(&dispZ, f.DispZ)
	wg.Wait()

	return height, dispX, dispZ
}

// assemble builds the vertices from spatial-domain values. With
// checkerboard set, cells with odd m+n are negated; this stands in for a
// frequency shift, since the spectra were built with zero frequency at the
// grid midpoint.
func assemble(p Params, height, dispX, dispZ []complex128, checkerboard bool) []mgl64.Vec3 {
	verts := make([]mgl64.Vec3, p.M*p.N)
	for m := 0; m < p.M; m++ {
		for n := 0; n < p.N; n++ {
			idx := m*p.N + n

			sign := 1.0
			if checkerboard && (m+n)&1 == 1 {
				sign = -1
			}

			rest := p.RestPosition(m, n)
			verts[idx] = mgl64.Vec3{
				rest.X() + p.Choppiness*sign*real(dispX[idx]),
				sign * real(height[idx]),
				rest.Z() + p.Choppiness*sign*real(dispZ[idx]),
			}
		}
	}
	return verts
}
