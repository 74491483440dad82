// Package renderer draws ocean surfaces with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// Height ramp endpoints, trough to crest.
var (
	troughColor = rl.Color{R: 10, G: 40, B: 90, A: 255}
	midColor    = rl.Color{R: 30, G: 110, B: 170, A: 255}
	crestColor  = rl.Color{R: 220, G: 240, B: 255, A: 255}
)

// HeightColor maps h in [lo, hi] onto the water ramp. Values outside the
// range are clamped; a degenerate range maps to the middle color.
func HeightColor(h, lo, hi float64) rl.Color {
	if hi <= lo {
		return midColor
	}
	t := (h - lo) / (hi - lo)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	if t < 0.5 {
		return lerpColor(troughColor, midColor, t*2)
	}
	return lerpColor(midColor, crestColor, (t-0.5)*2)
}

func lerpColor(a, b rl.Color, t float64) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// ToVector3 converts a vertex to raylib's float32 vector, shifted by a
// horizontal offset.
func ToVector3(v mgl64.Vec3, offset mgl64.Vec2) rl.Vector3 {
	return rl.NewVector3(float32(v.X()+offset.X()), float32(v.Y()), float32(v.Z()+offset.Y()))
}

// SurfaceRenderer draws a displaced vertex grid as a colored wireframe.
type SurfaceRenderer struct {
	// Stride skips grid lines on large grids (1 = every line)
	Stride int

	// HeightScale exaggerates vertical displacement for display
	HeightScale float64

	// Flat draws every line in one color instead of the height ramp
	Flat bool
}

// NewSurfaceRenderer creates a renderer that draws every grid line.
func NewSurfaceRenderer() *SurfaceRenderer {
	return &SurfaceRenderer{Stride: 1, HeightScale: 1}
}

// StrideFor picks a stride that keeps roughly maxLines lines per axis.
func StrideFor(cells, maxLines int) int {
	if maxLines <= 0 || cells <= maxLines {
		return 1
	}
	return (cells + maxLines - 1) / maxLines
}

// Draw renders an m×n row-major vertex grid. lo and hi set the color ramp.
// Must be called between rl.BeginMode3D and rl.EndMode3D.
func (r *SurfaceRenderer) Draw(verts []mgl64.Vec3, m, n int, offset mgl64.Vec2, lo, hi float64) {
	if len(verts) < m*n {
		return
	}
	stride := r.Stride
	if stride < 1 {
		stride = 1
	}

	point := func(row, col int) (rl.Vector3, rl.Color) {
		v := verts[row*n+col]
		c := midColor
		if !r.Flat {
			c = HeightColor(v.Y(), lo, hi)
		}
		v[1] *= r.HeightScale
		return ToVector3(v, offset), c
	}

	for row := 0; row < m; row += stride {
		for col := 0; col < n; col += stride {
			p, c := point(row, col)
			if col+stride < n {
				q, _ := point(row, col+stride)
				rl.DrawLine3D(p, q, c)
			}
			if row+stride < m {
				q, _ := point(row+stride, col)
				rl.DrawLine3D(p, q, c)
			}
		}
	}
}

// DrawBounds outlines the lx×lz footprint of a patch centered on offset.
// Must be called between rl.BeginMode3D and rl.EndMode3D.
func DrawBounds(lx, lz float64, offset mgl64.Vec2, color rl.Color) {
	center := rl.NewVector3(float32(offset.X()), 0, float32(offset.Y()))
	rl.DrawCubeWires(center, float32(lx), 0, float32(lz), color)
}

// HeightmapPixels renders the vertex heights of an m×n grid into an RGBA
// pixel buffer, one pixel per cell.
func HeightmapPixels(dst []rl.Color, verts []mgl64.Vec3, lo, hi float64) []rl.Color {
	if len(dst) != len(verts) {
		dst = make([]rl.Color, len(verts))
	}
	for i, v := range verts {
		dst[i] = HeightColor(v.Y(), lo, hi)
	}
	return dst
}
