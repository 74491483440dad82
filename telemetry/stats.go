package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/swell/ocean"
)

// FieldStats summarizes one synthesized surface.
type FieldStats struct {
	Frame    int     `csv:"frame"`
	Patch    string  `csv:"patch"`
	SimTime  float64 `csv:"sim_time"`
	Vertices int     `csv:"vertices"`

	// Height distribution
	HeightMean     float64 `csv:"height_mean"`
	HeightVariance float64 `csv:"height_variance"`
	HeightMin      float64 `csv:"height_min"`
	HeightMax      float64 `csv:"height_max"`
	HeightP10      float64 `csv:"height_p10"`
	HeightP50      float64 `csv:"height_p50"`
	HeightP90      float64 `csv:"height_p90"`

	// Significant wave height, 4 standard deviations of the surface elevation
	SignificantHeight float64 `csv:"hs"`

	// Largest horizontal offset of any vertex from its rest position
	MaxDisplacement float64 `csv:"max_displacement"`
}

// ComputeFieldStats calculates height and displacement statistics for the
// vertices produced by one pass with parameters p.
func ComputeFieldStats(p ocean.Params, verts []mgl64.Vec3) FieldStats {
	fs := FieldStats{SimTime: p.Time, Vertices: len(verts)}
	if len(verts) == 0 {
		return fs
	}

	heights := make([]float64, len(verts))
	var maxDisp float64
	for i, v := range verts {
		heights[i] = v.Y()

		rest := p.RestPosition(i/p.N, i%p.N)
		d := math.Hypot(v.X()-rest.X(), v.Z()-rest.Z())
		if d > maxDisp {
			maxDisp = d
		}
	}

	fs.HeightMean, fs.HeightVariance = stat.PopMeanVariance(heights, nil)
	fs.HeightMin = floats.Min(heights)
	fs.HeightMax = floats.Max(heights)

	sort.Float64s(heights)
	fs.HeightP10 = stat.Quantile(0.10, stat.Empirical, heights, nil)
	fs.HeightP50 = stat.Quantile(0.50, stat.Empirical, heights, nil)
	fs.HeightP90 = stat.Quantile(0.90, stat.Empirical, heights, nil)

	fs.SignificantHeight = 4 * math.Sqrt(fs.HeightVariance)
	fs.MaxDisplacement = maxDisp
	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", s.Frame),
		slog.String("patch", s.Patch),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("vertices", s.Vertices),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_variance", s.HeightVariance),
		slog.Float64("height_min", s.HeightMin),
		slog.Float64("height_max", s.HeightMax),
		slog.Float64("height_p50", s.HeightP50),
		slog.Float64("hs", s.SignificantHeight),
		slog.Float64("max_displacement", s.MaxDisplacement),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("stats",
		"frame", s.Frame,
		"patch", s.Patch,
		"sim_time", s.SimTime,
		"hs", s.SignificantHeight,
		"height_min", s.HeightMin,
		"height_max", s.HeightMax,
		"max_displacement", s.MaxDisplacement,
	)
}
