package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one scene frame.
const (
	PhaseFields  = "fields"  // sampling and spectrum construction
	PhaseSurface = "surface" // inverse transforms and vertex assembly
	PhaseStats   = "stats"
	PhaseOutput  = "output"
)

// phaseOrder is the order phases appear in logs.
var phaseOrder = []string{PhaseFields, PhaseSurface, PhaseStats, PhaseOutput}

// Phases returns the frame phases in display order.
func Phases() []string {
	return append([]string(nil), phaseOrder...)
}

// PerfSample is the timing of one scene frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
	Vertices      int // surface vertices produced during the frame
}

// PerfCollector keeps a ring of the last windowSize frame samples. Each
// frame is split into the synthesis phases by StartPhase calls.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	frameStart time.Time
	phaseStart time.Time
	lastPhase  string

	lastRenderTime time.Time
	renderDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames,
// or 60 when windowSize is not positive.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.current = PerfSample{Phases: make(map[string]time.Duration)}
	p.lastPhase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
// A phase may be entered several times per frame, once per patch; its
// durations add up.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = phase
}

// AddVertices credits n synthesized vertices to the current frame.
func (p *PerfCollector) AddVertices(n int) {
	p.current.Vertices += n
}

// EndFrame closes the running phase and stores the frame in the window.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	p.closePhase(now)
	p.current.FrameDuration = now.Sub(p.frameStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	p.sampleCount = min(p.sampleCount+1, p.windowSize)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase != "" {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// RecordRender marks a presented frame in the viewer. The gap to the
// previous call becomes the render frame time.
func (p *PerfCollector) RecordRender() {
	now := time.Now()
	if !p.lastRenderTime.IsZero() {
		p.renderDuration = now.Sub(p.lastRenderTime)
	}
	p.lastRenderTime = now
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average frame, 0..100

	FramesPerSecond float64 // synthesis frames the CPU could sustain
	VerticesPerSec  float64 // surface vertices produced per second of frame time

	// Viewer only
	RenderDuration time.Duration
	FPS            float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	st := PerfStats{
		PhaseAvg:       make(map[string]time.Duration),
		PhasePct:       make(map[string]float64),
		RenderDuration: p.renderDuration,
	}
	if p.renderDuration > 0 {
		st.FPS = float64(time.Second) / float64(p.renderDuration)
	}
	if p.sampleCount == 0 {
		return st
	}

	var total time.Duration
	var vertices int
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.samples[:p.sampleCount] {
		total += s.FrameDuration
		vertices += s.Vertices
		if i == 0 || s.FrameDuration < st.MinFrameDuration {
			st.MinFrameDuration = s.FrameDuration
		}
		st.MaxFrameDuration = max(st.MaxFrameDuration, s.FrameDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	st.AvgFrameDuration = total / n
	for phase, sum := range phaseSum {
		st.PhaseAvg[phase] = sum / n
		if st.AvgFrameDuration > 0 {
			st.PhasePct[phase] = float64(st.PhaseAvg[phase]) / float64(st.AvgFrameDuration) * 100
		}
	}
	if st.AvgFrameDuration > 0 {
		st.FramesPerSecond = float64(time.Second) / float64(st.AvgFrameDuration)
	}
	if total > 0 {
		st.VerticesPerSec = float64(vertices) / total.Seconds()
	}
	return st
}

// LogStats logs the window summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer. Phases are logged in pipeline order.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
		slog.Float64("vertices_per_sec", s.VerticesPerSec),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Frame          int     `csv:"frame"`
	AvgFrameUS     int64   `csv:"avg_frame_us"`
	MinFrameUS     int64   `csv:"min_frame_us"`
	MaxFrameUS     int64   `csv:"max_frame_us"`
	FramesPerSec   float64 `csv:"frames_per_sec"`
	VerticesPerSec float64 `csv:"vertices_per_sec"`
	FPS            float64 `csv:"fps"`
	FieldsPct      float64 `csv:"fields_pct"`
	SurfacePct     float64 `csv:"surface_pct"`
	StatsPct       float64 `csv:"stats_pct"`
	OutputPct      float64 `csv:"output_pct"`
}

// ToCSV flattens s into a perf.csv row for frame.
func (s PerfStats) ToCSV(frame int) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:          frame,
		AvgFrameUS:     s.AvgFrameDuration.Microseconds(),
		MinFrameUS:     s.MinFrameDuration.Microseconds(),
		MaxFrameUS:     s.MaxFrameDuration.Microseconds(),
		FramesPerSec:   s.FramesPerSecond,
		VerticesPerSec: s.VerticesPerSec,
		FPS:            s.FPS,
		FieldsPct:      s.PhasePct[PhaseFields],
		SurfacePct:     s.PhasePct[PhaseSurface],
		StatsPct:       s.PhasePct[PhaseStats],
		OutputPct:      s.PhasePct[PhaseOutput],
	}
}
