// Package scene hosts one or more ocean patches and advances them through
// simulated time.
package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/telemetry"
)

// Patch identifies one ocean tile and where it sits in the world.
type Patch struct {
	Name   string
	Seed   int64
	Offset mgl64.Vec2 // World-space XZ offset of the tile center
}

// Surface holds the most recent pass for a patch.
type Surface struct {
	Vertices     []mgl64.Vec3 // Local coordinates, row-major (m, n)
	Params       ocean.Params
	Stats        telemetry.FieldStats
	SamplerPhase int // Sampler phase when the pass began
}

// Options configures a Scene.
type Options struct {
	LogStats       bool    // Log field and perf stats every stats window
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string  // Directory for snapshot files
	OutputDir      string  // Directory for CSV output (empty = disabled)
	Logger         *slog.Logger
}

// Scene owns the ECS world of patches and the synthesizer that feeds them.
type Scene struct {
	cfg    *config.Config
	world  *ecs.World
	logger *slog.Logger

	patchMapper *ecs.Map2[Patch, Surface]
	patchFilter *ecs.Filter2[Patch, Surface]

	synth *ocean.Synthesizer

	// Telemetry
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsWindow   float64
	nextFlush     float64
	snapshotDir   string

	// State
	patches int
	frame   int
	time    float64
	paused  bool
}

// New creates a scene with one entity per configured patch. synth may be nil,
// in which case one is built from cfg.
func New(cfg *config.Config, synth *ocean.Synthesizer, opts Options) (*Scene, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if synth == nil {
		var err error
		synth, err = ocean.NewSynthesizerFromConfig(cfg, ocean.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	world := ecs.NewWorld()
	s := &Scene{
		cfg:           cfg,
		world:         world,
		logger:        logger,
		patchMapper:   ecs.NewMap2[Patch, Surface](world),
		patchFilter:   ecs.NewFilter2[Patch, Surface](world),
		synth:         synth,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: outputManager,
		logStats:      opts.LogStats,
		statsWindow:   statsWindow,
		nextFlush:     statsWindow,
		snapshotDir:   opts.SnapshotDir,
	}

	for _, pc := range cfg.Scene.Patches {
		patch := Patch{
			Name:   pc.Name,
			Seed:   pc.Seed,
			Offset: mgl64.Vec2{pc.OffsetX, pc.OffsetZ},
		}
		s.patchMapper.NewEntity(&patch, &Surface{})
		s.patches++
	}

	return s, nil
}

// Step advances simulated time by one frame (1/fps) and updates every patch.
// A paused scene does nothing.
func (s *Scene) Step() error {
	if s.paused {
		return nil
	}
	if err := s.Update(s.time); err != nil {
		return err
	}
	s.frame++
	s.time += 1 / s.cfg.Scene.FPS
	return nil
}

// Update synthesizes every patch at time t without advancing the frame
// counter.
func (s *Scene) Update(t float64) error {
	s.perfCollector.StartFrame()

	query := s.patchFilter.Query()
	for query.Next() {
		patch, surface := query.Get()
		if err := s.updatePatch(patch, surface, t); err != nil {
			query.Close()
			s.perfCollector.EndFrame()
			return fmt.Errorf("patch %s: %w", patch.Name, err)
		}
	}

	s.perfCollector.EndFrame()
	s.flushTelemetry(t)
	return nil
}

// updatePatch runs one synthesis pass for a patch and records its output.
func (s *Scene) updatePatch(patch *Patch, surface *Surface, t float64) error {
	p := ocean.ParamsFromConfig(s.cfg, t)
	p.Seed = patch.Seed

	s.perfCollector.StartPhase(telemetry.PhaseFields)
	phase := s.synth.Sampler().Phase()
	fields, err := s.synth.Fields(p)
	if err != nil {
		return err
	}

	s.perfCollector.StartPhase(telemetry.PhaseSurface)
	verts, err := s.synth.Surface(p, fields)
	if err != nil {
		return err
	}
	s.perfCollector.AddVertices(len(verts))

	s.perfCollector.StartPhase(telemetry.PhaseStats)
	stats := telemetry.ComputeFieldStats(p, verts)
	stats.Frame = s.frame
	stats.Patch = patch.Name

	surface.Vertices = verts
	surface.Params = p
	surface.Stats = stats
	surface.SamplerPhase = phase

	s.perfCollector.StartPhase(telemetry.PhaseOutput)
	if err := s.outputManager.WriteStats(stats); err != nil {
		s.logger.Error("failed to write stats", "error", err)
	}
	if s.cfg.Telemetry.DumpVertices {
		if err := s.outputManager.WriteVertices(patch.Name, s.frame, verts, p.N); err != nil {
			s.logger.Error("failed to write vertices", "error", err)
		}
	}
	return nil
}

// flushTelemetry logs and writes windowed stats once per stats window of
// simulated time.
func (s *Scene) flushTelemetry(t float64) {
	if s.statsWindow <= 0 || t < s.nextFlush {
		return
	}
	for s.nextFlush <= t {
		s.nextFlush += s.statsWindow
	}

	perfStats := s.perfCollector.Stats()

	if s.logStats {
		query := s.patchFilter.Query()
		for query.Next() {
			_, surface := query.Get()
			surface.Stats.LogStats()
		}
		perfStats.LogStats()
	}

	if err := s.outputManager.WritePerf(perfStats, s.frame); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}
}

// RecordRender records time between rendered frames in graphics mode.
func (s *Scene) RecordRender() {
	s.perfCollector.RecordRender()
}

// PerfStats returns frame timing over the collector window.
func (s *Scene) PerfStats() telemetry.PerfStats {
	return s.perfCollector.Stats()
}

// SaveSnapshots writes one snapshot per patch for the current frame and
// returns the file paths.
func (s *Scene) SaveSnapshots() ([]string, error) {
	if s.snapshotDir == "" {
		return nil, errors.New("no snapshot directory configured")
	}

	var snapshots []*telemetry.Snapshot
	query := s.patchFilter.Query()
	for query.Next() {
		patch, surface := query.Get()
		if surface.Vertices == nil {
			continue
		}
		snapshots = append(snapshots, s.createSnapshot(patch, surface))
	}

	paths := make([]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		path, err := telemetry.SaveSnapshot(snapshot, s.snapshotDir)
		if err != nil {
			return paths, err
		}
		s.logger.Info("snapshot saved", "path", path, "frame", snapshot.Frame, "patch", snapshot.Patch)
		paths = append(paths, path)
	}
	return paths, nil
}

// createSnapshot builds a snapshot from a patch's last pass.
func (s *Scene) createSnapshot(patch *Patch, surface *Surface) *telemetry.Snapshot {
	c := s.synth.Constants()
	stats := surface.Stats
	return &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		Frame:        stats.Frame,
		Patch:        patch.Name,
		Gravity:      c.Gravity,
		PhasePeriod:  c.PhasePeriod,
		Transform:    s.cfg.Ocean.Transform,
		Params:       telemetry.NewParamsJSON(surface.Params),
		SamplerPhase: surface.SamplerPhase,
		Stats:        &stats,
	}
}

// ApplyPreset switches the ocean parameters to a named preset. The change
// takes effect on the next frame.
func (s *Scene) ApplyPreset(name string) error {
	if err := s.cfg.ApplyPreset(name); err != nil {
		return err
	}
	s.logger.Info("preset applied", "preset", name, "frame", s.frame)
	return nil
}

// Each calls fn for every patch in creation order. fn must not retain the
// pointers.
func (s *Scene) Each(fn func(patch *Patch, surface *Surface)) {
	query := s.patchFilter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// PatchCount returns the number of patches in the scene.
func (s *Scene) PatchCount() int {
	return s.patches
}

// Frame returns the number of completed frames.
func (s *Scene) Frame() int { return s.frame }

// Time returns the simulated time of the next frame.
func (s *Scene) Time() float64 { return s.time }

// Paused reports whether stepping is suspended.
func (s *Scene) Paused() bool { return s.paused }

// TogglePause suspends or resumes stepping.
func (s *Scene) TogglePause() { s.paused = !s.paused }

// Config returns the scene's configuration.
func (s *Scene) Config() *config.Config { return s.cfg }

// Close flushes and closes telemetry output.
func (s *Scene) Close() error {
	return s.outputManager.Close()
}
