package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/camera"
	"github.com/pthm-cable/swell/renderer"
	"github.com/pthm-cable/swell/scene"
	"github.com/pthm-cable/swell/telemetry"
	"github.com/pthm-cable/swell/ui"
)

// maxGridLines caps the wireframe density per axis.
const maxGridLines = 128

const controlsText = "RMB drag: orbit | Wheel: zoom | Arrows: pan | Space: pause | 1-9: preset | S: snapshot | F: frame"

// viewer draws a scene in 3D and handles input.
type viewer struct {
	scene   *scene.Scene
	cam     *camera.Camera
	surface *renderer.SurfaceRenderer
	hud     *ui.HUD
	stats   *ui.StatsPanel
	perf    *ui.PerfPanel
	overlay *ui.OverlayRegistry

	preset string
}

func newViewer(s *scene.Scene, preset string) *viewer {
	cfg := s.Config()

	surface := renderer.NewSurfaceRenderer()
	surface.Stride = max(
		renderer.StrideFor(cfg.Derived.M, maxGridLines),
		renderer.StrideFor(cfg.Derived.N, maxGridLines),
	)

	v := &viewer{
		scene:   s,
		cam:     camera.FromConfig(cfg.Camera),
		surface: surface,
		hud:     ui.NewHUD(),
		stats:   ui.NewStatsPanel(int32(cfg.Screen.Width)-250, 10),
		perf:    ui.NewPerfPanel(10, 100),
		overlay: ui.NewOverlayRegistry(),
		preset:  preset,
	}
	return v
}

// frameScene points the camera at the middle of all patches.
func (v *viewer) frameScene() {
	cfg := v.scene.Config()
	var center mgl64.Vec2
	v.scene.Each(func(p *scene.Patch, _ *scene.Surface) {
		center = center.Add(p.Offset)
	})
	if n := v.scene.PatchCount(); n > 0 {
		center = center.Mul(1 / float64(n))
	}
	extent := max(cfg.Ocean.SizeX, cfg.Ocean.SizeZ)
	v.cam.Frame(mgl64.Vec3{center.X(), 0, center.Y()}, extent)
}

func (v *viewer) handleInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.cam.Rotate(float64(d.X)*0.3, float64(d.Y)*0.3)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.Zoom(1 - float64(wheel)*0.1)
	}

	step := v.cam.Distance * 0.01
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, -step)
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.scene.TogglePause()
	}
	for _, desc := range v.overlay.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			v.overlay.HandleKeyPress(desc.Key)
		}
	}
	v.surface.Flat = !v.overlay.IsEnabled(ui.OverlayHeightColor)
	if rl.IsKeyPressed(rl.KeyF) {
		v.frameScene()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if _, err := v.scene.SaveSnapshots(); err != nil {
			slog.Error("failed to save snapshots", "error", err)
		}
	}

	names := v.scene.Config().PresetNames()
	for i, name := range names {
		if i >= 9 {
			break
		}
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			if err := v.scene.ApplyPreset(name); err != nil {
				slog.Error("failed to apply preset", "error", err)
				continue
			}
			v.preset = name
		}
	}
}

func (v *viewer) draw() {
	cfg := v.scene.Config()
	v.scene.RecordRender()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 12, B: 20, A: 255})

	pos := v.cam.Position()
	rl.BeginMode3D(rl.Camera3D{
		Position:   renderer.ToVector3(pos, mgl64.Vec2{}),
		Target:     renderer.ToVector3(v.cam.Target, mgl64.Vec2{}),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(v.cam.FovyDeg),
		Projection: rl.CameraPerspective,
	})

	var stats []telemetry.FieldStats
	v.scene.Each(func(p *scene.Patch, s *scene.Surface) {
		if s.Vertices == nil {
			return
		}
		v.surface.Draw(s.Vertices, s.Params.M, s.Params.N, p.Offset, s.Stats.HeightMin, s.Stats.HeightMax)
		if v.overlay.IsEnabled(ui.OverlayBounds) {
			renderer.DrawBounds(s.Params.Lx, s.Params.Lz, p.Offset, rl.Yellow)
		}
		stats = append(stats, s.Stats)
	})
	rl.EndMode3D()

	v.hud.Draw(ui.HUDData{
		Title:     "Swell",
		Frame:     v.scene.Frame(),
		SimTime:   v.scene.Time(),
		Patches:   v.scene.PatchCount(),
		GridM:     cfg.Derived.M,
		GridN:     cfg.Derived.N,
		Transform: cfg.Ocean.Transform,
		Preset:    v.preset,
		FPS:       rl.GetFPS(),
		Paused:    v.scene.Paused(),
	})
	if v.overlay.IsEnabled(ui.OverlayStats) {
		v.stats.Draw(stats)
	}
	if v.overlay.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(v.scene.PerfStats(), telemetry.Phases())
	}
	v.hud.DrawLegend(10, int32(cfg.Screen.Height)-130, v.overlay.Legend())
	v.hud.DrawControls(int32(cfg.Screen.Height), controlsText)

	rl.EndDrawing()
}
