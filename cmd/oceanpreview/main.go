// Ocean preview tool - interactive heightmap with sliders over the wave
// parameters.
//
// Usage: go run ./cmd/oceanpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
	"github.com/pthm-cable/swell/renderer"
	"github.com/pthm-cable/swell/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	// The preview caps the grid at 2^8 cells per axis to stay interactive.
	maxPreviewExp = 8
)

// previewParams holds the slider state.
type previewParams struct {
	LogAmplitude  float32 // log10 of the Phillips amplitude
	WindSpeed     float32
	WindDirDeg    float32
	Choppiness    float32
	WaveSizeLimit float32
	ResolutionExp float32
	Seed          float32
}

func paramsFromConfig(cfg *config.Config) previewParams {
	exp := min(cfg.Ocean.ResolutionExpN, maxPreviewExp)
	return previewParams{
		LogAmplitude:  float32(math.Log10(math.Max(cfg.Ocean.Amplitude, 1e-6))),
		WindSpeed:     float32(cfg.Ocean.WindSpeed),
		WindDirDeg:    float32(cfg.Ocean.WindDirectionDeg),
		Choppiness:    float32(cfg.Ocean.Choppiness),
		WaveSizeLimit: float32(cfg.Ocean.WaveSizeLimit),
		ResolutionExp: float32(exp),
		Seed:          float32(cfg.Ocean.Seed),
	}
}

// apply writes the slider state into cfg's ocean section. The preview grid
// is square.
func (pp previewParams) apply(cfg *config.Config) error {
	cfg.Ocean.Amplitude = math.Pow(10, float64(pp.LogAmplitude))
	cfg.Ocean.WindSpeed = float64(pp.WindSpeed)
	cfg.Ocean.WindDirectionDeg = float64(pp.WindDirDeg)
	cfg.Ocean.Choppiness = float64(pp.Choppiness)
	cfg.Ocean.WaveSizeLimit = float64(pp.WaveSizeLimit)
	cfg.Ocean.ResolutionExpM = int(pp.ResolutionExp)
	cfg.Ocean.ResolutionExpN = int(pp.ResolutionExp)
	cfg.Ocean.Seed = int64(pp.Seed)

	return cfg.Refresh()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	synth, err := ocean.NewSynthesizerFromConfig(cfg)
	if err != nil {
		slog.Error("failed to create synthesizer", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Ocean Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := paramsFromConfig(cfg)
	defaults := params
	if err := params.apply(cfg); err != nil {
		slog.Error("invalid starting parameters", "error", err)
		os.Exit(1)
	}

	var (
		texture  rl.Texture2D
		texSize  int
		pixels   []rl.Color
		stats    telemetry.FieldStats
		simTime  float32
		animate  bool
		regen    = true
		statusTx string
	)
	defer func() {
		if texSize > 0 {
			rl.UnloadTexture(texture)
		}
	}()

	for !rl.WindowShouldClose() {
		if animate {
			simTime += rl.GetFrameTime()
			regen = true
		}

		if regen {
			p := ocean.ParamsFromConfig(cfg, float64(simTime))
			surface, err := synth.Synthesize(p)
			if err != nil {
				statusTx = err.Error()
			} else {
				statusTx = ""
				stats = telemetry.ComputeFieldStats(p, surface)

				if texSize != p.N {
					if texSize > 0 {
						rl.UnloadTexture(texture)
					}
					img := rl.GenImageColor(p.N, p.M, rl.Black)
					texture = rl.LoadTextureFromImage(img)
					rl.UnloadImage(img)
					texSize = p.N
				}
				pixels = renderer.HeightmapPixels(pixels, surface, stats.HeightMin, stats.HeightMax)
				rl.UpdateTexture(texture, pixels)
			}
			regen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		if texSize > 0 {
			rl.DrawTexturePro(
				texture,
				rl.Rectangle{X: 0, Y: 0, Width: float32(texSize), Height: float32(texSize)},
				rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
				rl.Vector2{X: 0, Y: 0},
				0,
				rl.White,
			)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Hs: %.3f m  Min: %.3f  Max: %.3f", stats.SignificantHeight, stats.HeightMin, stats.HeightMax), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Chop: %.3f m  Time: %.1f s  Grid: %dx%d", stats.MaxDisplacement, simTime, cfg.Derived.M, cfg.Derived.N), 15, statsY+20, 16, rl.DarkGray)
		if statusTx != "" {
			rl.DrawText(statusTx, 15, statsY+40, 14, rl.Red)
		}

		// Control panel
		panel := &sliderPanel{x: float32(previewSize + 20), y: 10}
		rl.DrawText("Ocean Parameters", int32(panel.x), int32(panel.y), 20, rl.DarkGray)
		panel.y += 35

		changed := false
		changed = panel.slider("Amplitude (log10)", "-6", "-1", &params.LogAmplitude, -6, -1, "%.2f") || changed
		changed = panel.slider("Wind speed (m/s)", "0", "30", &params.WindSpeed, 0, 30, "%.1f") || changed
		changed = panel.slider("Wind direction (deg)", "0", "360", &params.WindDirDeg, 0, 360, "%.0f") || changed
		changed = panel.slider("Choppiness", "0", "2", &params.Choppiness, 0, 2, "%.2f") || changed
		changed = panel.slider("Wave size limit (m)", "0", "2", &params.WaveSizeLimit, 0, 2, "%.2f") || changed
		if panel.slider("Resolution (2^n)", "4", "8", &params.ResolutionExp, config.MinResolutionExp, maxPreviewExp, "%.0f") {
			params.ResolutionExp = float32(math.Round(float64(params.ResolutionExp)))
			changed = true
		}
		if panel.slider("Seed", "0", "9999", &params.Seed, 0, 9999, "%.0f") {
			params.Seed = float32(math.Round(float64(params.Seed)))
			changed = true
		}
		panel.y += 10

		if gui.Button(rl.Rectangle{X: panel.x, Y: panel.y, Width: 120, Height: 30}, toggleText(animate, "Stop", "Animate")) {
			animate = !animate
		}
		if gui.Button(rl.Rectangle{X: panel.x + 130, Y: panel.y, Width: 120, Height: 30}, "Reset Time") {
			simTime = 0
			regen = true
		}
		panel.y += 40

		if gui.Button(rl.Rectangle{X: panel.x, Y: panel.y, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = float32(rl.GetRandomValue(0, 9999))
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panel.x + 130, Y: panel.y, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			simTime = 0
			changed = true
		}
		panel.y += 50

		if changed {
			if err := params.apply(cfg); err != nil {
				statusTx = err.Error()
			} else {
				regen = true
			}
		}

		snippet, err := oceanYAML(cfg)
		if err != nil {
			snippet = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panel.x), int32(panel.y), 16, rl.DarkGray)
		panel.y += 25
		rl.DrawText(snippet, int32(panel.x), int32(panel.y), 12, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panel.x), windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// sliderPanel lays out labeled sliders top to bottom.
type sliderPanel struct {
	x, y float32
}

// slider draws a labeled slider bound to v and reports whether it moved.
func (sp *sliderPanel) slider(label, minText, maxText string, v *float32, lo, hi float32, format string) bool {
	rl.DrawText(label, int32(sp.x), int32(sp.y), 14, rl.Gray)
	sp.y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: sp.x, Y: sp.y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		*v, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(sp.x+float32(panelWidth-70)), int32(sp.y+2), 16, rl.DarkGray)
	sp.y += 35

	if next == *v {
		return false
	}
	*v = next
	return true
}

// oceanYAML renders the ocean section of cfg as a pasteable YAML snippet.
func oceanYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(map[string]config.OceanConfig{"ocean": cfg.Ocean})
	if err != nil {
		return "", fmt.Errorf("marshaling ocean config: %w", err)
	}
	return string(data), nil
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
