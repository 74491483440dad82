// Package ui draws the viewer's text overlays.
package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swell/telemetry"
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	Title       rl.Color
	Label       rl.Color
	Highlight   rl.Color
	Warning     rl.Color
	Padding     int32
	LineHeight  int32
	FontSize    int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		Title:       rl.White,
		Label:       rl.LightGray,
		Highlight:   rl.Yellow,
		Warning:     rl.Red,
		Padding:     10,
		LineHeight:  18,
		FontSize:    14,
	}
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Frame     int
	SimTime   float64
	Patches   int
	GridM     int
	GridN     int
	Transform string
	Preset    string
	FPS       int32
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	Theme Theme
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{Theme: DefaultTheme()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	th := h.Theme
	rl.DrawText(data.Title, 10, 10, 20, th.Title)

	rl.DrawText(
		fmt.Sprintf("Grid: %dx%d | Patches: %d | Transform: %s", data.GridM, data.GridN, data.Patches, data.Transform),
		10, 35, 16, th.Label,
	)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | t = %.2fs | FPS: %d", data.Frame, data.SimTime, data.FPS),
		10, 55, 16, th.Label,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.Preset != "" {
		status += " | preset " + data.Preset
	}
	rl.DrawText(status, 10, 75, 16, th.Highlight)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawLegend renders one line per entry starting at (x, y).
func (h *HUD) DrawLegend(x, y int32, lines []string) {
	for _, line := range lines {
		rl.DrawText(line, x, y, h.Theme.FontSize, h.Theme.Label)
		y += h.Theme.LineHeight
	}
}

// StatsPanel renders per-patch field statistics.
type StatsPanel struct {
	Theme Theme
	x, y  int32
}

// NewStatsPanel creates a stats panel anchored at (x, y).
func NewStatsPanel(x, y int32) *StatsPanel {
	return &StatsPanel{Theme: DefaultTheme(), x: x, y: y}
}

// StatsLines formats field stats for display.
func StatsLines(s telemetry.FieldStats) []string {
	return []string{
		s.Patch,
		fmt.Sprintf("  Hs      %.3f m", s.SignificantHeight),
		fmt.Sprintf("  height  %.3f .. %.3f", s.HeightMin, s.HeightMax),
		fmt.Sprintf("  p10/90  %.3f / %.3f", s.HeightP10, s.HeightP90),
		fmt.Sprintf("  chop    %.3f m", s.MaxDisplacement),
	}
}

// Draw renders the panel for the given patches and returns the y below it.
func (p *StatsPanel) Draw(stats []telemetry.FieldStats) int32 {
	th := p.Theme
	lines := []string{"Field Stats"}
	for _, s := range stats {
		lines = append(lines, StatsLines(s)...)
	}

	height := int32(len(lines))*th.LineHeight + th.Padding*2
	width := int32(240)
	rl.DrawRectangle(p.x, p.y, width, height, th.PanelBg)
	rl.DrawRectangleLines(p.x, p.y, width, height, th.PanelBorder)

	y := p.y + th.Padding
	for i, line := range lines {
		color := th.Label
		if i == 0 {
			color = th.Title
		}
		rl.DrawText(line, p.x+th.Padding, y, th.FontSize, color)
		y += th.LineHeight
	}
	return p.y + height
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	Theme Theme
	x, y  int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{Theme: DefaultTheme(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	th := p.Theme
	x, y := p.x, p.y

	rl.DrawText("Frame Performance", x, y, 16, th.Title)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s", stats.AvgFrameDuration.Round(time.Microsecond)), x, y, th.FontSize, th.Highlight)
	y += 16
	rl.DrawText(fmt.Sprintf("%.2f Mvert/s", stats.VerticesPerSec/1e6), x, y, th.FontSize, th.Label)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := th.Label
		if pct > 50 {
			color = th.Warning
		}
		text := fmt.Sprintf("%-8s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct)
		rl.DrawText(text, x, y, th.FontSize, color)
		y += 16
	}
}
