package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Viewer overlay IDs.
const (
	OverlayStats       OverlayID = "stats"
	OverlayPerf        OverlayID = "perf"
	OverlayHeightColor OverlayID = "height_color"
	OverlayFlatColor   OverlayID = "flat_color"
	OverlayBounds      OverlayID = "bounds"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // Keyboard key to toggle (0 = no key)
	KeyLabel  string // e.g. "T"
	Category  string // "surface" or "panels"
	Exclusive []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the viewer overlays. Height
// coloring and the stats panel start enabled.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayHeightColor, true)
	reg.SetEnabled(OverlayStats, true)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:        OverlayHeightColor,
		Name:      "Height Colors",
		Key:       rl.KeyH,
		KeyLabel:  "H",
		Category:  "surface",
		Exclusive: []OverlayID{OverlayFlatColor},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayFlatColor,
		Name:      "Flat Wireframe",
		Key:       rl.KeyW,
		KeyLabel:  "W",
		Category:  "surface",
		Exclusive: []OverlayID{OverlayHeightColor},
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayBounds,
		Name:     "Patch Bounds",
		Key:      rl.KeyB,
		KeyLabel: "B",
		Category: "surface",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayStats,
		Name:     "Field Stats",
		Key:      rl.KeyT,
		KeyLabel: "T",
		Category: "panels",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPerf,
		Name:     "Frame Performance",
		Key:      rl.KeyP,
		KeyLabel: "P",
		Category: "panels",
	})
}

// Register adds an overlay to the registry, disabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// Legend returns one "K: Name" entry per overlay with a key, with enabled
// overlays marked.
func (r *OverlayRegistry) Legend() []string {
	var lines []string
	for _, desc := range r.descriptors {
		if desc.Key == 0 {
			continue
		}
		mark := " "
		if r.enabled[desc.ID] {
			mark = "*"
		}
		lines = append(lines, mark+desc.KeyLabel+": "+desc.Name)
	}
	return lines
}
