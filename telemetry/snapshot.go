package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/swell/ocean"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds everything needed to replay one patch's frame.
type Snapshot struct {
	Version int    `json:"version"`
	Frame   int    `json:"frame"`
	Patch   string `json:"patch"`

	Gravity     float64 `json:"gravity"`
	PhasePeriod float64 `json:"phase_period"`
	Transform   string  `json:"transform"`

	Params ParamsJSON `json:"params"`

	// Phase of the shared sampler when the frame's pass started.
	SamplerPhase int `json:"sampler_phase"`

	Stats *FieldStats `json:"stats,omitempty"`
}

// ParamsJSON is the JSON-serializable form of ocean.Params.
type ParamsJSON struct {
	Amplitude     float64 `json:"amplitude"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirX      float64 `json:"wind_dir_x"`
	WindDirZ      float64 `json:"wind_dir_z"`
	Choppiness    float64 `json:"choppiness"`
	Time          float64 `json:"time"`
	M             int     `json:"m"`
	N             int     `json:"n"`
	Lx            float64 `json:"lx"`
	Lz            float64 `json:"lz"`
	WaveSizeLimit float64 `json:"wave_size_limit"`
	Seed          int64   `json:"seed"`
}

// NewParamsJSON converts ocean.Params to its JSON form.
func NewParamsJSON(p ocean.Params) ParamsJSON {
	return ParamsJSON{
		Amplitude:     p.Amplitude,
		WindSpeed:     p.WindSpeed,
		WindDirX:      p.WindDir.X(),
		WindDirZ:      p.WindDir.Y(),
		Choppiness:    p.Choppiness,
		Time:          p.Time,
		M:             p.M,
		N:             p.N,
		Lx:            p.Lx,
		Lz:            p.Lz,
		WaveSizeLimit: p.WaveSizeLimit,
		Seed:          p.Seed,
	}
}

// Params converts the JSON form back to ocean.Params.
func (pj ParamsJSON) Params() ocean.Params {
	return ocean.Params{
		Amplitude:     pj.Amplitude,
		WindSpeed:     pj.WindSpeed,
		WindDir:       mgl64.Vec2{pj.WindDirX, pj.WindDirZ},
		Choppiness:    pj.Choppiness,
		Time:          pj.Time,
		M:             pj.M,
		N:             pj.N,
		Lx:            pj.Lx,
		Lz:            pj.Lz,
		WaveSizeLimit: pj.WaveSizeLimit,
		Seed:          pj.Seed,
	}
}

// Constants returns the physical constants recorded in the snapshot.
func (s *Snapshot) Constants() ocean.Constants {
	return ocean.Constants{Gravity: s.Gravity, PhasePeriod: s.PhasePeriod}
}

// Replay re-runs the recorded pass on a fresh synthesizer. A pass that
// began at sampler phase 1 used a cached uniform pair from an earlier stream
// and cannot be replayed.
func (s *Snapshot) Replay() ([]mgl64.Vec3, error) {
	if s.SamplerPhase != 0 {
		return nil, fmt.Errorf("replay snapshot: pass began at sampler phase %d", s.SamplerPhase)
	}

	tr, err := ocean.NewTransform(s.Transform)
	if err != nil {
		return nil, fmt.Errorf("replay snapshot: %w", err)
	}

	synth := ocean.NewSynthesizer(s.Constants(), tr)
	return synth.Synthesize(s.Params.Params())
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	patch := strings.ReplaceAll(snapshot.Patch, " ", "_")
	if patch == "" {
		patch = "patch"
	}
	path := filepath.Join(dir, fmt.Sprintf("snapshot_%s_%d.json", patch, snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version mismatch: got %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
