// Package config provides configuration loading and access for the ocean
// simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Resolution exponent limits: 2^4 = 16 to 2^11 = 2048 cells per axis.
const (
	MinResolutionExp = 4
	MaxResolutionExp = 11
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig            `yaml:"screen"`
	Physics   PhysicsConfig           `yaml:"physics"`
	Ocean     OceanConfig             `yaml:"ocean"`
	Presets   map[string]PresetConfig `yaml:"presets"`
	Scene     SceneConfig             `yaml:"scene"`
	Camera    CameraConfig            `yaml:"camera"`
	Telemetry TelemetryConfig         `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the physical constants.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`      // m/s^2
	PhasePeriod float64 `yaml:"phase_period"` // Seconds before the surface repeats
}

// OceanConfig holds the wave-field parameters.
// Grid resolution is stored as log2 exponents; Derived holds cell counts.
type OceanConfig struct {
	Amplitude        float64 `yaml:"amplitude"`          // Phillips spectrum height
	WindSpeed        float64 `yaml:"wind_speed"`         // m/s
	WindDirectionDeg float64 `yaml:"wind_direction_deg"` // 0 = +X, 90 = +Z
	Choppiness       float64 `yaml:"choppiness"`         // Horizontal displacement scale
	ResolutionExpM   int     `yaml:"resolution_exp_m"`   // Rows (Z axis) = 2^exp
	ResolutionExpN   int     `yaml:"resolution_exp_n"`   // Columns (X axis) = 2^exp
	SizeX            float64 `yaml:"size_x"`             // Domain length along X (m)
	SizeZ            float64 `yaml:"size_z"`             // Domain length along Z (m)
	WaveSizeLimit    float64 `yaml:"wave_size_limit"`    // Waves smaller than this are suppressed
	Seed             int64   `yaml:"seed"`
	Transform        string  `yaml:"transform"` // fft2, flat, dsp or direct
}

// PresetConfig overrides a subset of OceanConfig. Nil fields are left alone.
type PresetConfig struct {
	Amplitude        *float64 `yaml:"amplitude"`
	WindSpeed        *float64 `yaml:"wind_speed"`
	WindDirectionDeg *float64 `yaml:"wind_direction_deg"`
	Choppiness       *float64 `yaml:"choppiness"`
	WaveSizeLimit    *float64 `yaml:"wave_size_limit"`
}

// SceneConfig holds the host loop settings.
type SceneConfig struct {
	FPS     float64       `yaml:"fps"` // Simulation frames per simulated second
	Patches []PatchConfig `yaml:"patches"`
}

// PatchConfig places one ocean patch in the scene.
type PatchConfig struct {
	Name    string  `yaml:"name"`
	Seed    int64   `yaml:"seed"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetZ float64 `yaml:"offset_z"`
}

// CameraConfig holds the viewer's orbit camera defaults.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	PitchDeg    float64 `yaml:"pitch_deg"`
	YawDeg      float64 `yaml:"yaw_deg"`
	FovyDeg     float64 `yaml:"fovy_deg"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of sim time between stats log lines
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	DumpVertices        bool    `yaml:"dump_vertices"` // Write a vertex CSV per patch per frame
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	M, N    int        // Cell counts expanded from the resolution exponents
	WindDir mgl64.Vec2 // Unit wind direction in the XZ plane
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks the values a host is responsible for before they reach
// the synthesizer. Every preset must also yield a valid ocean when applied.
func (c *Config) Validate() error {
	if err := validateOcean(c.Ocean); err != nil {
		return err
	}
	if c.Physics.Gravity <= 0 || c.Physics.PhasePeriod <= 0 {
		return errors.New("gravity and phase_period must be positive")
	}
	if c.Scene.FPS <= 0 {
		return fmt.Errorf("scene fps must be positive, got %g", c.Scene.FPS)
	}
	for _, name := range c.PresetNames() {
		if err := validateOcean(c.Presets[name].applyTo(c.Ocean)); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return nil
}

func validateOcean(o OceanConfig) error {
	for _, exp := range []int{o.ResolutionExpM, o.ResolutionExpN} {
		if exp < MinResolutionExp || exp > MaxResolutionExp {
			return fmt.Errorf("resolution exponent %d outside [%d, %d]", exp, MinResolutionExp, MaxResolutionExp)
		}
	}
	if o.SizeX <= 0 || o.SizeZ <= 0 {
		return fmt.Errorf("ocean size must be positive, got %gx%g", o.SizeX, o.SizeZ)
	}
	if o.Amplitude < 0 || o.WindSpeed < 0 || o.WaveSizeLimit < 0 {
		return errors.New("amplitude, wind_speed and wave_size_limit must not be negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.M = 1 << c.Ocean.ResolutionExpM
	c.Derived.N = 1 << c.Ocean.ResolutionExpN

	rad := c.Ocean.WindDirectionDeg * math.Pi / 180
	c.Derived.WindDir = mgl64.Vec2{math.Cos(rad), math.Sin(rad)}

	// Synthesize a single patch at the origin if none specified
	if len(c.Scene.Patches) == 0 {
		c.Scene.Patches = []PatchConfig{{Name: "main", Seed: c.Ocean.Seed}}
	}
	for i := range c.Scene.Patches {
		if c.Scene.Patches[i].Name == "" {
			c.Scene.Patches[i].Name = fmt.Sprintf("patch%d", i)
		}
	}
}

// OverrideSeed sets the ocean seed and reseeds every patch: patch i gets
// seed+i.
func (c *Config) OverrideSeed(seed int64) {
	c.Ocean.Seed = seed
	for i := range c.Scene.Patches {
		c.Scene.Patches[i].Seed = seed + int64(i)
	}
}

// PresetNames returns the configured preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyTo returns o with the fields set by the preset overwritten.
func (p PresetConfig) applyTo(o OceanConfig) OceanConfig {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&o.Amplitude, p.Amplitude)
	set(&o.WindSpeed, p.WindSpeed)
	set(&o.WindDirectionDeg, p.WindDirectionDeg)
	set(&o.Choppiness, p.Choppiness)
	set(&o.WaveSizeLimit, p.WaveSizeLimit)
	return o
}

// ApplyPreset overwrites the ocean fields set by the named preset and
// recomputes derived values. A preset that would leave the ocean invalid is
// rejected and c is left unchanged.
func (c *Config) ApplyPreset(name string) error {
	p, ok := c.Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}

	next := p.applyTo(c.Ocean)
	if err := validateOcean(next); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}
	c.Ocean = next
	c.computeDerived()
	return nil
}

// Refresh validates c and recomputes derived values after fields were
// edited in place.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
