// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Letters   LettersConfig   `yaml:"letters"`
	Wind      WindConfig      `yaml:"wind"`
	Weather   WeatherConfig   `yaml:"weather"`
	Particles ParticlesConfig `yaml:"particles"`
	Memory    MemoryConfig    `yaml:"memory"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// LettersConfig holds letter lifecycle parameters. All durations are milliseconds.
type LettersConfig struct {
	FontSize          float64 `yaml:"font_size"`
	LineHeight        float64 `yaml:"line_height"`         // Vertical advance per line
	Margin            float64 `yaml:"margin"`              // Writing margin on all sides
	FallbackAdvance   float64 `yaml:"fallback_advance"`    // Pen advance when no text measurer is available
	BirthDuration     float64 `yaml:"birth_duration"`      // Fade-in time
	BaseLife          float64 `yaml:"base_life"`           // Mean lifetime before erosion
	LifeVariance      float64 `yaml:"life_variance"`       // Fractional randomization of base_life (0.3 = ±30%)
	ErosionDuration   float64 `yaml:"erosion_duration"`    // Normal erosion time
	DeleteErosionFrac float64 `yaml:"delete_erosion_frac"` // Erosion duration fraction for manual deletion
	CascadeStagger    float64 `yaml:"cascade_stagger"`     // Per-index erosion start offset in cascades
	ContemplationTime float64 `yaml:"contemplation_time"`  // Aging pause after word recognition
	LightRadius       float64 `yaml:"light_radius"`        // Cursor preservation radius in pixels
	WindAgingMax      float64 `yaml:"wind_aging_max"`      // Max fractional life reduction at full wind
	RainThreshold     float64 `yaml:"rain_threshold"`      // Rain intensity above which letters wash out
	RainDrift         float64 `yaml:"rain_drift"`          // Downward drift px/ms at full rain
	RainFade          float64 `yaml:"rain_fade"`           // Opacity loss per ms at full rain
	MinOpacity        float64 `yaml:"min_opacity"`         // Below this a washing letter dies
	ParticlesPerBurst int     `yaml:"particles_per_burst"` // Terminal erosion burst size
	PuffChance        float64 `yaml:"puff_chance"`         // Per-tick chance of a small puff past 20% erosion
	WindCoupling      float64 `yaml:"wind_coupling"`       // Wind force to letter velocity coupling during erosion
}

// WindConfig holds wind field parameters.
type WindConfig struct {
	NoiseScale      float64 `yaml:"noise_scale"`      // Spatial noise frequency
	NoiseSpeed      float64 `yaml:"noise_speed"`      // Time accumulator advance per ms
	Octaves         int     `yaml:"octaves"`          // FBM octaves for turbulence
	Lacunarity      float64 `yaml:"lacunarity"`       // Frequency multiplier per octave
	Gain            float64 `yaml:"gain"`             // Amplitude multiplier per octave
	Strength        float64 `yaml:"strength"`         // Force magnitude at intensity 100
	TurbulenceRatio float64 `yaml:"turbulence_ratio"` // Turbulence amplitude as fraction of directional bias
}

// WeatherConfig holds weather state machine parameters.
type WeatherConfig struct {
	InterpRate       float64 `yaml:"interp_rate"`       // current→target approach rate per ms
	PushGain         float64 `yaml:"push_gain"`         // Dampening applied to semantic deltas
	PushDecay        float64 `yaml:"push_decay"`        // Per-tick multiplicative push decay
	HourPushDecay    float64 `yaml:"hour_push_decay"`   // Slower decay for hour_shift
	HourShiftScale   float64 `yaml:"hour_shift_scale"`  // Amplification of hour_shift in CurrentHour
	ThunderThreshold float64 `yaml:"thunder_threshold"` // Storm level enabling thunder
	ThunderRate      float64 `yaml:"thunder_rate"`      // Thunder probability factor per storm unit per ms
	TimeLapseMs      float64 `yaml:"time_lapse_ms"`     // Duration of a time-lapse interpolation
}

// ParticlesConfig holds particle pool parameters.
type ParticlesConfig struct {
	Capacity     int     `yaml:"capacity"`
	Gravity      float64 `yaml:"gravity"`       // Downward acceleration px/ms²
	Damping      float64 `yaml:"damping"`       // Per-tick velocity drag
	WindCoupling float64 `yaml:"wind_coupling"` // Wind force coupling for free particles
	ShrinkRate   float64 `yaml:"shrink_rate"`   // Size loss per ms
	CullMargin   float64 `yaml:"cull_margin"`   // Off-screen margin before release
}

// MemoryConfig holds palimpsest persistence parameters.
type MemoryConfig struct {
	Path         string  `yaml:"path"`
	SaveCap      int     `yaml:"save_cap"`      // Most recent traces kept on save
	LoadCap      int     `yaml:"load_cap"`      // Most recent traces kept on load
	RevealRadius float64 `yaml:"reveal_radius"` // Cursor distance revealing traces
}

// AudioConfig holds sonification parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Window size in seconds
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	MaxDT     float64 // Per-tick delta clamp in ms
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

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Large pauses (window drags, debugger breaks) must not turn into huge
	// integration steps; damping factors assume bounded per-tick dt.
	c.Derived.MaxDT = 50.0
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
