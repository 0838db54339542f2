// Package config loads the starfield configuration through viper.
// Defaults reproduce the original scene; every value can be overridden from
// config.yaml or OXY_STARFIELD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix bound by Load.
const EnvPrefix = "OXY_STARFIELD"

// Render backends.
const (
	BackendWGPU     = "wgpu"
	BackendTerminal = "terminal"
)

// Config holds the entire application configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	Window      WindowConfig      `mapstructure:"window"`
	Render      RenderConfig      `mapstructure:"render"`
	Camera      CameraConfig      `mapstructure:"camera"`
	Field       FieldConfig       `mapstructure:"field"`
	Spheres     SpheresConfig     `mapstructure:"spheres"`
	Theme       ThemeConfig       `mapstructure:"theme"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	Pulse       PulseConfig       `mapstructure:"pulse"`
	Audio       AudioConfig       `mapstructure:"audio"`
	Auth        AuthConfig        `mapstructure:"auth"`
}

// LoggerConfig configures the zap logger and its optional rotated file sink.
type LoggerConfig struct {
	Level       string      `mapstructure:"level"`
	Format      string      `mapstructure:"format"`
	ServiceName string      `mapstructure:"service_name"`
	AddSource   bool        `mapstructure:"add_source"`
	LogFile     string      `mapstructure:"log_file"`
	MaxSize     int         `mapstructure:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups"`
	MaxAge      int         `mapstructure:"max_age"`
	Compress    bool        `mapstructure:"compress"`
	Colors      ColorConfig `mapstructure:"colors"`
}

// ColorConfig maps log levels to terminal color names.
type ColorConfig struct {
	Debug  string `mapstructure:"debug"`
	Info   string `mapstructure:"info"`
	Warn   string `mapstructure:"warn"`
	Error  string `mapstructure:"error"`
	DPanic string `mapstructure:"dpanic"`
	Panic  string `mapstructure:"panic"`
	Fatal  string `mapstructure:"fatal"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	// TiltJoystick enables reading the first joystick as a device tilt source.
	TiltJoystick bool `mapstructure:"tilt_joystick"`
}

// RenderConfig selects and tunes the render sink.
type RenderConfig struct {
	Backend     string `mapstructure:"backend"`
	VSync       bool   `mapstructure:"vsync"`
	MSAA        int    `mapstructure:"msaa"`
	FrameLimit  int    `mapstructure:"frame_limit"`
	Profiling   bool   `mapstructure:"profiling"`
	PackWorkers int    `mapstructure:"pack_workers"`
	// Software forces the WebGPU fallback (CPU) adapter.
	Software bool `mapstructure:"software"`
	// ProfileInterval is how often frame statistics are logged when profiling.
	ProfileInterval time.Duration `mapstructure:"profile_interval"`
	// ClearColor is the background color as "#rrggbb".
	ClearColor string         `mapstructure:"clear_color"`
	Terminal   TerminalConfig `mapstructure:"terminal"`
}

// TerminalConfig tunes the terminal backend.
type TerminalConfig struct {
	// StarScale is how many glyph levels a unit-size star spans at unit depth.
	StarScale float32 `mapstructure:"star_scale"`
	// EventBuffer is the capacity of the terminal input queue.
	EventBuffer int `mapstructure:"event_buffer"`
}

// CameraConfig configures the perspective camera.
type CameraConfig struct {
	FovDegrees float32 `mapstructure:"fov_degrees"`
	Near       float32 `mapstructure:"near"`
	Far        float32 `mapstructure:"far"`
	DistanceZ  float32 `mapstructure:"distance_z"`
}

// FieldConfig configures the particle field generator.
type FieldConfig struct {
	Count        int            `mapstructure:"count"`
	HalfWidth    float32        `mapstructure:"half_width"`
	SizeMin      float32        `mapstructure:"size_min"`
	SizeMax      float32        `mapstructure:"size_max"`
	OpacityMin   float32        `mapstructure:"opacity_min"`
	OpacityMax   float32        `mapstructure:"opacity_max"`
	GlowFraction float64        `mapstructure:"glow_fraction"`
	GlowMin      float32        `mapstructure:"glow_min"`
	GlowMax      float32        `mapstructure:"glow_max"`
	Seed         uint64         `mapstructure:"seed"`
	Buckets      []BucketConfig `mapstructure:"buckets"`
}

// BucketConfig is one weighted palette bucket of the base field colors.
type BucketConfig struct {
	Name   string  `mapstructure:"name"`
	Color  string  `mapstructure:"color"`
	Weight float64 `mapstructure:"weight"`
}

// SpheresConfig configures the foreground and glow spheres.
type SpheresConfig struct {
	Radius         float32 `mapstructure:"radius"`
	Segments       int     `mapstructure:"segments"`
	Opacity        float32 `mapstructure:"opacity"`
	Color          string  `mapstructure:"color"`
	GlowScale      float32 `mapstructure:"glow_scale"`
	GlowOpacity    float32 `mapstructure:"glow_opacity"`
	GlowColor      string  `mapstructure:"glow_color"`
	GlowColorAlert string  `mapstructure:"glow_color_alert"`
}

// ThemeConfig configures the warm palette drawn when the theme is active.
type ThemeConfig struct {
	Bands []BandConfig `mapstructure:"bands"`
}

// BandConfig is one weighted hue band of the warm palette.
type BandConfig struct {
	Name       string  `mapstructure:"name"`
	HueMin     float64 `mapstructure:"hue_min"`
	HueMax     float64 `mapstructure:"hue_max"`
	Saturation float64 `mapstructure:"saturation"`
	Value      float64 `mapstructure:"value"`
	Weight     float64 `mapstructure:"weight"`
}

// InteractionConfig configures pointer and tilt rotation.
type InteractionConfig struct {
	RotationSpeed       float32 `mapstructure:"rotation_speed"`
	DeviceRotationSpeed float32 `mapstructure:"device_rotation_speed"`
}

// PulseConfig configures the glow pulse.
type PulseConfig struct {
	Period time.Duration `mapstructure:"period"`
}

// AudioConfig configures the theme toggle chime.
type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate int     `mapstructure:"sample_rate"`
	Volume     float64 `mapstructure:"volume"`
}

// AuthConfig configures the demo login collaborator.
type AuthConfig struct {
	SuccessDestination string `mapstructure:"success_destination"`
}

// SetDefaults registers every default value on v.
//
// Parameters:
//   - v: the viper instance to populate
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "oxy-starfield")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("window.title", "Oxy Starfield")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.tilt_joystick", true)

	v.SetDefault("render.backend", BackendWGPU)
	v.SetDefault("render.vsync", true)
	v.SetDefault("render.msaa", 4)
	v.SetDefault("render.frame_limit", 0)
	v.SetDefault("render.profiling", false)
	v.SetDefault("render.pack_workers", 4)
	v.SetDefault("render.software", false)
	v.SetDefault("render.profile_interval", time.Second)
	v.SetDefault("render.terminal.star_scale", 8)
	v.SetDefault("render.terminal.event_buffer", 64)
	v.SetDefault("render.clear_color", "#000000")

	v.SetDefault("camera.fov_degrees", 75)
	v.SetDefault("camera.near", 0.1)
	v.SetDefault("camera.far", 2000)
	v.SetDefault("camera.distance_z", 30)

	v.SetDefault("field.count", 10000)
	v.SetDefault("field.half_width", 750)
	v.SetDefault("field.size_min", 0.5)
	v.SetDefault("field.size_max", 2.0)
	v.SetDefault("field.opacity_min", 0.4)
	v.SetDefault("field.opacity_max", 1.0)
	v.SetDefault("field.glow_fraction", 0.1)
	v.SetDefault("field.glow_min", 0.5)
	v.SetDefault("field.glow_max", 1.0)
	v.SetDefault("field.seed", 0)
	v.SetDefault("field.buckets", []map[string]any{
		{"name": "white", "color": "#ffffff", "weight": 0.7},
		{"name": "blue", "color": "#9bb0ff", "weight": 0.2},
		{"name": "gold", "color": "#fff4e8", "weight": 0.1},
	})

	v.SetDefault("spheres.radius", 11.25)
	v.SetDefault("spheres.segments", 32)
	v.SetDefault("spheres.opacity", 0.8)
	v.SetDefault("spheres.color", "#000000")
	v.SetDefault("spheres.glow_scale", 1.12)
	v.SetDefault("spheres.glow_opacity", 0.18)
	v.SetDefault("spheres.glow_color", "#4f7cff")
	v.SetDefault("spheres.glow_color_alert", "#ff4a1c")

	v.SetDefault("theme.bands", []map[string]any{
		{"name": "red", "hue_min": 350.0, "hue_max": 365.0, "saturation": 0.85, "value": 1.0, "weight": 0.5},
		{"name": "orange", "hue_min": 18.0, "hue_max": 35.0, "saturation": 0.9, "value": 1.0, "weight": 0.3},
		{"name": "yellow", "hue_min": 45.0, "hue_max": 58.0, "saturation": 0.75, "value": 1.0, "weight": 0.2},
	})

	v.SetDefault("interaction.rotation_speed", 0.0025)
	v.SetDefault("interaction.device_rotation_speed", 0.01)

	v.SetDefault("pulse.period", 3*time.Second)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.volume", 0.25)

	v.SetDefault("auth.success_destination", "success.html")
}

// NewDefaultConfig returns the configuration built only from defaults.
//
// Returns:
//   - *Config: the default configuration
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		// defaults are static; failing here is a programming error
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Load reads the config file (if any) and environment into v, applies defaults
// and returns the validated configuration.
//
// Parameters:
//   - v: the viper instance; callers set the config file path on it beforehand
//
// Returns:
//   - *Config: the loaded configuration
//   - error: error if reading, decoding or validation fails
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the scene cannot run with.
//
// Returns:
//   - error: a joined error describing every invalid field, or nil
func (c *Config) Validate() error {
	var errs []error

	switch c.Render.Backend {
	case BackendWGPU, BackendTerminal:
	default:
		errs = append(errs, fmt.Errorf("render.backend must be %q or %q, got %q", BackendWGPU, BackendTerminal, c.Render.Backend))
	}
	switch c.Render.MSAA {
	case 1, 4, 8, 16:
	default:
		errs = append(errs, fmt.Errorf("render.msaa must be 1, 4, 8 or 16, got %d", c.Render.MSAA))
	}
	if c.Render.FrameLimit < 0 {
		errs = append(errs, errors.New("render.frame_limit must not be negative"))
	}
	if c.Render.ProfileInterval <= 0 {
		errs = append(errs, errors.New("render.profile_interval must be positive"))
	}
	if c.Render.Terminal.StarScale <= 0 || c.Render.Terminal.EventBuffer < 1 {
		errs = append(errs, errors.New("render.terminal requires a positive star_scale and event_buffer"))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, errors.New("window dimensions must be positive"))
	}

	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, errors.New("camera requires 0 < near < far"))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, errors.New("camera.fov_degrees must be in (0, 180)"))
	}

	errs = append(errs, c.Field.validate()...)
	errs = append(errs, c.Theme.validate()...)

	if c.Spheres.Radius <= 0 || c.Spheres.Segments < 3 {
		errs = append(errs, errors.New("spheres require a positive radius and at least 3 segments"))
	}
	if c.Pulse.Period <= 0 {
		errs = append(errs, errors.New("pulse.period must be positive"))
	}
	if c.Interaction.RotationSpeed < 0 || c.Interaction.DeviceRotationSpeed < 0 {
		errs = append(errs, errors.New("interaction speeds must not be negative"))
	}

	return errors.Join(errs...)
}

func (f *FieldConfig) validate() []error {
	var errs []error
	if f.Count <= 0 {
		errs = append(errs, errors.New("field.count must be positive"))
	}
	if f.HalfWidth <= 0 {
		errs = append(errs, errors.New("field.half_width must be positive"))
	}
	if f.SizeMin <= 0 || f.SizeMax < f.SizeMin {
		errs = append(errs, errors.New("field requires 0 < size_min <= size_max"))
	}
	if f.OpacityMin < 0 || f.OpacityMax > 1 || f.OpacityMax < f.OpacityMin {
		errs = append(errs, errors.New("field requires 0 <= opacity_min <= opacity_max <= 1"))
	}
	if f.GlowFraction < 0 || f.GlowFraction > 1 {
		errs = append(errs, errors.New("field.glow_fraction must be in [0, 1]"))
	}
	if f.GlowMin < 0 || f.GlowMax > 1 || f.GlowMax < f.GlowMin {
		errs = append(errs, errors.New("field requires 0 <= glow_min <= glow_max <= 1"))
	}
	if len(f.Buckets) == 0 {
		errs = append(errs, errors.New("field.buckets must not be empty"))
	}
	total := 0.0
	for _, b := range f.Buckets {
		if b.Weight < 0 || math.IsNaN(b.Weight) {
			errs = append(errs, fmt.Errorf("field bucket %q has an invalid weight", b.Name))
		}
		total += b.Weight
	}
	if len(f.Buckets) > 0 && total <= 0 {
		errs = append(errs, errors.New("field bucket weights must sum to a positive value"))
	}
	return errs
}

func (t *ThemeConfig) validate() []error {
	var errs []error
	if len(t.Bands) == 0 {
		errs = append(errs, errors.New("theme.bands must not be empty"))
	}
	total := 0.0
	for _, b := range t.Bands {
		if b.Weight < 0 || b.HueMax < b.HueMin {
			errs = append(errs, fmt.Errorf("theme band %q is invalid", b.Name))
		}
		if b.Saturation < 0 || b.Saturation > 1 || b.Value < 0 || b.Value > 1 {
			errs = append(errs, fmt.Errorf("theme band %q saturation and value must be in [0, 1]", b.Name))
		}
		total += b.Weight
	}
	if len(t.Bands) > 0 && total <= 0 {
		errs = append(errs, errors.New("theme band weights must sum to a positive value"))
	}
	return errs
}
