package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prestontjones/GravitySim/audio"
	"github.com/prestontjones/GravitySim/collision"
	"github.com/prestontjones/GravitySim/history"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/physics"
	"github.com/prestontjones/GravitySim/prediction"
	"github.com/prestontjones/GravitySim/simulation"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix namespaces environment overrides
const EnvPrefix = "GRAVITY_SIM_"

// Config is the runtime configuration
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	History    HistoryConfig    `yaml:"history"`
	Prediction PredictionConfig `yaml:"prediction"`
	Collision  CollisionConfig  `yaml:"collision"`
	Audio      AudioConfig      `yaml:"audio"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type PhysicsConfig struct {
	G            float64 `yaml:"g"`
	MinDistance  float64 `yaml:"min_distance"`
	StepTime     float64 `yaml:"step_time"`
	MaxFrameTime float64 `yaml:"max_frame_time"`
}

type HistoryConfig struct {
	MaxStates         int     `yaml:"max_states"`
	CaptureInterval   float64 `yaml:"capture_interval"`
	StabilizationTime float64 `yaml:"stabilization_time"`
}

type PredictionConfig struct {
	Enabled bool    `yaml:"enabled"`
	Seconds float64 `yaml:"seconds"`
	Quality string  `yaml:"quality"`
	Stride  int     `yaml:"stride"`
}

type CollisionConfig struct {
	MediumThreshold float64 `yaml:"medium_threshold"`
	LargeThreshold  float64 `yaml:"large_threshold"`
}

type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
	SampleRate   int     `yaml:"sample_rate"`
}

type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

// Default returns the compiled-in defaults
func Default() *Config {
	return &Config{
		Physics: PhysicsConfig{
			G:            parameter.GravityConstant,
			MinDistance:  parameter.GravityMinDistance,
			StepTime:     parameter.StepTime,
			MaxFrameTime: parameter.MaxFrameTime,
		},
		History: HistoryConfig{
			MaxStates:         parameter.HistoryMaxStates,
			CaptureInterval:   parameter.HistoryCaptureInterval,
			StabilizationTime: parameter.HistoryStabilizationTime,
		},
		Prediction: PredictionConfig{
			Enabled: true,
			Seconds: parameter.PredictionSeconds,
			Quality: prediction.QualityHigh.String(),
			Stride:  parameter.PredictionRecordStride,
		},
		Collision: CollisionConfig{
			MediumThreshold: parameter.CollisionIntensityMedium,
			LargeThreshold:  parameter.CollisionIntensityLarge,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: parameter.AudioMasterVolume,
			SampleRate:   parameter.AudioSampleRate,
		},
		Logging: LoggingConfig{
			Dir: parameter.LogDir,
		},
	}
}

// Load resolves defaults, then the YAML file at path (if non-empty), then environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.Decode(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode overlays YAML onto cfg; unknown keys are rejected
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overlays GRAVITY_SIM_* variables read through lookup
// Malformed values are errors rather than silently ignored
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.float("G", &c.Physics.G)
	env.float("MIN_DISTANCE", &c.Physics.MinDistance)
	env.int("MAX_STATES", &c.History.MaxStates)
	env.float("CAPTURE_INTERVAL", &c.History.CaptureInterval)
	env.float("PREDICTION_SECONDS", &c.Prediction.Seconds)
	env.string("PREDICTION_QUALITY", &c.Prediction.Quality)
	env.bool("PREDICTIONS", &c.Prediction.Enabled)
	env.bool("AUDIO_ENABLED", &c.Audio.Enabled)
	env.bool("DEBUG", &c.Logging.Debug)

	// Volume is given as 0-100
	var volume int
	if env.int("MASTER_VOLUME", &volume) {
		c.Audio.MasterVolume = float64(min(max(volume, 0), 100)) / 100.0
	}

	return env.err
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) raw(key string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err)
	}
}

func (e *envReader) float(key string, dst *float64) bool {
	v, ok := e.raw(key)
	if !ok {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return false
	}
	*dst = f
	return true
}

func (e *envReader) int(key string, dst *int) bool {
	v, ok := e.raw(key)
	if !ok {
		return false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return false
	}
	*dst = n
	return true
}

func (e *envReader) bool(key string, dst *bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return false
	}
	*dst = b
	return true
}

func (e *envReader) string(key string, dst *string) bool {
	v, ok := e.raw(key)
	if ok {
		*dst = v
	}
	return ok
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	var problems []string
	check := func(bad bool, msg string) {
		if bad {
			problems = append(problems, msg)
		}
	}

	check(c.Physics.G <= 0, "physics.g must be positive")
	check(c.Physics.MinDistance < 0, "physics.min_distance must not be negative")
	check(c.Physics.StepTime <= 0, "physics.step_time must be positive")
	check(c.Physics.MaxFrameTime < c.Physics.StepTime, "physics.max_frame_time must be at least step_time")
	check(c.History.MaxStates < 1, "history.max_states must be at least 1")
	check(c.History.CaptureInterval <= 0, "history.capture_interval must be positive")
	check(c.History.StabilizationTime < 0, "history.stabilization_time must not be negative")
	check(c.Prediction.Seconds <= 0, "prediction.seconds must be positive")
	check(c.Prediction.Stride < 1, "prediction.stride must be at least 1")
	if _, err := prediction.ParseQuality(c.Prediction.Quality); err != nil {
		problems = append(problems, "prediction."+err.Error())
	}
	check(c.Collision.MediumThreshold < 0, "collision.medium_threshold must not be negative")
	check(c.Collision.LargeThreshold < c.Collision.MediumThreshold, "collision.large_threshold must be at least medium_threshold")
	check(c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1, "audio.master_volume must be within [0, 1]")
	check(c.Audio.SampleRate <= 0, "audio.sample_rate must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Gravity returns the integrator constants
func (c *Config) Gravity() physics.Gravity {
	g := physics.DefaultGravity()
	g.G = c.Physics.G
	g.MinDistance = c.Physics.MinDistance
	return g
}

// SimulationConfig returns the registry clock settings
func (c *Config) SimulationConfig() simulation.Config {
	return simulation.Config{
		Gravity:      c.Gravity(),
		StepTime:     c.Physics.StepTime,
		MaxFrameTime: c.Physics.MaxFrameTime,
	}
}

// BufferConfig returns the state buffer settings
func (c *Config) BufferConfig() history.Config {
	h := history.DefaultConfig()
	h.MaxStates = c.History.MaxStates
	h.CaptureInterval = c.History.CaptureInterval
	h.StabilizationTime = c.History.StabilizationTime
	return h
}

// WorkerConfig returns worker settings; quality was checked by Validate
// High quality keeps the step count derived from Seconds; medium and low override it
func (c *Config) WorkerConfig() (prediction.Config, prediction.Quality) {
	p := prediction.DefaultConfig()
	p.Gravity = c.Gravity()
	p.StepTime = c.Physics.StepTime
	p.Seconds = c.Prediction.Seconds
	p.Stride = c.Prediction.Stride
	q, _ := prediction.ParseQuality(c.Prediction.Quality)
	return p, q
}

// CollisionThresholds returns the intensity buckets
func (c *Config) CollisionThresholds() collision.Thresholds {
	return collision.Thresholds{
		Medium: c.Collision.MediumThreshold,
		Large:  c.Collision.LargeThreshold,
	}
}

// SoundConfig returns sound manager settings
func (c *Config) SoundConfig() *audio.Config {
	a := audio.DefaultConfig()
	a.Enabled = c.Audio.Enabled
	a.MasterVolume = c.Audio.MasterVolume
	a.SampleRate = c.Audio.SampleRate
	return a
}
