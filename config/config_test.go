package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prestontjones/GravitySim/prediction"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if cfg.Physics.G != 2000 || cfg.Physics.MinDistance != 15 {
		t.Errorf("Unexpected gravity defaults %+v", cfg.Physics)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	yaml := `
physics:
  g: 1500
history:
  max_states: 120
prediction:
  quality: medium
audio:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GRAVITY_SIM_G", "2500")
	t.Setenv("GRAVITY_SIM_MASTER_VOLUME", "150")
	t.Setenv("GRAVITY_SIM_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Physics.G != 2500 {
		t.Errorf("G = %f, env should override yaml", cfg.Physics.G)
	}
	if cfg.History.MaxStates != 120 {
		t.Errorf("MaxStates = %d, want yaml value 120", cfg.History.MaxStates)
	}
	if cfg.Physics.MinDistance != 15 {
		t.Errorf("MinDistance = %f, unset keys should keep defaults", cfg.Physics.MinDistance)
	}
	if cfg.Audio.Enabled {
		t.Error("Audio should be disabled by yaml")
	}
	if cfg.Audio.MasterVolume != 1 {
		t.Errorf("MasterVolume = %f, want clamp to 1", cfg.Audio.MasterVolume)
	}
	if !cfg.Logging.Debug {
		t.Error("Debug should be enabled by env")
	}

	_, q := cfg.WorkerConfig()
	if q != prediction.QualityMedium {
		t.Errorf("Quality = %v, want medium", q)
	}
	if cfg.BufferConfig().MaxStates != 120 {
		t.Error("BufferConfig should carry max_states")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Unknown key should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Missing file should fail")
	}
}

func TestEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Decode(strings.NewReader("")); err != nil {
		t.Fatalf("Empty document: %v", err)
	}
	if cfg.History.MaxStates != Default().History.MaxStates {
		t.Error("Empty document changed defaults")
	}
}

func TestApplyEnvMalformed(t *testing.T) {
	env := map[string]string{"GRAVITY_SIM_MAX_STATES": "lots"}
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero G", func(c *Config) { c.Physics.G = 0 }},
		{"zero step", func(c *Config) { c.Physics.StepTime = 0 }},
		{"empty history", func(c *Config) { c.History.MaxStates = 0 }},
		{"zero capture interval", func(c *Config) { c.History.CaptureInterval = 0 }},
		{"unknown quality", func(c *Config) { c.Prediction.Quality = "ultra" }},
		{"zero stride", func(c *Config) { c.Prediction.Stride = 0 }},
		{"thresholds out of order", func(c *Config) { c.Collision.LargeThreshold = 10 }},
		{"volume above one", func(c *Config) { c.Audio.MasterVolume = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestPredictionSecondsReachesWorker(t *testing.T) {
	tests := []struct {
		quality string
		want    int
	}{
		{"high", 60},
		{"medium", 150},
		{"low", 75},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			cfg := Default()
			cfg.Prediction.Seconds = 1
			cfg.Prediction.Quality = tt.quality

			wc, q := cfg.WorkerConfig()
			w := prediction.NewWorker(wc, nil)
			w.SetQuality(q)

			if w.Steps() != tt.want {
				t.Errorf("Steps = %d, want %d", w.Steps(), tt.want)
			}
		})
	}
}
