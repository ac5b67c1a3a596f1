package audio

import (
	"github.com/prestontjones/GravitySim/parameter"
)

// Collision sound sizes, matching the detector's classification strings
const (
	SoundSmall  = "small"
	SoundMedium = "medium"
	SoundLarge  = "large"
)

// Config holds audio settings resolved by the config package
type Config struct {
	Enabled       bool
	MasterVolume  float64
	SampleRate    int
	EffectVolumes map[string]float64
}

// DefaultConfig returns audio defaults with every effect at full volume
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: parameter.AudioMasterVolume,
		SampleRate:   parameter.AudioSampleRate,
		EffectVolumes: map[string]float64{
			SoundSmall:  0.6,
			SoundMedium: 0.8,
			SoundLarge:  1.0,
		},
	}
}

// effectVolume returns the per-effect volume, 1 when unset
func (c *Config) effectVolume(size string) float64 {
	if v, ok := c.EffectVolumes[size]; ok {
		return v
	}
	return 1.0
}
