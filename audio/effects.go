package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/prestontjones/GravitySim/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates a raw wave for a fixed duration
type oscillator struct {
	freq     float64
	sweep    float64 // Frequency multiplier reached at the end of the duration
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a constant-pitch oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, 1, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to freq*sweep
func NewSweep(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq * (1 + (o.sweep-1)*progress)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain; math.Log2(0) is -Inf, so zero maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateSmallCollision is a short high ping
func CreateSmallCollision(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.CollisionSmallDuration

	ping := NewEnvelope(NewOscillator(parameter.CollisionSmallFreq, d, WaveSine, rate), d,
		parameter.CollisionSmallAttack, parameter.CollisionSmallRelease, rate)

	return newVolume(ping, cfg.effectVolume(SoundSmall)*cfg.MasterVolume)
}

// CreateMediumCollision is a mid thump with an octave overtone
func CreateMediumCollision(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.CollisionMediumDuration

	fund := NewEnvelope(NewSweep(parameter.CollisionMediumFreq, 0.6, d, WaveSine, rate), d,
		parameter.CollisionMediumAttack, parameter.CollisionMediumRelease, rate)
	over := NewEnvelope(NewOscillator(parameter.CollisionMediumFreq*2, d, WaveSine, rate), d,
		parameter.CollisionMediumAttack, parameter.CollisionMediumRelease/2, rate)

	mixed := beep.Mix(
		newVolume(fund, 0.75),
		newVolume(over, 0.25),
	)
	return newVolume(mixed, cfg.effectVolume(SoundMedium)*cfg.MasterVolume)
}

// CreateLargeCollision is a falling low rumble under filtered noise
func CreateLargeCollision(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.CollisionLargeDuration

	rumble := NewEnvelope(NewSweep(parameter.CollisionLargeFreq, 0.5, d, WaveSquare, rate), d,
		parameter.CollisionLargeAttack, parameter.CollisionLargeRelease, rate)
	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d,
		parameter.CollisionLargeAttack, parameter.CollisionLargeRelease/2, rate)

	mixed := beep.Mix(
		newVolume(rumble, 0.6),
		newVolume(noise, 0.3),
	)
	return newVolume(mixed, cfg.effectVolume(SoundLarge)*cfg.MasterVolume)
}

// CollisionEffect returns the streamer for a size string, nil when unknown
func CollisionEffect(size string, cfg *Config) beep.Streamer {
	switch size {
	case SoundSmall:
		return CreateSmallCollision(cfg)
	case SoundMedium:
		return CreateMediumCollision(cfg)
	case SoundLarge:
		return CreateLargeCollision(cfg)
	default:
		return nil
	}
}
