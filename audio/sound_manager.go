package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/prestontjones/GravitySim/parameter"
)

// ErrNotInitialized is returned by Play when the speaker is not running
var ErrNotInitialized = errors.New("audio not initialized")

// SoundManager plays collision sounds through a shared beep mixer
// Every method is safe without initialization; playback calls become no-ops
type SoundManager struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	initialized bool
	muted       bool

	lastPlayed map[string]time.Time
	now        func() time.Time
}

// NewSoundManager creates a manager; nil cfg uses defaults
func NewSoundManager(cfg *Config) *SoundManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SoundManager{
		cfg:        cfg,
		mixer:      &beep.Mixer{},
		lastPlayed: make(map[string]time.Time),
		now:        time.Now,
	}
}

// Initialize opens the speaker; a second call is a no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !sm.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	log.Printf("audio: speaker running at %d Hz", sm.cfg.SampleRate)
	return nil
}

// Cleanup silences the mixer
// beep has no speaker teardown that survives re-init, so the device stays open
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	sm.initialized = false
}

// IsInitialized reports whether the speaker is running
func (sm *SoundManager) IsInitialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// PlayCollisionSound implements the collision sink, dropping errors
func (sm *SoundManager) PlayCollisionSound(size string) {
	_ = sm.Play(size)
}

// Play queues the effect for size
// Repeats of one size within MinCollisionSoundGap are dropped to avoid clipping on pile-ups
func (sm *SoundManager) Play(size string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return ErrNotInitialized
	}
	if sm.muted {
		return nil
	}

	now := sm.now()
	if last, ok := sm.lastPlayed[size]; ok && now.Sub(last) < parameter.MinCollisionSoundGap {
		return nil
	}

	streamer := CollisionEffect(size, sm.cfg)
	if streamer == nil {
		return fmt.Errorf("unknown collision size %q", size)
	}
	sm.lastPlayed[size] = now

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
	return nil
}

// SetVolume sets master volume, clamped to [0, 1]; applies to sounds started afterwards
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cfg.MasterVolume = min(max(v, 0), 1)
}

func (sm *SoundManager) Volume() float64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.cfg.MasterVolume
}

func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
}

func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// NullSink discards collision sounds, for headless runs
type NullSink struct{}

func (NullSink) PlayCollisionSound(string) {}
