package prediction

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/physics"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// ErrAlreadyStarted is returned by a second Start call
var ErrAlreadyStarted = errors.New("prediction worker already started")

// Paths maps body identity to predicted positions, nearest first
// Published maps are never mutated; treat as read-only
type Paths map[core.BodyID][]vmath.Vec2

// Config holds worker tuning
type Config struct {
	Gravity     physics.Gravity
	StepTime    float64
	Steps       int // Forward steps per cycle; 0 derives from Seconds
	Seconds     float64
	Stride      int // Record every Nth step
	PollTimeout time.Duration
}

// DefaultConfig returns the parameter package defaults
func DefaultConfig() Config {
	return Config{
		Gravity:     physics.DefaultGravity(),
		StepTime:    parameter.StepTime,
		Seconds:     parameter.PredictionSeconds,
		Stride:      parameter.PredictionRecordStride,
		PollTimeout: parameter.PredictionPollTimeout,
	}
}

// Worker simulates cloned worlds forward on its own goroutine
// Input is a single-slot handoff: a newer clone replaces an unconsumed one
// Results are published by atomic pointer swap; readers never block
type Worker struct {
	cfg     Config
	horizon int // High-tier step count, derived from Seconds

	input chan physics.World
	stop  chan struct{}
	done  chan struct{}

	started  atomic.Bool
	stopOnce sync.Once

	enabled atomic.Bool
	steps   atomic.Int64
	quality atomic.Int32

	published atomic.Pointer[Paths]

	statCycles  *atomic.Int64
	statDropped *atomic.Int64
	statBodies  *atomic.Int64
	statLastMs  *status.Gauge
	statQuality *status.Label
}

// NewWorker creates a stopped, disabled worker
func NewWorker(cfg Config, reg *status.Registry) *Worker {
	if cfg.Stride < 1 {
		cfg.Stride = 1
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = parameter.PredictionPollTimeout
	}
	reg = status.OrNew(reg)

	w := &Worker{
		cfg:         cfg,
		input:       make(chan physics.World, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		statCycles:  reg.Counter(status.PredictionCycles),
		statDropped: reg.Counter(status.PredictionDropped),
		statBodies:  reg.Counter(status.PredictionBodies),
		statLastMs:  reg.Gauge(status.PredictionLastMs),
		statQuality: reg.Label(status.PredictionQuality),
	}

	steps := cfg.Steps
	if steps <= 0 && cfg.StepTime > 0 {
		steps = int(math.Round(cfg.Seconds / cfg.StepTime))
	}
	if steps <= 0 {
		steps = QualityHigh.Steps()
	}
	w.horizon = steps
	w.steps.Store(int64(steps))
	w.quality.Store(int32(QualityHigh))
	w.statQuality.Set(QualityHigh.String())
	return w
}

// Start launches the worker goroutine
func (w *Worker) Start() error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	core.Go(w.run)
	log.Printf("prediction: worker started, %d steps per cycle", w.Steps())
	return nil
}

// Stop signals shutdown and waits up to timeout for the goroutine to exit
// Pending clones are disposed and predictions cleared either way
func (w *Worker) Stop(timeout time.Duration) error {
	w.stopOnce.Do(func() { close(w.stop) })
	defer w.Clear()

	if !w.started.Load() {
		w.drain()
		return nil
	}

	select {
	case <-w.done:
		w.drain()
		log.Printf("prediction: worker stopped")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("prediction worker did not exit within %v", timeout)
	}
}

// Offer hands a cloned world to the worker, replacing any unconsumed clone
// Ownership of world passes to the worker; never blocks
func (w *Worker) Offer(world physics.World) {
	select {
	case <-w.stop:
		world.Dispose()
		return
	default:
	}

	select {
	case stale := <-w.input:
		stale.Dispose()
		w.statDropped.Add(1)
	default:
	}

	select {
	case w.input <- world:
	default:
		world.Dispose()
		w.statDropped.Add(1)
	}
}

func (w *Worker) drain() {
	for {
		select {
		case world := <-w.input:
			world.Dispose()
		default:
			return
		}
	}
}

// SetEnabled toggles publishing; disabling clears predictions immediately
func (w *Worker) SetEnabled(enabled bool) {
	w.enabled.Store(enabled)
	if !enabled {
		w.Clear()
	}
}

func (w *Worker) Enabled() bool { return w.enabled.Load() }

// SetQuality switches the horizon to the tier's step count from the next cycle
// High restores the configured horizon rather than the fixed tier count
func (w *Worker) SetQuality(q Quality) {
	steps := q.Steps()
	if q == QualityHigh {
		steps = w.horizon
	}
	w.quality.Store(int32(q))
	w.steps.Store(int64(steps))
	w.statQuality.Set(q.String())
}

func (w *Worker) Quality() Quality { return Quality(w.quality.Load()) }

// Steps returns the current per-cycle step count
func (w *Worker) Steps() int { return int(w.steps.Load()) }

// Predictions returns the latest published paths, empty when none
func (w *Worker) Predictions() Paths {
	if p := w.published.Load(); p != nil {
		return *p
	}
	return Paths{}
}

// Clear drops published predictions
func (w *Worker) Clear() {
	w.published.Store(nil)
	w.statBodies.Store(0)
}

func (w *Worker) run() {
	defer close(w.done)

	timer := time.NewTimer(w.cfg.PollTimeout)
	defer timer.Stop()

	for {
		timer.Reset(w.cfg.PollTimeout)

		select {
		case <-w.stop:
			return

		case world := <-w.input:
			w.cycle(world)

		case <-timer.C:
			// Idle: a disable racing a publish is healed here
			if !w.enabled.Load() && w.published.Load() != nil {
				w.Clear()
			}
		}
	}
}

// cycle simulates one clone, publishes the result and disposes the clone
func (w *Worker) cycle(world physics.World) {
	defer world.Dispose()

	if !w.enabled.Load() {
		return
	}

	start := time.Now()
	paths, ok := w.simulate(world)
	if !ok {
		return
	}

	w.published.Store(&paths)
	// Re-check after the swap so a concurrent disable always wins
	if !w.enabled.Load() {
		w.Clear()
		return
	}

	w.statCycles.Add(1)
	w.statBodies.Store(int64(len(paths)))
	w.statLastMs.Set(float64(time.Since(start).Microseconds()) / 1000)
}

// simulate advances world in isolation, recording positions per body tag
// Bodies without a resolvable tag are omitted; returns false when stopped mid-run
func (w *Worker) simulate(world physics.World) (Paths, bool) {
	bodies := world.Bodies()
	steps := w.Steps()
	stride := w.cfg.Stride

	paths := make(Paths, len(bodies))
	for _, b := range bodies {
		if b.Tag() == 0 {
			continue
		}
		paths[b.Tag()] = make([]vmath.Vec2, 0, steps/stride+1)
	}

	for i := 1; i <= steps; i++ {
		if i&31 == 0 {
			select {
			case <-w.stop:
				return nil, false
			default:
			}
		}

		physics.Advance(world, bodies, w.cfg.Gravity, w.cfg.StepTime)

		if i%stride != 0 {
			continue
		}
		for _, b := range bodies {
			if path, ok := paths[b.Tag()]; ok {
				paths[b.Tag()] = append(path, b.Position())
			}
		}
	}
	return paths, true
}
