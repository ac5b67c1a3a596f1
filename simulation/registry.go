package simulation

import (
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/history"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/physics"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// Config holds the clock and integrator tuning
type Config struct {
	Gravity      physics.Gravity
	StepTime     float64
	MaxFrameTime float64
}

// DefaultConfig returns the parameter package defaults
func DefaultConfig() Config {
	return Config{
		Gravity:      physics.DefaultGravity(),
		StepTime:     parameter.StepTime,
		MaxFrameTime: parameter.MaxFrameTime,
	}
}

// Registry owns the live bodies and drives the fixed-step clock
// Structural changes resynchronize the history buffer so the delayed view never shows ghosts
// Single-threaded: every method must be called from the simulation goroutine
type Registry struct {
	cfg     Config
	world   physics.World
	history *history.Buffer

	bodies []physics.Body
	colors map[core.BodyID]core.RGB

	accumulator float64
	paused      bool
	resyncing   bool

	statSteps   *atomic.Int64
	statBodies  *atomic.Int64
	statResyncs *atomic.Int64
}

// NewRegistry takes ownership of world; buf receives captures and resyncs
func NewRegistry(cfg Config, world physics.World, buf *history.Buffer, reg *status.Registry) *Registry {
	reg = status.OrNew(reg)
	return &Registry{
		cfg:         cfg,
		world:       world,
		history:     buf,
		colors:      make(map[core.BodyID]core.RGB),
		statSteps:   reg.Counter(status.SimSteps),
		statBodies:  reg.Counter(status.SimBodies),
		statResyncs: reg.Counter(status.SimResyncs),
	}
}

// AddBody places a body with mass π·r² and rebuilds history to include it
// Radius must be positive; the caller validates geometry
func (r *Registry) AddBody(x, y, radius float64, velocity vmath.Vec2, color core.RGB) core.BodyID {
	body := core.NewBody(core.NewBodyID(), vmath.V2(x, y), velocity, radius, 0, color)

	oldest, ok := r.history.Oldest()
	if !ok {
		r.create(body)
		r.history.Capture(r)
		r.history.BodyAdded()
		return body.ID
	}

	r.resync(func() {
		r.resetTo(oldest)
		r.history.Clear()
		r.create(body)
	})
	r.history.BodyAdded()
	return body.ID
}

// RemoveBody destroys the body and rebuilds history from the remaining live state
// Unknown ids are a no-op and return false
func (r *Registry) RemoveBody(id core.BodyID) bool {
	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}

	r.resync(func() {
		r.destroyAt(idx)
		r.history.Clear()
	})
	r.history.BodyRemoved()
	return true
}

// resync applies a structural mutation then fast-forwards a full history depth
// Prior pause state is restored afterwards
func (r *Registry) resync(mutate func()) {
	start := time.Now()
	wasPaused := r.paused
	r.paused = true
	r.resyncing = true

	mutate()
	r.fastForward()

	r.resyncing = false
	r.paused = wasPaused
	r.accumulator = 0
	r.statResyncs.Add(1)

	// O(depth * n²) burst; surfaced in the log when it overruns a frame
	if elapsed := time.Since(start); elapsed > parameter.FrameUpdateInterval {
		log.Printf("simulation: resync of %d bodies took %v", len(r.bodies), elapsed)
	}
}

// fastForward captures the current state, then advances and captures until the buffer is full
func (r *Registry) fastForward() {
	substeps := int(math.Round(r.history.CaptureInterval() / r.cfg.StepTime))
	if substeps < 1 {
		substeps = 1
	}

	r.history.Capture(r)
	for i := 1; i < r.history.Cap(); i++ {
		for s := 0; s < substeps; s++ {
			r.step()
		}
		r.history.Capture(r)
	}
}

// resetTo replaces every live body with the bodies described by s, keeping identities
func (r *Registry) resetTo(s core.Snapshot) {
	for _, b := range r.bodies {
		r.world.DestroyBody(b)
	}
	r.bodies = r.bodies[:0]
	clear(r.colors)

	for i := 0; i < s.Len(); i++ {
		r.create(s.At(i))
	}
}

func (r *Registry) create(b core.Body) {
	r.bodies = append(r.bodies, r.world.CreateBody(physics.DefFromBody(b)))
	r.colors[b.ID] = b.Color
	r.statBodies.Store(int64(len(r.bodies)))
}

func (r *Registry) destroyAt(idx int) {
	b := r.bodies[idx]
	r.world.DestroyBody(b)
	delete(r.colors, b.Tag())
	r.bodies = append(r.bodies[:idx], r.bodies[idx+1:]...)
	r.statBodies.Store(int64(len(r.bodies)))
}

func (r *Registry) indexOf(id core.BodyID) int {
	for i, b := range r.bodies {
		if b.Tag() == id {
			return i
		}
	}
	return -1
}

func (r *Registry) step() {
	physics.Advance(r.world, r.bodies, r.cfg.Gravity, r.cfg.StepTime)
	r.statSteps.Add(1)
}

// Update advances the clock by delta seconds in fixed steps
// Accumulated time is clamped to MaxFrameTime; leftover carries into the next frame
func (r *Registry) Update(delta float64) {
	if r.paused || r.resyncing {
		return
	}

	r.accumulator += delta
	if r.cfg.MaxFrameTime > 0 && r.accumulator > r.cfg.MaxFrameTime {
		r.accumulator = r.cfg.MaxFrameTime
	}

	for r.accumulator >= r.cfg.StepTime {
		r.step()
		r.accumulator -= r.cfg.StepTime
	}
}

func (r *Registry) Pause()  { r.paused = true }
func (r *Registry) Resume() { r.paused = false }

// TogglePause flips the pause state and returns the new value
func (r *Registry) TogglePause() bool {
	r.paused = !r.paused
	return r.paused
}

func (r *Registry) IsPaused() bool { return r.paused }

// Snapshot copies the live state; implements history.Source
func (r *Registry) Snapshot() core.Snapshot {
	bodies := make([]core.Body, len(r.bodies))
	for i, b := range r.bodies {
		bodies[i] = r.valueOf(b)
	}
	return core.NewSnapshot(bodies)
}

func (r *Registry) valueOf(b physics.Body) core.Body {
	return core.Body{
		ID:       b.Tag(),
		Position: b.Position(),
		Velocity: b.Velocity(),
		Radius:   b.Radius(),
		Mass:     b.Mass(),
		Color:    r.colors[b.Tag()],
	}
}

// Body returns the live state of one body
func (r *Registry) Body(id core.BodyID) (core.Body, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return core.Body{}, false
	}
	return r.valueOf(r.bodies[idx]), true
}

func (r *Registry) Len() int { return len(r.bodies) }

// CloneWorld returns an independent copy of the engine world for the prediction worker
// The clone carries every body's identity as its tag
func (r *Registry) CloneWorld() physics.World {
	return r.world.Clone()
}

// OrbitVelocity returns the circular-orbit insertion velocity at a point around primary
func (r *Registry) OrbitVelocity(primary core.Body, at vmath.Vec2, clockwise bool) vmath.Vec2 {
	return vmath.OrbitalInsert(primary.Position, primary.Velocity, at, r.cfg.Gravity.G*primary.Mass, clockwise)
}

// Dispose destroys the engine world; the registry must not be used afterwards
func (r *Registry) Dispose() {
	r.bodies = nil
	r.world.Dispose()
	r.statBodies.Store(0)
}
