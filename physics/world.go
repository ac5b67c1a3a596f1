package physics

import (
	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/vmath"
)

// Body is an engine-owned rigid body as seen by the simulation
// Tag carries the simulation identity through world clones
type Body interface {
	Massive
	Tag() core.BodyID
	Radius() float64
	Velocity() vmath.Vec2
}

// BodyDef describes a body to create; Mass must already be resolved
type BodyDef struct {
	Tag      core.BodyID
	Position vmath.Vec2
	Velocity vmath.Vec2
	Radius   float64
	Mass     float64
}

// DefFromBody converts a snapshot body into a creation definition
func DefFromBody(b core.Body) BodyDef {
	return BodyDef{
		Tag:      b.ID,
		Position: b.Position,
		Velocity: b.Velocity,
		Radius:   b.Radius,
		Mass:     b.Mass,
	}
}

// World is the rigid-body engine surface consumed by the simulation
// Not safe for concurrent use; each goroutine must own its own World
type World interface {
	CreateBody(def BodyDef) Body
	DestroyBody(b Body)
	// Bodies returns bodies in creation order; the slice is owned by the caller
	Bodies() []Body
	Step(dt float64)
	// Clone returns an independent deep copy carrying every body's tag
	Clone() World
	// Dispose releases engine resources; the world must not be used afterwards
	Dispose()
}

// Advance runs one integrator pass followed by one engine step
func Advance(w World, bodies []Body, g Gravity, dt float64) {
	ApplyGravity(bodies, g)
	w.Step(dt)
}
