package physics

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/vmath"
)

// Box2DWorld adapts a zero-gravity Box2D world to the World interface
// World units are divided by unitsPerMeter on the way in and multiplied on the way out
type Box2DWorld struct {
	world  *box2d.B2World
	bodies []*box2dBody

	unitsPerMeter      float64
	velocityIterations int
	positionIterations int

	// Sensor fixtures give the engine circle shapes; clones skip them and set mass directly
	withFixtures bool
	disposed     bool
}

// box2dBody pairs an engine body with the simulation-side data Box2D does not keep
type box2dBody struct {
	b      *box2d.B2Body
	tag    core.BodyID
	radius float64
	mass   float64
	scale  float64
}

// NewBox2DWorld creates an empty world using the default unit scale
func NewBox2DWorld() *Box2DWorld {
	return newBox2DWorld(parameter.EngineUnitsPerMeter, true)
}

func newBox2DWorld(unitsPerMeter float64, withFixtures bool) *Box2DWorld {
	w := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	w.SetAllowSleeping(false)
	return &Box2DWorld{
		world:              &w,
		unitsPerMeter:      unitsPerMeter,
		velocityIterations: parameter.VelocityIterations,
		positionIterations: parameter.PositionIterations,
		withFixtures:       withFixtures,
	}
}

func (w *Box2DWorld) toEngine(v vmath.Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X/w.unitsPerMeter, v.Y/w.unitsPerMeter)
}

// CreateBody adds a dynamic body whose engine mass equals def.Mass
func (w *Box2DWorld) CreateBody(def BodyDef) Body {
	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position = w.toEngine(def.Position)
	bd.LinearVelocity = w.toEngine(def.Velocity)
	bd.AllowSleep = false
	bd.Awake = true
	bd.FixedRotation = true
	bd.UserData = def.Tag

	eb := w.world.CreateBody(&bd)

	if w.withFixtures {
		r := def.Radius / w.unitsPerMeter
		shape := box2d.MakeB2CircleShape()
		shape.M_radius = r

		fd := box2d.MakeB2FixtureDef()
		fd.Shape = &shape
		fd.Density = def.Mass / (math.Pi * r * r)
		fd.Friction = 0
		fd.Restitution = 0
		// Overlaps are reported by the delayed detector; bodies never bounce
		fd.IsSensor = true
		eb.CreateFixtureFromDef(&fd)
	} else {
		eb.SetMassData(&box2d.B2MassData{Mass: def.Mass})
	}

	body := &box2dBody{
		b:      eb,
		tag:    def.Tag,
		radius: def.Radius,
		mass:   def.Mass,
		scale:  w.unitsPerMeter,
	}
	w.bodies = append(w.bodies, body)
	return body
}

// DestroyBody removes b from the engine; unknown or foreign bodies are ignored
func (w *Box2DWorld) DestroyBody(b Body) {
	target, ok := b.(*box2dBody)
	if !ok {
		return
	}
	for i, body := range w.bodies {
		if body == target {
			w.world.DestroyBody(body.b)
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *Box2DWorld) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b
	}
	return out
}

// Len returns the live body count
func (w *Box2DWorld) Len() int {
	return len(w.bodies)
}

func (w *Box2DWorld) Step(dt float64) {
	w.world.Step(dt, w.velocityIterations, w.positionIterations)
}

// Clone copies every body into a fresh fixture-less world
// Cloned bodies keep tag, position, velocity, radius and mass
func (w *Box2DWorld) Clone() World {
	clone := newBox2DWorld(w.unitsPerMeter, false)
	for _, b := range w.bodies {
		clone.CreateBody(BodyDef{
			Tag:      b.tag,
			Position: b.Position(),
			Velocity: b.Velocity(),
			Radius:   b.radius,
			Mass:     b.mass,
		})
	}
	return clone
}

func (w *Box2DWorld) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	for _, b := range w.bodies {
		w.world.DestroyBody(b.b)
	}
	w.bodies = nil
	w.world.Destroy()
}

func (b *box2dBody) Tag() core.BodyID { return b.tag }
func (b *box2dBody) Radius() float64  { return b.radius }
func (b *box2dBody) Mass() float64    { return b.mass }

func (b *box2dBody) Position() vmath.Vec2 {
	p := b.b.GetPosition()
	return vmath.Vec2{X: p.X * b.scale, Y: p.Y * b.scale}
}

func (b *box2dBody) Velocity() vmath.Vec2 {
	v := b.b.GetLinearVelocity()
	return vmath.Vec2{X: v.X * b.scale, Y: v.Y * b.scale}
}

// ApplyForce converts a world-unit force so the resulting acceleration is F/m in world units
func (b *box2dBody) ApplyForce(f vmath.Vec2) {
	b.b.ApplyForceToCenter(box2d.MakeB2Vec2(f.X/b.scale, f.Y/b.scale), true)
}
