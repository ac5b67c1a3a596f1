package input

import (
	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/vmath"
)

// PlacementState tracks the body placement sequence
type PlacementState uint8

const (
	PlacementInactive PlacementState = iota // Not placing
	PlacementPosition                       // Awaiting center click
	PlacementRadius                         // Center fixed, awaiting radius click
	PlacementVelocity                       // Radius fixed, awaiting launch vector click
)

func (s PlacementState) String() string {
	switch s {
	case PlacementPosition:
		return "position"
	case PlacementRadius:
		return "radius"
	case PlacementVelocity:
		return "velocity"
	default:
		return "inactive"
	}
}

// Request is a completed, validated placement
type Request struct {
	Position vmath.Vec2
	Radius   float64
	Velocity vmath.Vec2
	Color    core.RGB
	// Orbit is set when the launch stage was skipped; the caller supplies the velocity
	Orbit bool
}

// Preview describes the in-progress placement for drawing
type Preview struct {
	State    PlacementState
	Position vmath.Vec2
	Radius   float64
	Velocity vmath.Vec2
	Color    core.RGB
}

// Placement turns successive world-space clicks into body requests
// Radius is clamped to [MinRadius, MaxRadius] so emitted requests always satisfy the registry's contract
type Placement struct {
	state  PlacementState
	origin vmath.Vec2
	radius float64

	MinRadius     float64
	MaxRadius     float64
	VelocityScale float64

	// OrbitAssist skips the launch stage
	OrbitAssist bool

	colorIndex int
}

// NewPlacement creates an inactive placement machine with default limits
func NewPlacement() *Placement {
	return &Placement{
		MinRadius:     parameter.MinBodyRadius,
		MaxRadius:     parameter.MaxBodyRadius,
		VelocityScale: parameter.PlacementVelocityScale,
	}
}

func (p *Placement) State() PlacementState { return p.state }

// Active reports whether a placement is in progress
func (p *Placement) Active() bool { return p.state != PlacementInactive }

// Begin arms the machine for a new center click
func (p *Placement) Begin() {
	p.state = PlacementPosition
	p.radius = 0
}

// Cancel abandons the placement
func (p *Placement) Cancel() {
	p.state = PlacementInactive
	p.radius = 0
}

// Color returns the color the next body will get
func (p *Placement) Color() core.RGB {
	return core.PaletteColor(p.colorIndex)
}

// NextColor cycles the palette
func (p *Placement) NextColor() {
	p.colorIndex++
}

// Advance consumes one click at world point at
// Returns a request when the click completes a body; the machine then re-arms for the next one
func (p *Placement) Advance(at vmath.Vec2) (Request, bool) {
	switch p.state {
	case PlacementInactive, PlacementPosition:
		p.origin = at
		p.state = PlacementRadius
		return Request{}, false

	case PlacementRadius:
		p.radius = p.radiusTo(at)
		if p.OrbitAssist {
			return p.complete(vmath.Vec2{}, true), true
		}
		p.state = PlacementVelocity
		return Request{}, false

	case PlacementVelocity:
		return p.complete(p.velocityTo(at), false), true
	}
	return Request{}, false
}

func (p *Placement) complete(vel vmath.Vec2, orbit bool) Request {
	req := Request{
		Position: p.origin,
		Radius:   p.radius,
		Velocity: vel,
		Color:    p.Color(),
		Orbit:    orbit,
	}
	p.colorIndex++
	p.state = PlacementPosition
	p.radius = 0
	return req
}

func (p *Placement) radiusTo(at vmath.Vec2) float64 {
	r := vmath.V2Dist(p.origin, at)
	return min(max(r, p.MinRadius), p.MaxRadius)
}

func (p *Placement) velocityTo(at vmath.Vec2) vmath.Vec2 {
	return vmath.V2Scale(vmath.V2Sub(at, p.origin), p.VelocityScale)
}

// Preview returns what would be placed if the next click landed at cursor
func (p *Placement) Preview(cursor vmath.Vec2) Preview {
	pv := Preview{State: p.state, Color: p.Color()}
	switch p.state {
	case PlacementPosition:
		pv.Position = cursor
		pv.Radius = p.MinRadius
	case PlacementRadius:
		pv.Position = p.origin
		pv.Radius = p.radiusTo(cursor)
	case PlacementVelocity:
		pv.Position = p.origin
		pv.Radius = p.radius
		pv.Velocity = p.velocityTo(cursor)
	}
	return pv
}
