package core

import (
	"math"
	"sync/atomic"

	"github.com/prestontjones/GravitySim/vmath"
)

// BodyID is an opaque, process-wide unique body identity
// Zero is reserved for "no identity"
type BodyID uint64

var lastBodyID atomic.Uint64

// NewBodyID allocates the next identity, never returns 0
func NewBodyID() BodyID {
	return BodyID(lastBodyID.Add(1))
}

// Body is a value copy of one simulated mass
// Color is carried for presentation only
type Body struct {
	ID       BodyID
	Position vmath.Vec2
	Velocity vmath.Vec2
	Radius   float64
	Mass     float64
	Color    RGB
}

// MassFromRadius returns area-proportional mass π·r²
func MassFromRadius(radius float64) float64 {
	return math.Pi * radius * radius
}

// NewBody builds a body value, deriving mass from radius when mass <= 0
// Radius must be positive; validation is the caller's responsibility
func NewBody(id BodyID, pos, vel vmath.Vec2, radius, mass float64, color RGB) Body {
	if mass <= 0 {
		mass = MassFromRadius(radius)
	}
	return Body{
		ID:       id,
		Position: pos,
		Velocity: vel,
		Radius:   radius,
		Mass:     mass,
		Color:    color,
	}
}

// Contains reports whether point lies within the body's disc
func (b Body) Contains(p vmath.Vec2) bool {
	return vmath.V2Dist(b.Position, p) <= b.Radius
}

// Overlaps reports strict overlap: center distance below sum of radii
func (b Body) Overlaps(o Body) bool {
	return vmath.V2Dist(b.Position, o.Position) < b.Radius+o.Radius
}
