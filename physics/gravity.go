package physics

import (
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/vmath"
)

// Massive is the minimal surface the integrator needs from a body
type Massive interface {
	Position() vmath.Vec2
	Mass() float64
	ApplyForce(f vmath.Vec2)
}

// Gravity holds the tunable constants of the pairwise attraction law
type Gravity struct {
	G           float64 // Force scale
	MinDistance float64 // Denominator clamp
	Epsilon     float64 // Coincident pairs below this distance are skipped
}

// DefaultGravity returns the empirically tuned constants
func DefaultGravity() Gravity {
	return Gravity{
		G:           parameter.GravityConstant,
		MinDistance: parameter.GravityMinDistance,
		Epsilon:     parameter.GravityEpsilon,
	}
}

// PairForce returns the force exerted on a by b, zero when the pair is skipped
// F = G·mA·mB / max(d, MinDistance)², directed from a toward b
func (g Gravity) PairForce(posA, posB vmath.Vec2, massA, massB float64) vmath.Vec2 {
	delta := vmath.V2Sub(posB, posA)
	dist := vmath.V2Mag(delta)
	if dist < g.Epsilon {
		return vmath.Vec2{}
	}

	effective := dist
	if effective < g.MinDistance {
		effective = g.MinDistance
	}

	magnitude := g.G * massA * massB / (effective * effective)
	return vmath.V2Scale(delta, magnitude/dist)
}

// ApplyGravity applies one step of mutual attraction to every unordered pair
// Forces are equal and opposite; acceleration is left to the engine
func ApplyGravity[T Massive](bodies []T, g Gravity) {
	n := len(bodies)
	if n < 2 {
		return
	}

	// Cache reads; engine getters may convert units on every call
	pos := make([]vmath.Vec2, n)
	mass := make([]float64, n)
	for i, b := range bodies {
		pos[i] = b.Position()
		mass[i] = b.Mass()
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f := g.PairForce(pos[i], pos[j], mass[i], mass[j])
			if vmath.V2IsZero(f) {
				continue
			}
			bodies[i].ApplyForce(f)
			bodies[j].ApplyForce(vmath.V2Neg(f))
		}
	}
}
