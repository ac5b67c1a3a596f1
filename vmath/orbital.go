package vmath

import "math"

// OrbitalSpeed returns tangential speed for a circular orbit
// gm: G times primary mass
// radius: orbital radius
func OrbitalSpeed(gm, radius float64) float64 {
	if gm <= 0 || radius <= 0 {
		return 0
	}
	// v = sqrt(GM / r)
	return math.Sqrt(gm / radius)
}

// OrbitalInsert returns velocity vector for circular orbit insertion around center
// The primary's own velocity is added so the orbit is relative to a moving primary
func OrbitalInsert(center, centerVel, pos Vec2, gm float64, clockwise bool) Vec2 {
	d := V2Sub(pos, center)
	radius := V2Mag(d)
	if radius == 0 {
		return centerVel
	}

	speed := OrbitalSpeed(gm, radius)

	// Tangent is perpendicular to radius
	t := V2Normalize(V2Perp(d))
	if clockwise {
		t = V2Neg(t)
	}

	return V2Add(centerVel, V2Scale(t, speed))
}
