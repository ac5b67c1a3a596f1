package vmath

import (
	"math"
)

// Vec2 is a float64 2D vector in world units
// Value type: every operation returns a new vector
type Vec2 struct {
	X, Y float64
}

// V2 is a shorthand constructor
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func V2Add(a, b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func V2Sub(a, b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func V2Scale(v Vec2, s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func V2Neg(v Vec2) Vec2 {
	return Vec2{-v.X, -v.Y}
}

func V2Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func V2MagSq(v Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func V2Mag(v Vec2) float64 {
	return math.Sqrt(V2MagSq(v))
}

// V2Dist returns Euclidean distance between two points
func V2Dist(a, b Vec2) float64 {
	return V2Mag(V2Sub(b, a))
}

// V2Normalize returns unit vector, zero-safe
func V2Normalize(v Vec2) Vec2 {
	mag := V2Mag(v)
	if mag == 0 {
		return Vec2{}
	}
	inv := 1.0 / mag
	return Vec2{v.X * inv, v.Y * inv}
}

// V2Perp returns vector rotated 90° counter-clockwise
func V2Perp(v Vec2) Vec2 {
	return Vec2{-v.Y, v.X}
}

// V2IsZero reports exact zero vector
func V2IsZero(v Vec2) bool {
	return v.X == 0 && v.Y == 0
}

// V2ApproxEqual compares component-wise within tolerance
func V2ApproxEqual(a, b Vec2, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}
