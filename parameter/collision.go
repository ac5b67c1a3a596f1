package parameter

// Collision intensity buckets on massA * massB * relative speed
const (
	CollisionIntensityMedium = 1000.0
	CollisionIntensityLarge  = 5000.0
)
