package parameter

// Gravity tuning, chosen for visually stable orbits rather than realism
const (
	// GravityConstant scales every pairwise attraction
	GravityConstant = 2000.0

	// GravityMinDistance clamps the denominator so close passes stay bounded
	GravityMinDistance = 15.0

	// GravityEpsilon skips coincident pairs entirely
	GravityEpsilon = 0.01
)

// Fixed-step clock
const (
	// StepTime is the fixed simulation step (seconds)
	StepTime = 1.0 / 60.0

	// MaxFrameTime caps accumulated time per Update so a stalled frame cannot trigger an unbounded catch-up burst
	MaxFrameTime = 0.25

	// VelocityIterations and PositionIterations are the engine solver passes per step
	VelocityIterations = 6
	PositionIterations = 2
)

// Body placement limits
const (
	MinBodyRadius = 2.0
	MaxBodyRadius = 400.0

	// PlacementVelocityScale converts drag distance into launch velocity
	PlacementVelocityScale = 1.0
)

// EngineUnitsPerMeter maps world units onto the rigid-body engine's meters
// The engine caps per-step translation at 2 m, so this sets the top speed to 2*60*EngineUnitsPerMeter units/s
const EngineUnitsPerMeter = 10.0
