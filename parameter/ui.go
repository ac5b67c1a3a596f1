package parameter

// Terminal camera
const (
	// CameraDefaultScale is world units per terminal column
	CameraDefaultScale = 10.0
	CameraMinScale     = 0.5
	CameraMaxScale     = 200.0
	CameraZoomFactor   = 1.25

	// CameraPanCells is how many cells an arrow key pans
	CameraPanCells = 4

	// CellAspect is terminal cell height / width
	CellAspect = 2.0
)

// Glyphs
const (
	GlyphBody       = '●'
	GlyphBodyFill   = '█'
	GlyphPrediction = '·'
	GlyphPreview    = '○'
	GlyphVelocity   = '+'
)
