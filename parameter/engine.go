package parameter

import "time"

// Terminal loop timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// InputQueueSize buffers terminal events between poll goroutine and frame loop
	InputQueueSize = 64

	// StatusRefreshInterval throttles metric formatting in the status line
	StatusRefreshInterval = 250 * time.Millisecond
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "gravity-sim.log"
)
