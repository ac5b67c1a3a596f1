package parameter

import "time"

// Trajectory prediction worker
const (
	// PredictionSeconds is the default forward horizon
	PredictionSeconds = 5.0

	// PredictionFeedInterval throttles world clones handed to the worker (<= 60 Hz)
	PredictionFeedInterval = 1.0 / 60.0

	// PredictionPollTimeout bounds the worker's blocking wait so shutdown stays responsive
	PredictionPollTimeout = 100 * time.Millisecond

	// PredictionJoinTimeout bounds how long shutdown waits for the worker goroutine
	PredictionJoinTimeout = time.Second

	// PredictionRecordStride records every Nth simulated step
	PredictionRecordStride = 1
)

// Quality tier step counts
const (
	PredictionStepsHigh   = 300
	PredictionStepsMedium = 150
	PredictionStepsLow    = 75
)
