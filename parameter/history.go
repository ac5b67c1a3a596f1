package parameter

// State buffer: MaxStates * CaptureInterval is the delay of the historical view
const (
	// HistoryMaxStates is the buffer depth (3 seconds at 20 captures per second)
	HistoryMaxStates = 60

	// HistoryCaptureInterval is the snapshot cadence in seconds
	HistoryCaptureInterval = 0.05

	// HistoryStabilizationTime suspends cycling after a structural change (seconds)
	HistoryStabilizationTime = 0.5

	// HistoryMinCycleDepth is the minimum depth retained after a cycle pop
	HistoryMinCycleDepth = 5

	// HistoryCycleInterval is the renderer's fast-replay cadence (seconds)
	HistoryCycleInterval = 0.05
)
