package history

import "github.com/prestontjones/GravitySim/parameter"

// Cycler slides the delayed window forward faster than real time
// The timer resets only after a successful cycle, so a refused cycle is retried next frame
type Cycler struct {
	buf      *Buffer
	interval float64
	elapsed  float64
	enabled  bool
}

// NewCycler creates a disabled cycler over buf
func NewCycler(buf *Buffer) *Cycler {
	return &Cycler{buf: buf, interval: parameter.HistoryCycleInterval}
}

func (c *Cycler) SetEnabled(enabled bool) {
	c.enabled = enabled
	c.elapsed = 0
}

func (c *Cycler) Enabled() bool { return c.enabled }

// Update returns true when a cycle occurred this frame
func (c *Cycler) Update(dt float64) bool {
	if !c.enabled {
		return false
	}
	c.elapsed += dt
	if c.elapsed < c.interval || c.buf.IsStabilizing() {
		return false
	}
	if !c.buf.CycleStates() {
		return false
	}
	c.elapsed = 0
	return true
}
