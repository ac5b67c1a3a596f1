package history

import (
	"sync/atomic"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/status"
)

// Source produces the current live state for capture
type Source interface {
	Snapshot() core.Snapshot
}

// Config holds buffer tuning
type Config struct {
	MaxStates         int
	CaptureInterval   float64
	StabilizationTime float64
	MinCycleDepth     int
}

// DefaultConfig returns the parameter package defaults
func DefaultConfig() Config {
	return Config{
		MaxStates:         parameter.HistoryMaxStates,
		CaptureInterval:   parameter.HistoryCaptureInterval,
		StabilizationTime: parameter.HistoryStabilizationTime,
		MinCycleDepth:     parameter.HistoryMinCycleDepth,
	}
}

// Buffer is a bounded FIFO of snapshots with a fixed capture cadence
// Oldest is the delayed view, newest the most recent capture
// Not safe for concurrent use; owned by the simulation thread
type Buffer struct {
	cfg Config

	ring  []core.Snapshot
	head  int // Index of oldest
	count int

	seq         uint64 // Last assigned capture ordinal
	accumulator float64
	stabilizing float64 // Remaining stabilization seconds

	statSize     *atomic.Int64
	statCaptures *atomic.Int64
}

// NewBuffer creates an empty buffer; MaxStates below 1 is raised to 1
func NewBuffer(cfg Config, reg *status.Registry) *Buffer {
	if cfg.MaxStates < 1 {
		cfg.MaxStates = 1
	}
	reg = status.OrNew(reg)
	return &Buffer{
		cfg:          cfg,
		ring:         make([]core.Snapshot, cfg.MaxStates),
		statSize:     reg.Counter(status.HistorySize),
		statCaptures: reg.Counter(status.HistoryCaptures),
	}
}

// Capture snapshots src and pushes it to the tail
func (b *Buffer) Capture(src Source) core.Snapshot {
	return b.Push(src.Snapshot())
}

// Push appends s, stamping the next capture ordinal, evicting the oldest on overflow
func (b *Buffer) Push(s core.Snapshot) core.Snapshot {
	b.seq++
	s = s.WithSeq(b.seq)
	b.pushTail(s)
	b.statCaptures.Add(1)
	return s
}

func (b *Buffer) pushTail(s core.Snapshot) {
	capacity := len(b.ring)
	if b.count == capacity {
		b.ring[b.head] = s
		b.head = (b.head + 1) % capacity
	} else {
		b.ring[(b.head+b.count)%capacity] = s
		b.count++
	}
	b.statSize.Store(int64(b.count))
}

// Update advances the capture clock and captures once per crossed interval
// Runs regardless of simulation pause; a paused source yields identical snapshots
func (b *Buffer) Update(dt float64, src Source) {
	if b.stabilizing > 0 {
		b.stabilizing -= dt
		if b.stabilizing < 0 {
			b.stabilizing = 0
		}
	}

	b.accumulator += dt
	if b.accumulator >= b.cfg.CaptureInterval {
		b.Capture(src)
		b.accumulator = 0
	}
}

// Oldest returns the head snapshot, false when empty
func (b *Buffer) Oldest() (core.Snapshot, bool) {
	if b.count == 0 {
		return core.Snapshot{}, false
	}
	return b.ring[b.head], true
}

// Newest returns the tail snapshot, false when empty
func (b *Buffer) Newest() (core.Snapshot, bool) {
	if b.count == 0 {
		return core.Snapshot{}, false
	}
	return b.ring[(b.head+b.count-1)%len(b.ring)], true
}

// History returns all snapshots oldest first
func (b *Buffer) History() []core.Snapshot {
	out := make([]core.Snapshot, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.ring[(b.head+i)%len(b.ring)]
	}
	return out
}

// CaptureInterval returns the configured capture cadence in seconds
func (b *Buffer) CaptureInterval() float64 { return b.cfg.CaptureInterval }

func (b *Buffer) Len() int { return b.count }
func (b *Buffer) Cap() int { return len(b.ring) }

// Captures returns the last assigned capture ordinal
func (b *Buffer) Captures() uint64 { return b.seq }

// Clear drops every snapshot and resets the capture clock
// Capture ordinals keep increasing so stale references stay distinguishable
func (b *Buffer) Clear() {
	for i := range b.ring {
		b.ring[i] = core.Snapshot{}
	}
	b.head = 0
	b.count = 0
	b.accumulator = 0
	b.statSize.Store(0)
}

// CycleStates moves the oldest snapshot to the tail, advancing the delayed view
// Refused while stabilizing or when fewer than MinCycleDepth would remain after the pop
func (b *Buffer) CycleStates() bool {
	if b.stabilizing > 0 {
		return false
	}
	if b.count-1 < b.cfg.MinCycleDepth {
		return false
	}
	oldest := b.ring[b.head]
	b.head = (b.head + 1) % len(b.ring)
	b.count--
	b.pushTail(oldest)
	return true
}

// BodyAdded starts the stabilization window after a structural change
func (b *Buffer) BodyAdded() {
	b.stabilizing = b.cfg.StabilizationTime
}

// BodyRemoved starts the stabilization window after a structural change
func (b *Buffer) BodyRemoved() {
	b.stabilizing = b.cfg.StabilizationTime
}

// IsStabilizing reports whether cycling is currently suspended
func (b *Buffer) IsStabilizing() bool {
	return b.stabilizing > 0
}
