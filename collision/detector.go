package collision

import (
	"sync/atomic"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// Size classifies collision intensity for feedback
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

func (s Size) String() string {
	switch s {
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return "small"
	}
}

// Pair is an unordered body pair, canonicalized with the smaller id first
type Pair struct {
	A, B core.BodyID
}

// MakePair canonicalizes two ids
func MakePair(a, b core.BodyID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Event is one newly detected collision on the delayed timeline
type Event struct {
	Pair      Pair
	Seq       uint64 // Snapshot the collision was seen in
	Intensity float64
	Size      Size
	Position  vmath.Vec2 // Contact midpoint
}

// Sink receives a size classification per collision (small, medium, large)
type Sink interface {
	PlayCollisionSound(size string)
}

// EventSink receives full events, used by the recorder
type EventSink interface {
	RecordCollision(ev Event)
}

// OldestSource yields the delayed snapshot
type OldestSource interface {
	Oldest() (core.Snapshot, bool)
}

// Thresholds are the intensity bucket boundaries
type Thresholds struct {
	Medium float64
	Large  float64
}

// DefaultThresholds returns the parameter package defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		Medium: parameter.CollisionIntensityMedium,
		Large:  parameter.CollisionIntensityLarge,
	}
}

// Classify buckets an intensity value; a value equal to a threshold stays in the lower bucket
func (t Thresholds) Classify(intensity float64) Size {
	switch {
	case intensity > t.Large:
		return SizeLarge
	case intensity > t.Medium:
		return SizeMedium
	default:
		return SizeSmall
	}
}

// Detector raises one event per pair per contiguous overlap in the oldest snapshot
// Never mutates the simulation
type Detector struct {
	source     OldestSource
	sink       Sink
	events     EventSink
	thresholds Thresholds

	tracked map[Pair]struct{}

	statEvents *atomic.Int64
	statActive *atomic.Int64
}

// NewDetector creates a detector; sink may be nil
func NewDetector(source OldestSource, sink Sink, thresholds Thresholds, reg *status.Registry) *Detector {
	reg = status.OrNew(reg)
	return &Detector{
		source:     source,
		sink:       sink,
		thresholds: thresholds,
		tracked:    make(map[Pair]struct{}),
		statEvents: reg.Counter(status.CollisionEvents),
		statActive: reg.Counter(status.CollisionActive),
	}
}

// SetEventSink attaches an optional full-event consumer
func (d *Detector) SetEventSink(s EventSink) {
	d.events = s
}

// Tick scans the oldest snapshot and returns newly colliding pairs
// The tracked set becomes exactly the currently colliding set
func (d *Detector) Tick() []Event {
	snap, ok := d.source.Oldest()
	if !ok {
		clear(d.tracked)
		d.statActive.Store(0)
		return nil
	}

	var events []Event
	current := make(map[Pair]struct{}, len(d.tracked))

	n := snap.Len()
	for i := 0; i < n; i++ {
		a := snap.At(i)
		for j := i + 1; j < n; j++ {
			b := snap.At(j)
			if !a.Overlaps(b) {
				continue
			}
			pair := MakePair(a.ID, b.ID)
			current[pair] = struct{}{}
			if _, seen := d.tracked[pair]; seen {
				continue
			}
			events = append(events, d.event(snap.Seq(), pair, a, b))
		}
	}

	d.tracked = current
	d.statActive.Store(int64(len(current)))

	for _, ev := range events {
		d.statEvents.Add(1)
		if d.sink != nil {
			d.sink.PlayCollisionSound(ev.Size.String())
		}
		if d.events != nil {
			d.events.RecordCollision(ev)
		}
	}
	return events
}

func (d *Detector) event(seq uint64, pair Pair, a, b core.Body) Event {
	relSpeed := vmath.V2Dist(a.Velocity, b.Velocity)
	intensity := a.Mass * b.Mass * relSpeed
	return Event{
		Pair:      pair,
		Seq:       seq,
		Intensity: intensity,
		Size:      d.thresholds.Classify(intensity),
		Position:  vmath.V2Scale(vmath.V2Add(a.Position, b.Position), 0.5),
	}
}

// tracking reports whether pair is currently considered colliding
func (d *Detector) tracking(pair Pair) bool {
	_, ok := d.tracked[pair]
	return ok
}
