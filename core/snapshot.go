package core

import (
	"math"

	"github.com/prestontjones/GravitySim/vmath"
)

// Snapshot is an immutable point-in-time copy of every body
// Holds no engine handles; safe to share across goroutines
// Zero value is an empty snapshot
type Snapshot struct {
	seq    uint64
	bodies []Body
}

// NewSnapshot copies bodies into a new snapshot with sequence 0
func NewSnapshot(bodies []Body) Snapshot {
	return NewSequencedSnapshot(0, bodies)
}

// NewSequencedSnapshot copies bodies and stamps a capture ordinal
func NewSequencedSnapshot(seq uint64, bodies []Body) Snapshot {
	cp := make([]Body, len(bodies))
	copy(cp, bodies)
	return Snapshot{seq: seq, bodies: cp}
}

// WithSeq returns the same bodies under a new sequence number
// Body storage is shared; neither copy can mutate it
func (s Snapshot) WithSeq(seq uint64) Snapshot {
	return Snapshot{seq: seq, bodies: s.bodies}
}

// Seq returns the capture ordinal, 0 for ad-hoc snapshots
func (s Snapshot) Seq() uint64 { return s.seq }

// Len returns body count
func (s Snapshot) Len() int { return len(s.bodies) }

// At returns the i-th body by value
func (s Snapshot) At(i int) Body { return s.bodies[i] }

// Bodies returns a fresh slice the caller may modify
func (s Snapshot) Bodies() []Body {
	cp := make([]Body, len(s.bodies))
	copy(cp, s.bodies)
	return cp
}

// IDs returns body identities in snapshot order
func (s Snapshot) IDs() []BodyID {
	ids := make([]BodyID, len(s.bodies))
	for i := range s.bodies {
		ids[i] = s.bodies[i].ID
	}
	return ids
}

// Find returns the body with the given id
func (s Snapshot) Find(id BodyID) (Body, bool) {
	for i := range s.bodies {
		if s.bodies[i].ID == id {
			return s.bodies[i], true
		}
	}
	return Body{}, false
}

// Contains reports whether id is present
func (s Snapshot) Contains(id BodyID) bool {
	_, ok := s.Find(id)
	return ok
}

// BodyAt returns the body whose disc contains p, closest center wins
func (s Snapshot) BodyAt(p vmath.Vec2) (Body, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i := range s.bodies {
		d := vmath.V2Dist(s.bodies[i].Position, p)
		if d <= s.bodies[i].Radius && d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return Body{}, false
	}
	return s.bodies[best], true
}
