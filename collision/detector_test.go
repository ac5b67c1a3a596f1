package collision

import (
	"testing"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// fixedSource serves whatever snapshot the test last set
type fixedSource struct {
	snap core.Snapshot
	ok   bool
}

func (s *fixedSource) Oldest() (core.Snapshot, bool) { return s.snap, s.ok }

func (s *fixedSource) set(bodies ...core.Body) {
	s.snap = core.NewSnapshot(bodies)
	s.ok = true
}

// recordingSink collects sound requests and full events
type recordingSink struct {
	sounds []string
	events []Event
}

func (r *recordingSink) PlayCollisionSound(size string) { r.sounds = append(r.sounds, size) }
func (r *recordingSink) RecordCollision(ev Event)       { r.events = append(r.events, ev) }

func body(id core.BodyID, x, vx, radius, mass float64) core.Body {
	return core.NewBody(id, vmath.V2(x, 0), vmath.V2(vx, 0), radius, mass, core.RGBSun)
}

func TestDetectorFiresOncePerOverlap(t *testing.T) {
	src := &fixedSource{}
	sink := &recordingSink{}
	reg := status.NewRegistry()
	d := NewDetector(src, sink, DefaultThresholds(), reg)
	d.SetEventSink(sink)

	apart := []core.Body{body(1, 0, 0, 10, 1), body(2, 50, 0, 10, 1)}
	touching := []core.Body{body(1, 0, 0, 10, 1), body(2, 15, 0, 10, 1)}

	steps := []struct {
		bodies []core.Body
		want   int
	}{
		{apart, 0},
		{touching, 1},
		{touching, 0},
		{touching, 0},
		{apart, 0},
		{touching, 1},
	}

	for i, st := range steps {
		src.set(st.bodies...)
		if got := len(d.Tick()); got != st.want {
			t.Errorf("tick %d: %d events, want %d", i, got, st.want)
		}
	}

	if len(sink.sounds) != 2 || len(sink.events) != 2 {
		t.Errorf("sink saw %d sounds, %d events, want 2 each", len(sink.sounds), len(sink.events))
	}
	if got := reg.Counter(status.CollisionEvents).Load(); got != 2 {
		t.Errorf("collision.events = %d, want 2", got)
	}
}

func TestDetectorFirstOverlappingTick(t *testing.T) {
	src := &fixedSource{}
	sink := &recordingSink{}
	d := NewDetector(src, sink, DefaultThresholds(), nil)

	src.set(body(5, 0, 0, 20, 10), body(3, 25, -4, 10, 30))
	events := d.Tick()
	if len(events) != 1 || len(sink.sounds) != 1 {
		t.Fatalf("Expected exactly one event, got %d (sounds %d)", len(events), len(sink.sounds))
	}

	ev := events[0]
	if ev.Pair != (Pair{A: 3, B: 5}) {
		t.Errorf("Pair = %+v, want canonical {3 5}", ev.Pair)
	}
	// 10 * 30 * 4
	if ev.Intensity != 1200 || ev.Size != SizeMedium || sink.sounds[0] != "medium" {
		t.Errorf("Intensity %f size %v sound %q", ev.Intensity, ev.Size, sink.sounds[0])
	}
	if !d.tracking(MakePair(5, 3)) {
		t.Error("Pair should be tracked while overlapping")
	}
}

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		intensity float64
		want      string
	}{
		{0, "small"},
		{999, "small"},
		{1000, "small"},
		{1000.5, "medium"},
		{4999, "medium"},
		{5000, "medium"},
		{5001, "large"},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.intensity).String(); got != tt.want {
			t.Errorf("Classify(%f) = %s, want %s", tt.intensity, got, tt.want)
		}
	}
}

func TestDetectorActivePairs(t *testing.T) {
	src := &fixedSource{}
	reg := status.NewRegistry()
	d := NewDetector(src, nil, DefaultThresholds(), reg)
	active := reg.Counter(status.CollisionActive)

	if events := d.Tick(); events != nil {
		t.Errorf("No snapshot should yield no events, got %v", events)
	}

	src.set(body(1, 0, 0, 10, 1), body(2, 5, 0, 10, 1), body(3, 12, 0, 10, 1))
	if len(d.Tick()) != 3 {
		t.Fatal("Expected three overlapping pairs")
	}
	if active.Load() != 3 {
		t.Errorf("collision.active = %d, want 3", active.Load())
	}

	// Losing the snapshot forgets every pair, so a sustained overlap fires again
	src.ok = false
	d.Tick()
	if active.Load() != 0 {
		t.Errorf("collision.active = %d after empty tick, want 0", active.Load())
	}
	src.ok = true
	if len(d.Tick()) != 3 {
		t.Error("Pairs should fire again after the snapshot returns")
	}
}
