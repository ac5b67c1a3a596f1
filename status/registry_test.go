package status

import (
	"sync"
	"testing"
)

func TestCounterStablePointer(t *testing.T) {
	r := NewRegistry()
	if r.Counter(SimSteps) != r.Counter(SimSteps) {
		t.Fatal("Counter should return the same pointer for the same key")
	}
	if r.Gauge(PredictionLastMs) != r.Gauge(PredictionLastMs) {
		t.Fatal("Gauge should return the same pointer for the same key")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestCounterConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter(SimSteps).Add(1)
			}
		}()
	}
	wg.Wait()

	if got := r.Counter(SimSteps).Load(); got != 1600 {
		t.Errorf("Expected 1600 increments, got %d", got)
	}
	if r.Len() != 1 {
		t.Errorf("Expected exactly one registered metric, got %d", r.Len())
	}
}

func TestGaugeAndLabelZeroValues(t *testing.T) {
	var g Gauge
	var l Label
	if g.Value() != 0 || l.Value() != "" {
		t.Fatalf("Zero values = %f, %q", g.Value(), l.Value())
	}
	g.Set(3.75)
	l.Set("medium")
	if g.Value() != 3.75 || l.Value() != "medium" {
		t.Errorf("After Set = %f, %q", g.Value(), l.Value())
	}
}

func TestRegistryDumpOrder(t *testing.T) {
	r := NewRegistry()
	r.Label(PredictionQuality).Set("high")
	r.Counter(SimBodies).Store(3)
	r.Gauge(PredictionLastMs).Set(1.234)
	r.Counter(CollisionEvents).Store(2)

	want := []Metric{
		{CollisionEvents, "2"},
		{PredictionLastMs, "1.23"},
		{PredictionQuality, "high"},
		{SimBodies, "3"},
	}
	dump := r.Dump()
	if len(dump) != len(want) {
		t.Fatalf("Dump returned %d metrics, want %d", len(dump), len(want))
	}
	for i, m := range want {
		if dump[i] != m {
			t.Errorf("Dump[%d] = %v, want %v", i, dump[i], m)
		}
	}
}

func TestOrNew(t *testing.T) {
	if OrNew(nil) == nil {
		t.Fatal("OrNew(nil) should allocate a registry")
	}
	r := NewRegistry()
	if OrNew(r) != r {
		t.Error("OrNew should return the given registry")
	}
}
