package prediction

import (
	"testing"
	"time"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/physics"
	"github.com/prestontjones/GravitySim/vmath"
)

// countingSource clones a fixed world and counts clone requests
type countingSource struct {
	world  *physics.Box2DWorld
	clones int
}

func (s *countingSource) Len() int { return s.world.Len() }

func (s *countingSource) CloneWorld() physics.World {
	s.clones++
	return s.world.Clone()
}

func newCountingSource(n int) *countingSource {
	w := physics.NewBox2DWorld()
	for i := 0; i < n; i++ {
		w.CreateBody(physics.BodyDef{Tag: core.BodyID(i + 1), Position: vmath.V2(float64(i)*100, 0), Radius: 10, Mass: 300})
	}
	return &countingSource{world: w}
}

func TestManagerThrottlesOffers(t *testing.T) {
	m := NewManager(NewWorker(DefaultConfig(), nil))
	defer m.Close()
	src := newCountingSource(2)
	defer src.world.Dispose()

	if m.Update(1, src) {
		t.Error("Disabled manager should not offer")
	}

	m.SetPredictionsEnabled(true)
	if !m.Update(0.001, src) {
		t.Error("First update after enabling should offer")
	}
	if m.Update(0.001, src) {
		t.Error("Second update within the feed interval should be throttled")
	}
	if !m.Update(1.0/60.0, src) {
		t.Error("Update after the feed interval should offer")
	}
	if src.clones != 2 {
		t.Errorf("clones = %d, want 2", src.clones)
	}
}

func TestManagerSkipsEmptyWorld(t *testing.T) {
	m := NewManager(NewWorker(DefaultConfig(), nil))
	defer m.Close()
	src := newCountingSource(0)
	defer src.world.Dispose()

	m.SetPredictionsEnabled(true)
	if m.Update(1, src) || src.clones != 0 {
		t.Error("Empty world should not be cloned")
	}
}

func TestManagerEndToEnd(t *testing.T) {
	m := NewManager(NewWorker(DefaultConfig(), nil))
	if err := m.worker.Start(); err != nil {
		t.Fatal(err)
	}
	src := newCountingSource(2)
	defer src.world.Dispose()

	m.SetPredictionQuality(QualityLow)
	m.SetPredictionsEnabled(true)
	m.Update(1, src)

	deadline := time.Now().Add(2 * time.Second)
	for len(m.Predictions()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if len(m.Predictions()) == 0 {
		t.Fatal("No predictions published")
	}

	m.SetPredictionsEnabled(false)
	if len(m.Predictions()) != 0 {
		t.Error("Disabling should clear predictions")
	}

	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
