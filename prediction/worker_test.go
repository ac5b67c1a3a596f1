package prediction

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/physics"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// trackedWorld records disposal of the wrapped world
type trackedWorld struct {
	physics.World
	disposed atomic.Bool
}

func (w *trackedWorld) Dispose() {
	if w.disposed.CompareAndSwap(false, true) {
		w.World.Dispose()
	}
}

func pairWorld() *trackedWorld {
	w := physics.NewBox2DWorld()
	defer w.Dispose()
	w.CreateBody(physics.BodyDef{Tag: 1, Position: vmath.V2(0, 0), Radius: 50, Mass: 7854})
	w.CreateBody(physics.BodyDef{Tag: 2, Position: vmath.V2(300, 0), Velocity: vmath.V2(0, 20), Radius: 20, Mass: 1257})
	return &trackedWorld{World: w.Clone()}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 2s")
}

func testWorker(t *testing.T, cfg Config) *Worker {
	t.Helper()
	w := NewWorker(cfg, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { w.Stop(time.Second) })
	return w
}

func TestWorkerPublishesPathsByTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 40
	cfg.Stride = 4
	w := testWorker(t, cfg)
	w.SetEnabled(true)

	world := pairWorld()
	w.Offer(world)

	waitFor(t, func() bool { return len(w.Predictions()) == 2 })

	paths := w.Predictions()
	for _, id := range []core.BodyID{1, 2} {
		if got := len(paths[id]); got != 10 {
			t.Errorf("path %d has %d points, want 10", id, got)
		}
	}
	// Second body drifts +y and falls toward the first
	last := paths[2][len(paths[2])-1]
	if last.Y <= 0 || last.X >= 300 {
		t.Errorf("Unexpected predicted end point %v", last)
	}
	waitFor(t, world.disposed.Load)
}

func TestWorkerDisableClearsPredictions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 20
	w := testWorker(t, cfg)
	w.SetEnabled(true)

	w.Offer(pairWorld())
	waitFor(t, func() bool { return len(w.Predictions()) > 0 })

	w.SetEnabled(false)
	if len(w.Predictions()) != 0 {
		t.Error("Disable should clear predictions immediately")
	}

	// Work arriving while disabled is discarded
	disabledWork := pairWorld()
	w.Offer(disabledWork)
	waitFor(t, disabledWork.disposed.Load)
	if len(w.Predictions()) != 0 {
		t.Error("Disabled worker published predictions")
	}
}

func TestOfferReplacesStaleClone(t *testing.T) {
	reg := status.NewRegistry()
	w := NewWorker(DefaultConfig(), reg)

	first, second := pairWorld(), pairWorld()
	w.Offer(first)
	w.Offer(second)

	if !first.disposed.Load() {
		t.Error("Stale clone should be disposed on replacement")
	}
	if second.disposed.Load() {
		t.Error("Fresh clone should stay pending")
	}
	if got := reg.Counter(status.PredictionDropped).Load(); got != 1 {
		t.Errorf("prediction.dropped = %d, want 1", got)
	}

	if err := w.Stop(time.Second); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !second.disposed.Load() {
		t.Error("Stop should dispose pending clones")
	}

	late := pairWorld()
	w.Offer(late)
	if !late.disposed.Load() {
		t.Error("Offer after Stop should dispose the clone")
	}
}

func TestWorkerOmitsUntaggedBodies(t *testing.T) {
	base := physics.NewBox2DWorld()
	base.CreateBody(physics.BodyDef{Tag: 7, Position: vmath.V2(0, 0), Radius: 10, Mass: 300})
	base.CreateBody(physics.BodyDef{Position: vmath.V2(80, 0), Radius: 10, Mass: 300})

	cfg := DefaultConfig()
	cfg.Steps = 10
	w := testWorker(t, cfg)
	w.SetEnabled(true)
	w.Offer(base)

	waitFor(t, func() bool { return len(w.Predictions()) > 0 })
	paths := w.Predictions()
	if len(paths) != 1 || len(paths[7]) != 10 {
		t.Errorf("Expected only tagged body 7, got %d paths", len(paths))
	}
}

func TestWorkerStartTwice(t *testing.T) {
	w := testWorker(t, DefaultConfig())
	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestWorkerDefaultStepsFromHorizon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seconds = 2
	w := NewWorker(cfg, nil)
	if w.Steps() != 120 {
		t.Errorf("Steps = %d, want 120", w.Steps())
	}

	w.SetQuality(QualityLow)
	if w.Steps() != 75 || w.Quality() != QualityLow {
		t.Errorf("After SetQuality(low): steps %d quality %v", w.Steps(), w.Quality())
	}
}

func TestWorkerHighQualityKeepsHorizon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seconds = 1
	w := NewWorker(cfg, nil)

	w.SetQuality(QualityHigh)
	if w.Steps() != 60 {
		t.Errorf("Steps after SetQuality(high) = %d, want 60 for a 1s horizon", w.Steps())
	}

	w.SetQuality(QualityMedium)
	if w.Steps() != 150 {
		t.Errorf("Steps after SetQuality(medium) = %d, want 150", w.Steps())
	}

	w.SetQuality(QualityHigh)
	if w.Steps() != 60 {
		t.Errorf("Steps after returning to high = %d, want 60", w.Steps())
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in    string
		want  Quality
		steps int
		err   bool
	}{
		{"high", QualityHigh, 300, false},
		{"Medium", QualityMedium, 150, false},
		{" low ", QualityLow, 75, false},
		{"ultra", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := ParseQuality(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("err = %v, want error %v", err, tt.err)
			}
			if tt.err {
				return
			}
			if q != tt.want || q.Steps() != tt.steps {
				t.Errorf("got %v (%d steps), want %v (%d steps)", q, q.Steps(), tt.want, tt.steps)
			}
		})
	}

	if QualityLow.Next() != QualityHigh {
		t.Error("Next should wrap low -> high")
	}
}
