package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prestontjones/GravitySim/collision"
	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/replay"
	"github.com/prestontjones/GravitySim/vmath"
)

func writeRecording(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	w, _, err := replay.NewWriter(dir, clock)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	bodies := []core.Body{
		core.NewBody(1, vmath.V2(0, 0), vmath.Vec2{}, 10, 0, core.RGBSun),
		core.NewBody(2, vmath.V2(15, 0), vmath.V2(-2, 0), 10, 0, core.RGBOcean),
	}
	for seq := uint64(4); seq <= 6; seq++ {
		n := len(bodies)
		if seq == 4 {
			n = 1
		}
		if err := w.WriteFrame(core.NewSequencedSnapshot(seq, bodies[:n])); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := w.WriteEvent(collision.Event{
		Pair:      collision.MakePair(2, 1),
		Seq:       6,
		Intensity: 1200,
		Size:      collision.SizeMedium,
		Position:  vmath.V2(7.5, 0),
	}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return dir
}

func TestDumpSummary(t *testing.T) {
	dir := writeRecording(t)

	var out bytes.Buffer
	if err := dump(&out, dir, false); err != nil {
		t.Fatalf("dump: %v", err)
	}

	for _, want := range []string{
		"recording v1 created 2024-05-01T12:00:00Z",
		"frames: 3 (seq 4..6), up to 2 bodies",
		"collisions: 1",
		"seq=6 1<->2 medium intensity=1200.0 at (7.5, 0.0)",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDumpEventsOnly(t *testing.T) {
	dir := writeRecording(t)

	var out bytes.Buffer
	if err := dump(&out, dir, true); err != nil {
		t.Fatalf("dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "seq=6 ") {
		t.Errorf("Events-only output = %q", out.String())
	}
}

func TestDumpMissingRecording(t *testing.T) {
	if err := dump(&bytes.Buffer{}, t.TempDir(), false); err == nil {
		t.Error("Expected error for a directory without a manifest")
	}
}
