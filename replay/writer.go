package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/prestontjones/GravitySim/collision"
	"github.com/prestontjones/GravitySim/core"
)

// ErrClosed is returned by writes after Close
var ErrClosed = errors.New("replay writer closed")

const (
	framesFile   = "frames.jsonl.zst"
	eventsFile   = "events.jsonl.sz"
	manifestFile = "manifest.json"
)

// Manifest describes a recording directory
type Manifest struct {
	Version    int    `json:"version"`
	CreatedAt  string `json:"created_at"`
	FramesPath string `json:"frames_path"`
	EventsPath string `json:"events_path"`
}

// BodyRecord is one body inside a frame
type BodyRecord struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"r"`
	Mass   float64 `json:"m"`
	Color  string  `json:"color"`
}

// Frame is one recorded snapshot
type Frame struct {
	Seq        uint64       `json:"seq"`
	CapturedAt string       `json:"captured_at"`
	Bodies     []BodyRecord `json:"bodies"`
}

// EventRecord is one recorded collision
type EventRecord struct {
	Seq        uint64  `json:"seq"`
	CapturedAt string  `json:"captured_at"`
	A          uint64  `json:"a"`
	B          uint64  `json:"b"`
	Size       string  `json:"size"`
	Intensity  float64 `json:"intensity"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Writer streams snapshots into a zstd file and collision events into a snappy file
type Writer struct {
	mu  sync.Mutex
	dir string
	now func() time.Time

	frameFile   *os.File
	frameStream *zstd.Encoder
	eventFile   *os.File
	eventStream *snappy.Writer

	lastSeq uint64
	frames  int
	events  int
	err     error // First asynchronous write failure
	closed  bool
}

// NewWriter creates dir and opens the compressed sinks
func NewWriter(dir string, clock func() time.Time) (*Writer, Manifest, error) {
	if dir == "" {
		return nil, Manifest{}, fmt.Errorf("replay directory must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Manifest{}, fmt.Errorf("create replay dir: %w", err)
	}

	frameFile, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		return nil, Manifest{}, err
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		frameFile.Close()
		return nil, Manifest{}, err
	}

	eventFile, err := os.Create(filepath.Join(dir, eventsFile))
	if err != nil {
		frameStream.Close()
		frameFile.Close()
		return nil, Manifest{}, err
	}
	eventStream := snappy.NewBufferedWriter(eventFile)

	manifest := Manifest{
		Version:    1,
		CreatedAt:  clock().UTC().Format(time.RFC3339Nano),
		FramesPath: framesFile,
		EventsPath: eventsFile,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644)
	}
	if err != nil {
		eventStream.Close()
		eventFile.Close()
		frameStream.Close()
		frameFile.Close()
		return nil, Manifest{}, fmt.Errorf("write manifest: %w", err)
	}

	log.Printf("replay: recording to %s", dir)
	return &Writer{
		dir:         dir,
		now:         clock,
		frameFile:   frameFile,
		frameStream: frameStream,
		eventFile:   eventFile,
		eventStream: eventStream,
	}, manifest, nil
}

// Directory returns the recording directory
func (w *Writer) Directory() string { return w.dir }

// WriteFrame appends s; snapshots with a sequence at or below the last written one are skipped
func (w *Writer) WriteFrame(s core.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if s.Seq() != 0 && s.Seq() <= w.lastSeq {
		return nil
	}

	frame := Frame{
		Seq:        s.Seq(),
		CapturedAt: w.now().UTC().Format(time.RFC3339Nano),
		Bodies:     make([]BodyRecord, s.Len()),
	}
	for i := 0; i < s.Len(); i++ {
		b := s.At(i)
		frame.Bodies[i] = BodyRecord{
			ID:     uint64(b.ID),
			X:      b.Position.X,
			Y:      b.Position.Y,
			VX:     b.Velocity.X,
			VY:     b.Velocity.Y,
			Radius: b.Radius,
			Mass:   b.Mass,
			Color:  b.Color.Hex(),
		}
	}

	if err := writeLine(w.frameStream, frame); err != nil {
		return fmt.Errorf("write frame %d: %w", frame.Seq, err)
	}
	w.lastSeq = s.Seq()
	w.frames++
	return nil
}

// WriteEvent appends one collision event and flushes the snappy block
func (w *Writer) WriteEvent(ev collision.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	rec := EventRecord{
		Seq:        ev.Seq,
		CapturedAt: w.now().UTC().Format(time.RFC3339Nano),
		A:          uint64(ev.Pair.A),
		B:          uint64(ev.Pair.B),
		Size:       ev.Size.String(),
		Intensity:  ev.Intensity,
		X:          ev.Position.X,
		Y:          ev.Position.Y,
	}
	if err := writeLine(w.eventStream, rec); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	w.events++
	return w.eventStream.Flush()
}

// RecordCollision implements collision.EventSink; the first failure is kept for Err
func (w *Writer) RecordCollision(ev collision.Event) {
	if err := w.WriteEvent(ev); err != nil {
		w.mu.Lock()
		if w.err == nil {
			w.err = err
			log.Printf("replay: %v", err)
		}
		w.mu.Unlock()
	}
}

// Err returns the first failure swallowed by RecordCollision
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Counts returns frames and events written so far
func (w *Writer) Counts() (frames, events int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames, w.events
}

// Close flushes and closes both streams, returning the first failure
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(w.eventStream.Close())
	keep(w.eventFile.Close())
	keep(w.frameStream.Close())
	keep(w.frameFile.Close())

	log.Printf("replay: closed %s (%d frames, %d events)", w.dir, w.frames, w.events)
	return firstErr
}

func writeLine(dst io.Writer, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = dst.Write(line)
	return err
}

// ReadFrames decodes every frame from a zstd frames file
func ReadFrames(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return readLines[Frame](dec)
}

// ReadEvents decodes every event from a snappy events file
func ReadEvents(path string) ([]EventRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readLines[EventRecord](snappy.NewReader(f))
}

// ReadManifest loads the manifest from a recording directory
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func readLines[T any](r io.Reader) ([]T, error) {
	var out []T
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(sc.Bytes(), &v); err != nil {
			return out, fmt.Errorf("decode line %d: %w", len(out)+1, err)
		}
		out = append(out, v)
	}
	return out, sc.Err()
}
