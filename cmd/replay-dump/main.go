// replay-dump prints a summary of a recording written by gravity-sim -record
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prestontjones/GravitySim/replay"
)

var eventsOnly = flag.Bool("events", false, "Print collision events only")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: replay-dump [-events] <recording dir>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := dump(os.Stdout, flag.Arg(0), *eventsOnly); err != nil {
		fmt.Fprintf(os.Stderr, "replay-dump: %v\n", err)
		os.Exit(1)
	}
}

// dump writes the manifest, a frame summary and every collision event to w
func dump(w io.Writer, dir string, eventsOnly bool) error {
	m, err := replay.ReadManifest(dir)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	if !eventsOnly {
		frames, err := replay.ReadFrames(filepath.Join(dir, m.FramesPath))
		if err != nil {
			return fmt.Errorf("read frames: %w", err)
		}

		fmt.Fprintf(w, "recording v%d created %s\n", m.Version, m.CreatedAt)
		if len(frames) == 0 {
			fmt.Fprintln(w, "frames: 0")
		} else {
			maxBodies := 0
			for _, f := range frames {
				maxBodies = max(maxBodies, len(f.Bodies))
			}
			fmt.Fprintf(w, "frames: %d (seq %d..%d), up to %d bodies\n",
				len(frames), frames[0].Seq, frames[len(frames)-1].Seq, maxBodies)
		}
	}

	events, err := replay.ReadEvents(filepath.Join(dir, m.EventsPath))
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	if !eventsOnly {
		fmt.Fprintf(w, "collisions: %d\n", len(events))
	}
	for _, ev := range events {
		fmt.Fprintf(w, "seq=%d %d<->%d %s intensity=%.1f at (%.1f, %.1f)\n",
			ev.Seq, ev.A, ev.B, ev.Size, ev.Intensity, ev.X, ev.Y)
	}
	return nil
}
