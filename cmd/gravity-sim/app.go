package main

import (
	"log"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/prestontjones/GravitySim/audio"
	"github.com/prestontjones/GravitySim/collision"
	"github.com/prestontjones/GravitySim/config"
	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/history"
	"github.com/prestontjones/GravitySim/input"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/physics"
	"github.com/prestontjones/GravitySim/prediction"
	"github.com/prestontjones/GravitySim/render"
	"github.com/prestontjones/GravitySim/replay"
	"github.com/prestontjones/GravitySim/simulation"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// statusKeys selects the metrics shown in the status row
var statusKeys = []string{
	status.SimBodies,
	status.HistorySize,
	status.PredictionLastMs,
	status.CollisionEvents,
	status.CollisionActive,
}

// App owns the simulation core and drives it from the terminal loop
type App struct {
	screen   tcell.Screen
	renderer *render.Renderer
	metrics  *status.Registry

	registry  *simulation.Registry
	buffer    *history.Buffer
	cycler    *history.Cycler
	predictor *prediction.Manager
	detector  *collision.Detector
	sound     *audio.SoundManager
	recorder  *replay.Writer
	placement *input.Placement

	cursor      vmath.Vec2
	lastButtons tcell.ButtonMask
	lastFrame   time.Time

	statusText   string
	statusUpdate time.Time
}

// NewApp wires the core from cfg; screen must already be initialized
// recordDir enables replay recording when non-empty
func NewApp(screen tcell.Screen, cfg *config.Config, recordDir string) (*App, error) {
	metrics := status.NewRegistry()

	buffer := history.NewBuffer(cfg.BufferConfig(), metrics)
	registry := simulation.NewRegistry(cfg.SimulationConfig(), physics.NewBox2DWorld(), buffer, metrics)

	workerCfg, quality := cfg.WorkerConfig()
	worker := prediction.NewWorker(workerCfg, metrics)
	worker.SetQuality(quality)
	if err := worker.Start(); err != nil {
		registry.Dispose()
		return nil, err
	}
	predictor := prediction.NewManager(worker)
	predictor.SetPredictionsEnabled(cfg.Prediction.Enabled)

	a := &App{
		screen:    screen,
		renderer:  render.NewRenderer(screen),
		metrics:   metrics,
		registry:  registry,
		buffer:    buffer,
		cycler:    history.NewCycler(buffer),
		predictor: predictor,
		placement: input.NewPlacement(),
		lastFrame: time.Now(),
	}

	var sink collision.Sink = audio.NullSink{}
	if cfg.Audio.Enabled {
		a.sound = audio.NewSoundManager(cfg.SoundConfig())
		if err := a.sound.Initialize(); err != nil {
			log.Printf("audio unavailable, continuing silently: %v", err)
		}
		sink = a.sound
	}
	a.detector = collision.NewDetector(buffer, sink, cfg.CollisionThresholds(), metrics)

	if recordDir != "" {
		w, _, err := replay.NewWriter(recordDir, time.Now)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.recorder = w
		a.detector.SetEventSink(w)
	}

	return a, nil
}

// Run polls terminal events and ticks frames until the user quits
func (a *App) Run() {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, parameter.InputQueueSize)
	done := make(chan struct{})
	defer close(done)
	core.Go(func() { pollEvents(a.screen, events, done) })

	for {
		select {
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			a.frame(now)
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done closes
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// frame runs one pass: live step, capture, replay, predictions, collisions, draw
func (a *App) frame(now time.Time) {
	dt := now.Sub(a.lastFrame).Seconds()
	a.lastFrame = now

	a.registry.Update(dt)
	a.buffer.Update(dt, a.registry)
	a.cycler.Update(dt)
	a.predictor.Update(dt, a.registry)
	a.detector.Tick()

	if a.recorder != nil {
		if newest, ok := a.buffer.Newest(); ok {
			if err := a.recorder.WriteFrame(newest); err != nil {
				log.Printf("replay: %v; recording stopped", err)
				a.stopRecording()
			}
		}
	}

	delayed, ok := a.buffer.Oldest()
	var paths prediction.Paths
	if a.predictor.PredictionsEnabled() {
		paths = a.predictor.Predictions()
	}

	a.renderer.Draw(render.Frame{
		Delayed:     delayed,
		HasDelayed:  ok,
		Predictions: paths,
		Preview:     a.placement.Preview(a.cursor),
		Status:      a.statusLine(now),
	})
}

func (a *App) statusLine(now time.Time) string {
	if now.Sub(a.statusUpdate) < parameter.StatusRefreshInterval && a.statusText != "" {
		return a.statusText
	}
	a.statusUpdate = now

	pred := "pred:off"
	if a.predictor.PredictionsEnabled() {
		pred = "pred:" + a.predictor.PredictionQuality().String()
	}
	flags := []string{
		flagIf(a.registry.IsPaused(), "PAUSED"),
		flagIf(a.buffer.IsStabilizing(), "STABILIZING"),
		flagIf(a.cycler.Enabled(), "FAST"),
		flagIf(a.placement.OrbitAssist, "ORBIT"),
		flagIf(a.recorder != nil, "REC"),
		flagIf(a.sound != nil && a.sound.Muted(), "MUTED"),
		pred,
	}
	if a.placement.Active() {
		flags = append(flags, "place:"+a.placement.State().String())
	}

	var shown []status.Metric
	for _, m := range a.metrics.Dump() {
		if slices.Contains(statusKeys, m.Key) {
			shown = append(shown, m)
		}
	}
	a.statusText = render.StatusLine(flags, shown)
	return a.statusText
}

func flagIf(on bool, name string) string {
	if on {
		return name
	}
	return ""
}

// handleEvent returns false when the app should exit
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	cam := a.renderer.Camera
	switch ev.Key() {
	case tcell.KeyEscape:
		if a.placement.Active() {
			a.placement.Cancel()
			return true
		}
		return false
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		cam.Pan(0, parameter.CameraPanCells)
	case tcell.KeyDown:
		cam.Pan(0, -parameter.CameraPanCells)
	case tcell.KeyLeft:
		cam.Pan(-parameter.CameraPanCells, 0)
	case tcell.KeyRight:
		cam.Pan(parameter.CameraPanCells, 0)
	case tcell.KeyTab:
		a.placement.NextColor()
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			paused := a.registry.TogglePause()
			log.Printf("sim: paused=%v", paused)
		case 'p':
			a.predictor.SetPredictionsEnabled(!a.predictor.PredictionsEnabled())
		case 'q':
			a.predictor.SetPredictionQuality(a.predictor.PredictionQuality().Next())
		case 'f':
			a.cycler.SetEnabled(!a.cycler.Enabled())
		case 'o':
			a.placement.OrbitAssist = !a.placement.OrbitAssist
		case 'm':
			if a.sound != nil {
				a.sound.SetMuted(!a.sound.Muted())
			}
		case 'c':
			a.placement.Cancel()
		case '+', '=':
			cam.Zoom(1 / parameter.CameraZoomFactor)
		case '-', '_':
			cam.Zoom(parameter.CameraZoomFactor)
		}
	}
	a.statusText = ""
	return true
}

// handleMouse tracks the cursor and acts on button presses, not holds
func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.cursor = a.renderer.Camera.CellToWorld(x, y)

	buttons := ev.Buttons()
	pressed := buttons &^ a.lastButtons
	a.lastButtons = buttons

	switch {
	case pressed&tcell.Button1 != 0:
		if req, ok := a.placement.Advance(a.cursor); ok {
			a.place(req)
		}
	case pressed&tcell.Button2 != 0:
		a.removeAt(a.cursor)
	}
	a.statusText = ""
}

// place adds a completed request; orbit requests circle the heaviest body on screen
func (a *App) place(req input.Request) {
	vel := req.Velocity
	if req.Orbit {
		if primary, ok := a.heaviestDelayed(); ok {
			vel = a.registry.OrbitVelocity(primary, req.Position, false)
		}
	}
	id := a.registry.AddBody(req.Position.X, req.Position.Y, req.Radius, vel, req.Color)
	log.Printf("sim: placed body %d r=%.1f v=(%.1f,%.1f)", id, req.Radius, vel.X, vel.Y)
}

func (a *App) heaviestDelayed() (core.Body, bool) {
	snap, ok := a.buffer.Oldest()
	if !ok || snap.Len() == 0 {
		return core.Body{}, false
	}
	best := snap.At(0)
	for i := 1; i < snap.Len(); i++ {
		if b := snap.At(i); b.Mass > best.Mass {
			best = b
		}
	}
	return best, true
}

// removeAt deletes the body drawn under p; the delayed view is what the user sees
func (a *App) removeAt(p vmath.Vec2) {
	snap, ok := a.buffer.Oldest()
	if !ok {
		return
	}
	if b, hit := snap.BodyAt(p); hit && a.registry.RemoveBody(b.ID) {
		log.Printf("sim: removed body %d", b.ID)
	}
}

func (a *App) stopRecording() {
	if a.recorder == nil {
		return
	}
	a.detector.SetEventSink(nil)
	if err := a.recorder.Close(); err != nil {
		log.Printf("replay: close: %v", err)
	}
	frames, events := a.recorder.Counts()
	log.Printf("replay: wrote %d frames and %d events to %s", frames, events, a.recorder.Directory())
	a.recorder = nil
}

// Close stops the worker and releases audio, recording and engine resources
func (a *App) Close() {
	if err := a.predictor.Close(); err != nil {
		log.Printf("prediction: %v", err)
	}
	a.stopRecording()
	if a.sound != nil {
		a.sound.Cleanup()
	}
	a.registry.Dispose()
}
