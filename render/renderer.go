package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/prestontjones/GravitySim/core"
	"github.com/prestontjones/GravitySim/input"
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/prediction"
	"github.com/prestontjones/GravitySim/status"
	"github.com/prestontjones/GravitySim/vmath"
)

// Frame is everything drawn in one pass
type Frame struct {
	Delayed     core.Snapshot
	HasDelayed  bool
	Predictions prediction.Paths
	Preview     input.Preview
	Status      string
}

// Renderer draws frames onto a tcell screen
// The bottom row is reserved for the status line
type Renderer struct {
	screen tcell.Screen
	Camera *Camera

	background tcell.Style
	statusBar  tcell.Style
}

// NewRenderer wraps an initialized screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen:     screen,
		Camera:     NewCamera(),
		background: tcell.StyleDefault.Background(tcell.ColorBlack),
		statusBar:  tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	}
}

// Draw renders f and shows the screen
func (r *Renderer) Draw(f Frame) {
	w, h := r.screen.Size()
	r.screen.SetStyle(r.background)
	r.screen.Clear()
	r.Camera.Resize(w, max(h-1, 0))

	if f.HasDelayed {
		r.drawPredictions(f.Delayed, f.Predictions)
		for i := 0; i < f.Delayed.Len(); i++ {
			r.drawBody(f.Delayed.At(i))
		}
	}
	r.drawPreview(f.Preview)
	r.drawStatus(w, h-1, f.Status)

	r.screen.Show()
}

// drawBody fills every cell whose center lies inside the disc
// Bodies smaller than a cell collapse to a single glyph
func (r *Renderer) drawBody(b core.Body) {
	style := r.background.Foreground(Color(b.Color))

	cx, cy := r.Camera.WorldToCell(b.Position)
	x0, y1 := r.Camera.WorldToCell(vmath.V2(b.Position.X-b.Radius, b.Position.Y-b.Radius))
	x1, y0 := r.Camera.WorldToCell(vmath.V2(b.Position.X+b.Radius, b.Position.Y+b.Radius))

	filled := false
	w, h := r.Camera.Size()
	for y := max(y0, 0); y <= min(y1, h-1); y++ {
		for x := max(x0, 0); x <= min(x1, w-1); x++ {
			if b.Contains(r.Camera.CellToWorld(x, y)) {
				r.screen.SetContent(x, y, parameter.GlyphBodyFill, nil, style)
				filled = true
			}
		}
	}
	if !filled && r.Camera.Visible(cx, cy) {
		r.screen.SetContent(cx, cy, parameter.GlyphBody, nil, style)
	}
}

// drawPredictions plots each path in a dimmed body color
func (r *Renderer) drawPredictions(s core.Snapshot, paths prediction.Paths) {
	for id, path := range paths {
		color := core.RGBWhite
		if b, ok := s.Find(id); ok {
			color = b.Color
		}
		style := r.background.Foreground(Color(color.Scale(0.5)))
		for _, p := range path {
			if x, y := r.Camera.WorldToCell(p); r.Camera.Visible(x, y) {
				r.screen.SetContent(x, y, parameter.GlyphPrediction, nil, style)
			}
		}
	}
}

// drawPreview outlines the pending body and marks the launch vector tip
func (r *Renderer) drawPreview(pv input.Preview) {
	if pv.State == input.PlacementInactive {
		return
	}
	style := r.background.Foreground(Color(pv.Color))

	// Sample densely enough that the outline closes at any zoom
	steps := max(16, int(pv.Radius/r.Camera.Scale*8))
	for i := 0; i < steps; i++ {
		theta := float64(i) / float64(steps) * 2 * math.Pi
		p := vmath.V2Add(pv.Position, vmath.V2(pv.Radius*math.Cos(theta), pv.Radius*math.Sin(theta)))
		if x, y := r.Camera.WorldToCell(p); r.Camera.Visible(x, y) {
			r.screen.SetContent(x, y, parameter.GlyphPreview, nil, style)
		}
	}

	if pv.State == input.PlacementVelocity {
		tip := vmath.V2Add(pv.Position, pv.Velocity)
		if x, y := r.Camera.WorldToCell(tip); r.Camera.Visible(x, y) {
			r.screen.SetContent(x, y, parameter.GlyphVelocity, nil, style)
		}
	}
}

func (r *Renderer) drawStatus(width, y int, text string) {
	if y < 0 {
		return
	}
	runes := []rune(text)
	for x := 0; x < width; x++ {
		ch := ' '
		if x < len(runes) {
			ch = runes[x]
		}
		r.screen.SetContent(x, y, ch, nil, r.statusBar)
	}
}

// StatusLine formats mode flags followed by metrics
func StatusLine(flags []string, metrics []status.Metric) string {
	var sb strings.Builder
	for _, f := range flags {
		if f == "" {
			continue
		}
		sb.WriteString("[")
		sb.WriteString(f)
		sb.WriteString("] ")
	}
	for i, m := range metrics {
		if i > 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%s=%s", m.Key, m.Value)
	}
	return sb.String()
}

// Color converts a palette color to a true-color tcell color
func Color(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
