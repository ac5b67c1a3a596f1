package render

import (
	"math"

	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/vmath"
)

// Camera maps world coordinates onto terminal cells
// World y points up; a cell is Aspect times taller than it is wide
type Camera struct {
	Center vmath.Vec2
	Scale  float64 // World units per column
	Aspect float64

	width, height int
}

// NewCamera creates a camera centered on the origin
func NewCamera() *Camera {
	return &Camera{
		Scale:  parameter.CameraDefaultScale,
		Aspect: parameter.CellAspect,
	}
}

// Resize sets the viewport in cells
func (c *Camera) Resize(width, height int) {
	c.width, c.height = width, height
}

// Size returns the viewport in cells
func (c *Camera) Size() (int, int) {
	return c.width, c.height
}

func (c *Camera) rowScale() float64 {
	return c.Scale * c.Aspect
}

// WorldToCell returns the cell containing p; may lie outside the viewport
func (c *Camera) WorldToCell(p vmath.Vec2) (int, int) {
	x := int(math.Floor((p.X-c.Center.X)/c.Scale)) + c.width/2
	y := c.height/2 - 1 - int(math.Floor((p.Y-c.Center.Y)/c.rowScale()))
	return x, y
}

// CellToWorld returns the world position of the cell center
func (c *Camera) CellToWorld(x, y int) vmath.Vec2 {
	return vmath.Vec2{
		X: c.Center.X + (float64(x-c.width/2)+0.5)*c.Scale,
		Y: c.Center.Y + (float64(c.height/2-1-y)+0.5)*c.rowScale(),
	}
}

// Visible reports whether cell (x, y) is inside the viewport
func (c *Camera) Visible(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// Pan moves the view by whole cells; positive dy moves up
func (c *Camera) Pan(dx, dy int) {
	c.Center.X += float64(dx) * c.Scale
	c.Center.Y += float64(dy) * c.rowScale()
}

// Zoom multiplies the scale, clamped to the configured range
// factor > 1 zooms out
func (c *Camera) Zoom(factor float64) {
	c.Scale = min(max(c.Scale*factor, parameter.CameraMinScale), parameter.CameraMaxScale)
}
