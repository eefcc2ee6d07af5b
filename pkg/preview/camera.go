package preview

import (
	"math"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// Camera represents a viewport onto a layout. World coordinates are grid
// units with Y increasing downward, like the screen.
type Camera struct {
	// Center position in world coordinates
	Center geom.Point

	// Zoom level (pixels per grid unit)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	// FlipView mirrors the view about Center without touching the layout
	FlipView bool
}

// NewCamera creates a camera at the default key scale
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         70,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts grid units to screen pixels
func (c *Camera) WorldToScreen(pos geom.Point) geom.Point {
	x := pos.X - c.Center.X
	y := pos.Y - c.Center.Y
	if c.FlipView {
		x = -x
	}

	return geom.Point{
		X: x*c.Zoom + float64(c.ScreenWidth)/2,
		Y: y*c.Zoom + float64(c.ScreenHeight)/2,
	}
}

// ScreenToWorld converts screen pixels to grid units
func (c *Camera) ScreenToWorld(screen geom.Point) geom.Point {
	x := (screen.X - float64(c.ScreenWidth)/2) / c.Zoom
	y := (screen.Y - float64(c.ScreenHeight)/2) / c.Zoom
	if c.FlipView {
		x = -x
	}
	return geom.Point{X: x + c.Center.X, Y: y + c.Center.Y}
}

// ScreenRectToWorld maps a selection rectangle dragged on screen to grid
// units
func (c *Camera) ScreenRectToWorld(r geom.BoundingBox) geom.BoundingBox {
	return geom.Box(c.ScreenToWorld(r.Min), c.ScreenToWorld(r.Max))
}

// Pan moves the camera by screen pixel offsets
func (c *Camera) Pan(deltaX, deltaY float64) {
	if c.FlipView {
		deltaX = -deltaX
	}
	c.Center.X -= deltaX / c.Zoom
	c.Center.Y -= deltaY / c.Zoom
}

// ZoomAt zooms in/out at a specific screen position
// factor > 1 zooms in, factor < 1 zooms out
func (c *Camera) ZoomAt(screen geom.Point, factor float64) {
	before := c.ScreenToWorld(screen)

	c.Zoom = math.Min(math.Max(c.Zoom*factor, 1), 1000)

	// keep the point under the cursor stationary
	after := c.ScreenToWorld(screen)
	c.Center = c.Center.Add(before.Sub(after))
}

// Fit centers the camera on bbox and zooms so it fills 90% of the screen
func (c *Camera) Fit(bbox geom.BoundingBox) {
	width := bbox.Width()
	height := bbox.Height()
	if bbox.IsEmpty() || width <= 0 || height <= 0 {
		return
	}

	c.Center = bbox.Center()

	zoomX := float64(c.ScreenWidth) * 0.9 / width
	zoomY := float64(c.ScreenHeight) * 0.9 / height
	c.Zoom = math.Min(zoomX, zoomY)
}

// Flip toggles the view flip state
func (c *Camera) Flip() {
	c.FlipView = !c.FlipView
}
