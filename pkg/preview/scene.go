// Package preview draws layouts to SVG or PDF, outlining keys that
// overlap and highlighting selected ones.
package preview

import (
	"errors"
	"math"
	"slices"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
	"github.com/OpenTraceLab/keylayout/pkg/selection"
)

// ErrEmptyLayout is returned when there is nothing to draw
var ErrEmptyLayout = errors.New("layout has no keys")

// Style selects how a key is painted
type Style int

const (
	StyleNormal Style = iota
	StyleDuplicate
	StyleSelected
)

// Shape is one key outline in pixel coordinates
type Shape struct {
	Index    int
	Outline  geom.Polygon
	Style    Style
	Overlaps bool
}

// Scene is a layout laid out for drawing. Width and Height are in pixels
// and include the margin on every side.
type Scene struct {
	Width  float64
	Height float64
	Shapes []Shape

	// offset places grid origin (0, 0) on the canvas, before centering
	offset   geom.Point
	zoom     float64
	flipView bool
}

// Options controls BuildScene
type Options struct {
	Render   layout.RenderOptions
	MarginPx float64

	// Selected lists key indices to highlight
	Selected []int

	// OverlapThreshold is passed to selection.OverlappingKeys. Negative
	// disables overlap outlines.
	OverlapThreshold float64

	// FlipView draws the layout as seen from the back of the board
	FlipView bool
}

// DefaultOptions returns pixel-scale options with overlap outlines on
func DefaultOptions() Options {
	return Options{
		Render:           layout.DefaultRenderOptions(),
		MarginPx:         10,
		OverlapThreshold: selection.DefaultOverlapThreshold,
	}
}

// BuildScene places every key of l in a canvas just large enough to hold
// the layout plus the margin. Each outline is centered in its key pitch,
// leaving half the padding on every side.
func BuildScene(l layout.Layout, opts Options) (*Scene, error) {
	if len(l) == 0 {
		return nil, ErrEmptyLayout
	}

	bbox := layout.BoundingRect(l, opts.Render)
	offset := geom.Point{X: opts.MarginPx - bbox.Min.X, Y: opts.MarginPx - bbox.Min.Y}
	half := opts.Render.PaddingPx / 2
	centered := offset.Add(geom.Point{X: half, Y: half})

	var overlapping []int
	if opts.OverlapThreshold >= 0 {
		overlapping = selection.OverlappingKeys(l, opts.OverlapThreshold)
	}

	scene := &Scene{
		Width:  bbox.Width() + 2*opts.MarginPx + opts.Render.PaddingPx,
		Height: bbox.Height() + 2*opts.MarginPx + opts.Render.PaddingPx,
		Shapes: make([]Shape, len(l)),
		offset: offset,
		zoom:   opts.Render.KeyUnitPx,
	}

	for i, k := range l {
		style := StyleNormal
		switch {
		case slices.Contains(opts.Selected, i):
			style = StyleSelected
		case k.Duplicate:
			style = StyleDuplicate
		}

		scene.Shapes[i] = Shape{
			Index:    i,
			Outline:  layout.TransformKeyPolygon(k, opts.Render).Translate(centered),
			Style:    style,
			Overlaps: slices.Contains(overlapping, i),
		}
	}

	if opts.FlipView {
		front := scene.Camera()
		scene.flipView = true
		back := scene.Camera()
		for _, shape := range scene.Shapes {
			for j, p := range shape.Outline {
				shape.Outline[j] = back.WorldToScreen(front.ScreenToWorld(p))
			}
		}
	}
	return scene, nil
}

// Camera returns a camera whose screen is the scene canvas, so positions
// picked on the rendered image map back to grid units
func (s *Scene) Camera() *Camera {
	c := NewCamera(int(math.Ceil(s.Width)), int(math.Ceil(s.Height)))
	c.Zoom = s.zoom
	c.Center = geom.Point{
		X: (float64(c.ScreenWidth)/2 - s.offset.X) / s.zoom,
		Y: (float64(c.ScreenHeight)/2 - s.offset.Y) / s.zoom,
	}
	if s.flipView {
		c.Flip()
	}
	return c
}
