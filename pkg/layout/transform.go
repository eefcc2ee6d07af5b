package layout

import "github.com/OpenTraceLab/keylayout/pkg/geom"

// Rendering defaults in pixels
const (
	DefaultKeyUnitPx = 70.0
	DefaultPaddingPx = 5.0
)

// RenderOptions controls the scale of a transform. Pixel-space rendering
// uses the defaults; unit-space hit testing uses UnitOptions.
type RenderOptions struct {
	KeyUnitPx float64 // Size of one grid unit
	PaddingPx float64 // Visual gutter subtracted from width and height
}

// DefaultRenderOptions returns the pixel-space options used for rendering
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{KeyUnitPx: DefaultKeyUnitPx, PaddingPx: DefaultPaddingPx}
}

// UnitOptions returns options that keep polygons in grid units
func UnitOptions() RenderOptions {
	return RenderOptions{KeyUnitPx: 1, PaddingPx: 0}
}

// Params holds a key's scaled placement. RX/RY are the rotation origin
// relative to (X, Y).
type Params struct {
	X     float64
	Y     float64
	U     float64
	H     float64
	RX    float64
	RY    float64
	Angle float64
}

// ComputeParams scales a key's position, size and rotation origin by the
// render options
func ComputeParams(k Key, opts RenderOptions) Params {
	scale := opts.KeyUnitPx
	origin := k.RotationOrigin()

	return Params{
		X:     k.X * scale,
		Y:     k.Y * scale,
		U:     k.U*scale - opts.PaddingPx,
		H:     k.H*scale - opts.PaddingPx,
		RX:    (origin.X - k.X) * scale,
		RY:    (origin.Y - k.Y) * scale,
		Angle: k.R,
	}
}

// TransformKeyPolygon returns the four corners of the key's rectangle,
// rotated about its rotation origin and placed at its position
func TransformKeyPolygon(k Key, opts RenderOptions) geom.Polygon {
	p := ComputeParams(k, opts)
	origin := geom.Point{X: p.RX, Y: p.RY}
	offset := geom.Point{X: p.X, Y: p.Y}

	corners := geom.Polygon{
		{X: 0, Y: 0},
		{X: p.U, Y: 0},
		{X: p.U, Y: p.H},
		{X: 0, Y: p.H},
	}

	for i, c := range corners {
		corners[i] = geom.RotateAbout(c, origin, p.Angle).Add(offset)
	}
	return corners
}

// KeyBoundingBox returns the axis-aligned box around the transformed key
func KeyBoundingBox(k Key, opts RenderOptions) geom.BoundingBox {
	return TransformKeyPolygon(k, opts).Bounds()
}
