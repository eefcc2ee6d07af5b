package layout

import (
	"math"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// BoundingRect calculates the bounding box of the entire layout. An empty
// layout returns geom.EmptyBox(); callers check IsEmpty before using it.
func BoundingRect(l Layout, opts RenderOptions) geom.BoundingBox {
	bbox := geom.EmptyBox()
	for _, k := range l {
		bbox = geom.Union(bbox, KeyBoundingBox(k, opts))
	}
	return bbox
}

// Polygons returns the unit-space outline of every key, indexed like l
func Polygons(l Layout) []geom.Polygon {
	polys := make([]geom.Polygon, len(l))
	for i, k := range l {
		polys[i] = TransformKeyPolygon(k, UnitOptions())
	}
	return polys
}

// Translate moves every key by (dx, dy). Rotation origins move with their
// key only where one is set.
func Translate(l Layout, dx, dy float64) Layout {
	out := l.Clone()
	for i := range out {
		out[i].X += dx
		out[i].Y += dy
		if out[i].HasOrigin {
			out[i].RX += dx
			out[i].RY += dy
		}
	}
	return out
}

// ToOrigin translates the layout so its unit-space bounding box starts at
// (0, 0)
func ToOrigin(l Layout) Layout {
	if len(l) == 0 {
		return l.Clone()
	}
	bbox := BoundingRect(l, UnitOptions())
	return Translate(l, -bbox.Min.X, -bbox.Min.Y)
}

// MaxPrecision is the largest useful digit count for SetFixedPrecision.
// Larger counts are treated as MaxPrecision.
const MaxPrecision = 15

// SetFixedPrecision rounds every non-integral numeric field to the given
// number of decimal places. Integral values are left alone.
func SetFixedPrecision(l Layout, digits int) Layout {
	out := l.Clone()
	for i := range out {
		k := &out[i]
		k.X = roundTo(k.X, digits)
		k.Y = roundTo(k.Y, digits)
		k.U = roundTo(k.U, digits)
		k.H = roundTo(k.H, digits)
		k.R = roundTo(k.R, digits)
		k.RX = roundTo(k.RX, digits)
		k.RY = roundTo(k.RY, digits)
	}
	return out
}

func roundTo(v float64, digits int) float64 {
	if v == math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	digits = min(digits, MaxPrecision)
	scale := math.Pow(10, float64(digits))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// avoid "-0" in output
		return 0
	}
	return r
}
