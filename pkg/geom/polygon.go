package geom

import "math"

// Segment is a straight line between two points
type Segment [2]Point

// Polygon is an ordered list of vertices. Key outlines always have four.
type Polygon []Point

// RectPolygon returns the four corners of a bounding box, clockwise from
// the minimum corner
func RectPolygon(bb BoundingBox) Polygon {
	return Polygon{
		{X: bb.Min.X, Y: bb.Min.Y},
		{X: bb.Max.X, Y: bb.Min.Y},
		{X: bb.Max.X, Y: bb.Max.Y},
		{X: bb.Min.X, Y: bb.Max.Y},
	}
}

// Bounds returns the polygon's bounding box
func (p Polygon) Bounds() BoundingBox {
	return Bounds(p)
}

// Segments returns the closed edge list of the polygon
func (p Polygon) Segments() []Segment {
	if len(p) < 2 {
		return nil
	}
	segments := make([]Segment, len(p))
	for i := range p {
		segments[i] = Segment{p[i], p[(i+1)%len(p)]}
	}
	return segments
}

// Translate returns a copy of the polygon moved by d
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}

// ContainsPoint reports whether pt lies strictly inside a convex polygon.
// Vertex winding may be either direction.
func (p Polygon) ContainsPoint(pt Point) bool {
	if len(p) < 3 {
		return false
	}

	sign := 0.0
	for _, seg := range p.Segments() {
		c := Cross(seg[1].Sub(seg[0]), pt.Sub(seg[0]))
		if c == 0 {
			return false
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// SegmentsIntersect tests two line segments using the orientation of each
// segment's endpoints relative to the other. Exactly collinear segments and
// segments that only touch at an endpoint are not special-cased, so the
// result for those is an approximation.
func SegmentsIntersect(a, b Segment) bool {
	va := a[1].Sub(a[0])
	vb := b[1].Sub(b[0])

	a0 := Cross(va, b[0].Sub(a[1]))
	a1 := Cross(va, b[1].Sub(a[1]))

	b0 := Cross(vb, a[0].Sub(b[1]))
	b1 := Cross(vb, a[1].Sub(b[1]))

	return sign(a0) != sign(a1) && sign(b0) != sign(b1)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ProjectOntoAxis returns the minimum and maximum scalar projection of a
// point set onto a unit vector
func ProjectOntoAxis(points []Point, axis Point) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		s := Dot(p, axis)
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	return lo, hi
}

// Overlap1D measures the overlap of two 1D ranges. Zero means the ranges
// touch, a negative value is the size of the gap between them.
func Overlap1D(aMin, aMax, bMin, bMax float64) float64 {
	return math.Min(aMax, bMax) - math.Max(aMin, bMin)
}
