// Package geom provides the 2D primitives shared by the layout engine:
// points, bounding boxes, polygons and segment tests.
//
// Coordinates follow screen conventions: X grows to the right and Y grows
// downward. Positive rotation angles are therefore clockwise on screen.
package geom

import "math"

// Point represents a 2D coordinate. The unit depends on the caller (grid
// units, pixels or millimeters).
type Point struct {
	X float64
	Y float64
}

// Add returns p + q
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both components by s
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product of two vectors
func Dot(a, b Point) float64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the z component of the 3D cross product of two vectors
func Cross(a, b Point) float64 { return a.X*b.Y - a.Y*b.X }

// Perp returns a vector perpendicular to v
func Perp(v Point) Point { return Point{X: v.Y, Y: -v.X} }

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func Unit(v Point) Point {
	norm := math.Hypot(v.X, v.Y)
	if norm == 0 {
		return v
	}
	return Point{X: v.X / norm, Y: v.Y / norm}
}

// RotateAbout rotates p about origin by the given angle in degrees
func RotateAbout(p, origin Point, degrees float64) Point {
	if degrees == 0 {
		return p
	}

	rad := degrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	x := p.X - origin.X
	y := p.Y - origin.Y

	return Point{
		X: origin.X + x*cos - y*sin,
		Y: origin.Y + y*cos + x*sin,
	}
}

// Size represents dimensions
type Size struct {
	Width  float64
	Height float64
}

// BoundingBox represents an axis-aligned rectangular boundary
type BoundingBox struct {
	Min Point // Minimum (top-left) corner
	Max Point // Maximum (bottom-right) corner
}

// EmptyBox returns the identity element for Union: a box whose minimum is
// +Inf and maximum is -Inf. It is what an empty layout reports.
func EmptyBox() BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Box creates a bounding box from two opposite corners in any order
func Box(a, b Point) BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Bounds calculates the bounding box of a set of points
func Bounds(points []Point) BoundingBox {
	bbox := EmptyBox()
	for _, p := range points {
		bbox.Expand(p)
	}
	return bbox
}

// Union merges two bounding boxes component-wise
func Union(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: Point{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *BoundingBox) Expand(p Point) {
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// Intersects checks if two bounding boxes intersect (touching counts)
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Contains checks if a position is within the bounding box, borders included
func (bb BoundingBox) Contains(p Point) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X &&
		p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() float64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() float64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() Point {
	return Point{
		X: (bb.Min.X + bb.Max.X) / 2.0,
		Y: (bb.Min.Y + bb.Max.Y) / 2.0,
	}
}
