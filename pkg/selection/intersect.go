// Package selection implements hit testing of selection gestures against
// key outlines, and overlap detection between keys.
//
// The gesture functions are linear in the number of keys and are meant to
// run on every pointer move. OverlappingKeys is quadratic and should only
// run once an edit has settled.
package selection

import "github.com/OpenTraceLab/keylayout/pkg/geom"

// Options controls PolygonsIntersect
type Options struct {
	// BothAreQuads asserts that both polygons are rectangles, so only two
	// edge normals per polygon need testing
	BothAreQuads bool

	// Threshold is the overlap, along every axis, that two polygons must
	// exceed to count as intersecting. Zero means any positive overlap;
	// polygons that only touch do not intersect.
	Threshold float64
}

// PolygonsIntersect tests two convex polygons with the separating axis
// theorem: they are disjoint if their projections onto some edge normal
// overlap by no more than the threshold.
func PolygonsIntersect(a, b geom.Polygon, opts Options) bool {
	for _, poly := range []geom.Polygon{a, b} {
		segments := poly.Segments()
		if opts.BothAreQuads && len(segments) > 2 {
			segments = segments[:2]
		}

		for _, seg := range segments {
			axis := geom.Unit(geom.Perp(seg[1].Sub(seg[0])))
			aMin, aMax := geom.ProjectOntoAxis(a, axis)
			bMin, bMax := geom.ProjectOntoAxis(b, axis)
			if geom.Overlap1D(aMin, aMax, bMin, bMax) <= opts.Threshold {
				return false
			}
		}
	}
	return true
}

// IntersectingPolygons returns the indices of polygons that share area with
// a selection rectangle. Polygons that only touch the rectangle's border
// are not selected.
//
// A rectangle with no width or no height has no area to share, so it is
// tested as the line (or point) it collapses to.
func IntersectingPolygons(rect geom.BoundingBox, polygons []geom.Polygon) []int {
	if rect.Width() == 0 || rect.Height() == 0 {
		return IntersectingPolygonsTrail([]geom.Point{rect.Min, rect.Max}, polygons)
	}

	rectPoly := geom.RectPolygon(rect)

	var hits []int
	for i, poly := range polygons {
		if !rect.Intersects(poly.Bounds()) {
			continue
		}
		if PolygonsIntersect(rectPoly, poly, Options{}) {
			hits = append(hits, i)
		}
	}
	return hits
}

// IntersectingPolygonsTrail returns the indices of polygons crossed by a
// freehand selection trail, or containing one of its points
func IntersectingPolygonsTrail(trail []geom.Point, polygons []geom.Polygon) []int {
	if len(trail) == 0 {
		return nil
	}

	trailSegments := make([]geom.Segment, 0, len(trail))
	for i := 0; i+1 < len(trail); i++ {
		trailSegments = append(trailSegments, geom.Segment{trail[i], trail[i+1]})
	}
	trailBox := geom.Bounds(trail)

	var hits []int
	for i, poly := range polygons {
		if !trailBox.Intersects(poly.Bounds()) {
			continue
		}
		if trailHits(trail, trailSegments, poly) {
			hits = append(hits, i)
		}
	}
	return hits
}

func trailHits(trail []geom.Point, trailSegments []geom.Segment, poly geom.Polygon) bool {
	for _, edge := range poly.Segments() {
		for _, seg := range trailSegments {
			if geom.SegmentsIntersect(edge, seg) {
				return true
			}
		}
	}
	for _, p := range trail {
		if poly.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// KeyAt returns the index of the polygon under a point, or -1. Later
// polygons are drawn on top, so they win.
func KeyAt(p geom.Point, polygons []geom.Polygon) int {
	for i := len(polygons) - 1; i >= 0; i-- {
		if polygons[i].ContainsPoint(p) {
			return i
		}
	}
	return -1
}
