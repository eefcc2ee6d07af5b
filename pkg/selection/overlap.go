package selection

import (
	"github.com/OpenTraceLab/keylayout/pkg/geom"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

// DefaultOverlapThreshold tolerates the visual gutter between keys: 5px of
// padding out of a 70px key, doubled, in grid units. Near misses are
// preferred over false positives.
const DefaultOverlapThreshold = 0.14

// OverlappingKeys returns the indices, ascending and without duplicates, of
// every key whose outline overlaps another key's by more than threshold
// grid units.
func OverlappingKeys(l layout.Layout, threshold float64) []int {
	polys := layout.Polygons(l)
	boxes := make([]geom.BoundingBox, len(polys))
	for i, p := range polys {
		boxes[i] = p.Bounds()
	}

	opts := Options{BothAreQuads: true, Threshold: threshold}
	overlapping := make([]bool, len(polys))

	for i := 0; i < len(polys)-1; i++ {
		for j := i + 1; j < len(polys); j++ {
			if !boxes[i].Intersects(boxes[j]) {
				continue
			}
			if PolygonsIntersect(polys[i], polys[j], opts) {
				overlapping[i] = true
				overlapping[j] = true
			}
		}
	}

	var out []int
	for i, hit := range overlapping {
		if hit {
			out = append(out, i)
		}
	}
	return out
}
