// Package infer converts physical switch coordinates, as extracted from a
// board-design file, into a row/column-addressed key layout.
package infer

import (
	"strings"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// Switch is one physical switch handed over by a board-file importer
type Switch struct {
	Reference string     // Reference designator (e.g., "SW12")
	Position  geom.Point // Footprint center in mm
	Angle     float64    // Footprint rotation in degrees, clockwise on screen
	Module    string     // Footprint name, optionally "library:name"
	Size      geom.Size  // Explicit key size in grid units; zero means unset
}

// Footprint returns the name part of a "library:name" module reference
func (s Switch) Footprint() string {
	if i := strings.IndexByte(s.Module, ':'); i > 0 {
		return s.Module[i+1:]
	}
	return s.Module
}
