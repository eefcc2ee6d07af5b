// Package layout implements the physical key model and the whole-layout
// transforms built on it: pixel/unit transforms, bounding boxes,
// normalization and flip/mirror.
//
// Every transform returns a new Layout; inputs are never modified.
package layout

import (
	"encoding/json"
	"fmt"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// Key is one physical key. Optional fields from the JSON representation are
// resolved when the key is constructed or decoded, so U and H are always
// positive and presence of the rotation origin and grid address is explicit.
type Key struct {
	X float64 // Grid units
	Y float64 // Grid units
	U float64 // Width in grid units
	H float64 // Height in grid units
	R float64 // Rotation in degrees, clockwise on screen

	// Rotation origin in grid units. Ignored unless HasOrigin is set;
	// without one the key rotates about (X, Y).
	RX        float64
	RY        float64
	HasOrigin bool

	// Logical grid address
	Row       int
	Col       int
	Addressed bool

	Label string

	// Provenance for flip/mirror. Never serialized.
	Original    int
	HasOriginal bool
	Duplicate   bool
}

// NewKey creates an unrotated 1u key at the given grid position
func NewKey(x, y float64) Key {
	return Key{X: x, Y: y, U: 1, H: 1}
}

// WithAddress returns a copy of k carrying a row/column address
func (k Key) WithAddress(row, col int) Key {
	k.Row = row
	k.Col = col
	k.Addressed = true
	return k
}

// WithSize returns a copy of k with the given width and height
func (k Key) WithSize(u, h float64) Key {
	k.U = u
	k.H = h
	return k
}

// WithRotation returns a copy of k rotated by r degrees about (rx, ry)
func (k Key) WithRotation(r, rx, ry float64) Key {
	k.R = r
	k.RX = rx
	k.RY = ry
	k.HasOrigin = true
	return k
}

// Position returns the key's anchor in grid units
func (k Key) Position() geom.Point {
	return geom.Point{X: k.X, Y: k.Y}
}

// RotationOrigin returns the point the key rotates about, which is the
// key's own anchor when no origin is set
func (k Key) RotationOrigin() geom.Point {
	if !k.HasOrigin {
		return k.Position()
	}
	return geom.Point{X: k.RX, Y: k.RY}
}

// Layout is an ordered sequence of keys
type Layout []Key

// Clone returns a copy of the layout that shares no storage with l
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

// Addressed reports whether every key carries a row/column address. An
// empty layout is not addressed.
func (l Layout) Addressed() bool {
	if len(l) == 0 {
		return false
	}
	for _, k := range l {
		if !k.Addressed {
			return false
		}
	}
	return true
}

// keyJSON is the wire shape. Pointers distinguish absent from zero.
type keyJSON struct {
	Row   *int     `json:"row,omitempty"`
	Col   *int     `json:"col,omitempty"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	W     *float64 `json:"w,omitempty"`
	U     *float64 `json:"u,omitempty"`
	H     *float64 `json:"h,omitempty"`
	R     *float64 `json:"r,omitempty"`
	RX    *float64 `json:"rx,omitempty"`
	RY    *float64 `json:"ry,omitempty"`
	Label string   `json:"label,omitempty"`
}

// UnmarshalJSON decodes a key, accepting the legacy "w" width field and
// filling in defaults for everything optional
func (k *Key) UnmarshalJSON(data []byte) error {
	var raw keyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	key := NewKey(raw.X, raw.Y)
	key.Label = raw.Label

	switch {
	case raw.U != nil:
		key.U = *raw.U
	case raw.W != nil:
		key.U = *raw.W
	}
	if raw.H != nil {
		key.H = *raw.H
	}
	if key.U <= 0 || key.H <= 0 {
		return fmt.Errorf("key size must be positive, got %gx%g", key.U, key.H)
	}

	if raw.R != nil {
		key.R = *raw.R
	}
	if raw.RX != nil || raw.RY != nil {
		key.HasOrigin = true
		key.RX, key.RY = key.X, key.Y
		if raw.RX != nil {
			key.RX = *raw.RX
		}
		if raw.RY != nil {
			key.RY = *raw.RY
		}
	}

	if raw.Row != nil || raw.Col != nil {
		key.Addressed = true
		if raw.Row != nil {
			key.Row = *raw.Row
		}
		if raw.Col != nil {
			key.Col = *raw.Col
		}
	}

	*k = key
	return nil
}

// MarshalJSON encodes a key, omitting every field that holds its default
func (k Key) MarshalJSON() ([]byte, error) {
	raw := keyJSON{X: k.X, Y: k.Y, Label: k.Label}

	if k.Addressed {
		row, col := k.Row, k.Col
		raw.Row = &row
		raw.Col = &col
	}
	if k.U != 1 {
		u := k.U
		raw.U = &u
	}
	if k.H != 1 {
		h := k.H
		raw.H = &h
	}
	if k.R != 0 {
		r := k.R
		raw.R = &r
	}
	if k.HasOrigin && (k.R != 0 || k.RX != k.X || k.RY != k.Y) {
		rx, ry := k.RX, k.RY
		raw.RX = &rx
		raw.RY = &ry
	}

	return json.Marshal(raw)
}
