package layout

import "math"

// MirrorOptions configures Mirror
type MirrorOptions struct {
	// Gap is the horizontal space between the two halves in grid units.
	// It may be fractional; the column offset always rounds it up.
	Gap float64

	// ReferenceOriginal tags each input key with its index and marks the
	// mirrored copies as duplicates of that index.
	ReferenceOriginal bool
}

// span is the horizontal extent of a layout's key anchors and columns
type span struct {
	minX, maxRight float64 // leftmost X and rightmost X+U
	minCol, maxCol int
}

// Flip reflects keys across a vertical axis so that the rightmost column
// becomes the leftmost. Columns are renumbered and rotations negated. Keys
// within each row are reversed so reading order stays left to right.
//
// For a layout starting at X = 0 with 1u keys this is
// X' = maxX - X - (U-1) and Col' = maxCol - Col.
//
// A rotated key without an explicit origin rotates about its left corner,
// which the reflection moves to the right, so Flip pins the origin first.
//
// The layout must already be grouped into contiguous runs of equal Row.
func Flip(l Layout) Layout {
	if len(l) == 0 {
		return l.Clone()
	}

	s := extents(l)
	axis := s.minX + s.maxRight
	colAxis := s.minCol + s.maxCol

	out := make(Layout, 0, len(l))
	for _, run := range groupByRow(l) {
		for i := len(run) - 1; i >= 0; i-- {
			k := run[i]
			if k.R != 0 && !k.HasOrigin {
				k.RX, k.RY, k.HasOrigin = k.X, k.Y, true
			}
			k.X = axis - k.X - k.U
			k.Col = colAxis - k.Col
			if k.R != 0 {
				k.R = -k.R
			}
			if k.HasOrigin {
				k.RX = axis - k.RX
			}
			out = append(out, k)
		}
	}
	return out
}

// Mirror appends a flipped copy of every row to the right of the original,
// producing both halves of a symmetric split keyboard. Row runs stay
// contiguous and in their original order.
func Mirror(l Layout, opts MirrorOptions) Layout {
	if len(l) == 0 {
		return l.Clone()
	}

	src := l.Clone()
	if opts.ReferenceOriginal {
		for i := range src {
			src[i].Original = i
			src[i].HasOriginal = true
		}
	}

	// the mirrored half is the reflection of src about axis/2, so its left
	// edge lands at axis - bbox.Max.X; move that to bbox.Max.X + Gap
	s := extents(src)
	bbox := BoundingRect(src, UnitOptions())
	dx := 2*bbox.Max.X - (s.minX + s.maxRight) + opts.Gap
	dcol := s.maxCol - s.minCol + 1 + int(math.Ceil(opts.Gap))

	rows := groupByRow(src)
	flippedRows := groupByRow(Flip(src))

	out := make(Layout, 0, 2*len(src))
	for i, run := range rows {
		out = append(out, run...)
		if i >= len(flippedRows) {
			continue
		}
		for _, k := range flippedRows[i] {
			k.X += dx
			k.Col += dcol
			if k.HasOrigin {
				k.RX += dx
			}
			if opts.ReferenceOriginal {
				k.Duplicate = true
			}
			out = append(out, k)
		}
	}
	return out
}

func extents(l Layout) span {
	s := span{minX: math.Inf(1), maxRight: math.Inf(-1)}
	for i, k := range l {
		s.minX = math.Min(s.minX, k.X)
		s.maxRight = math.Max(s.maxRight, k.X+k.U)
		if i == 0 || k.Col < s.minCol {
			s.minCol = k.Col
		}
		if i == 0 || k.Col > s.maxCol {
			s.maxCol = k.Col
		}
	}
	return s
}

// groupByRow splits a layout into runs of consecutive keys sharing a row
func groupByRow(l Layout) []Layout {
	var rows []Layout
	for i, k := range l {
		if i == 0 || l[i-1].Row != k.Row {
			rows = append(rows, Layout{})
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], k)
	}
	return rows
}
