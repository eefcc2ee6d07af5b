package infer

import (
	"math"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

// Options controls Generate
type Options struct {
	// Spacing converts millimeters to grid units. Must be positive on both
	// axes; Generate does not check.
	Spacing Spacing

	// InferSize reads key sizes from footprint names (see SizeFromModule)
	InferSize bool

	// Order puts switches into reading order before rows are inferred.
	// Nil keeps the caller's order, which must already be reading order.
	Order Order

	// RowTolerance is the y gap, in grid units, that separates two rows in
	// the diagnostic clustering pass. Zero uses DefaultRowTolerance.
	RowTolerance float64
}

// Result is the output of Generate
type Result struct {
	Layout      layout.Layout
	Switches    []Switch // Switches in the order used, indexed like Layout
	Diagnostics Diagnostics
}

// Generate converts switch positions into an addressed layout.
//
// Rows are inferred from reading order: whenever a switch lies to the left
// of its predecessor a new row starts. Rotations are stored as the tilt
// remaining after snapping to the nearest quarter turn, about the key's
// center.
func Generate(switches []Switch, opts Options) Result {
	if opts.Order != nil {
		switches = opts.Order(switches)
	}

	minPos := geom.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, sw := range switches {
		minPos.X = math.Min(minPos.X, sw.Position.X)
		minPos.Y = math.Min(minPos.Y, sw.Position.Y)
	}

	keys := make(layout.Layout, 0, len(switches))
	row, col := 0, 0
	prevX := 0.0

	for i, sw := range switches {
		x := (sw.Position.X - minPos.X) / opts.Spacing.X
		y := (sw.Position.Y - minPos.Y) / opts.Spacing.Y

		if i > 0 {
			if x < prevX {
				row++
				col = 0
			} else {
				col++
			}
		}
		prevX = x

		angle := sw.Angle
		if math.IsNaN(angle) || math.IsInf(angle, 0) {
			angle = 0
		}

		size := switchSize(sw, angle, opts.InferSize)
		if size.Width > 1 {
			x -= (size.Width - 1) / 2
		}
		if size.Height > 1 {
			y -= (size.Height - 1) / 2
		}

		key := layout.NewKey(x, y).WithAddress(row, col).WithSize(size.Width, size.Height)
		if r := residualAngle(angle); r != 0 {
			key = key.WithRotation(r, x+size.Width/2, y+size.Height/2)
		}

		keys = append(keys, key)
	}

	result := Result{
		Layout:   keys,
		Switches: switches,
	}
	result.Diagnostics = Diagnose(switches, keys, opts)

	log := Logger()
	log.Debug("inferred layout",
		"switches", len(switches),
		"rows", result.Diagnostics.Rows,
		"spacing", opts.Spacing.String())
	if result.Diagnostics.OrderUnreliable {
		log.Warn("switch order looks unreliable",
			"rows", result.Diagnostics.Rows,
			"clustered_rows", result.Diagnostics.ClusteredRows)
	}

	return result
}

// switchSize resolves a switch's key size: an explicit size wins, then the
// footprint name when inference is enabled. Vertical footprints swap width
// and height.
func switchSize(sw Switch, angle float64, infer bool) geom.Size {
	size := geom.Size{Width: 1, Height: 1}

	switch {
	case sw.Size.Width > 0 || sw.Size.Height > 0:
		if sw.Size.Width > 0 {
			size.Width = sw.Size.Width
		}
		if sw.Size.Height > 0 {
			size.Height = sw.Size.Height
		}
	case infer:
		size = SizeFromModule(sw.Footprint())
	}

	if infer && isVertical(angle) {
		size.Width, size.Height = size.Height, size.Width
	}
	return size
}
