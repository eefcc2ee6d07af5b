package infer

import (
	"math"
	"slices"

	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

// DefaultRowTolerance is the vertical gap, in grid units, that the
// clustering pass treats as a row boundary
const DefaultRowTolerance = 0.5

// Diagnostics compares the row-break heuristic with an independent
// clustering of raw y coordinates
type Diagnostics struct {
	Rows            int  // Rows produced by the row-break heuristic
	ClusteredRows   int  // Rows found by gap-based clustering on y
	OrderUnreliable bool // The two counts disagree
}

// Diagnose checks whether keys inferred from switches have a plausible
// row structure. Row-break inference trusts the input order; clustering
// on y does not, so a mismatch usually means the order was wrong (for
// example an irregular reference naming scheme).
func Diagnose(switches []Switch, keys layout.Layout, opts Options) Diagnostics {
	var d Diagnostics
	if len(keys) == 0 {
		return d
	}

	for _, k := range keys {
		d.Rows = max(d.Rows, k.Row+1)
	}

	tolerance := opts.RowTolerance
	if tolerance <= 0 {
		tolerance = DefaultRowTolerance
	}
	d.ClusteredRows = ClusterRows(switches, opts.Spacing.Y, tolerance)
	d.OrderUnreliable = d.Rows != d.ClusteredRows

	return d
}

// ClusterRows counts rows by sorting switch y positions and splitting
// wherever consecutive values are more than tolerance grid units apart.
// pitchY converts millimeters to grid units.
func ClusterRows(switches []Switch, pitchY, tolerance float64) int {
	if len(switches) == 0 {
		return 0
	}

	ys := make([]float64, len(switches))
	for i, sw := range switches {
		ys[i] = sw.Position.Y / pitchY
	}
	slices.Sort(ys)

	rows := 1
	for i := 1; i < len(ys); i++ {
		if math.Abs(ys[i]-ys[i-1]) > tolerance {
			rows++
		}
	}
	return rows
}
