package infer

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
)

// Order puts switches into reading order: left to right within a row, rows
// top to bottom. It returns a new slice and leaves its input alone.
type Order func(switches []Switch) []Switch

// SortBy builds a stable Order from a pairwise comparison
func SortBy(compare func(a, b Switch) int) Order {
	return func(switches []Switch) []Switch {
		sorted := slices.Clone(switches)
		slices.SortStableFunc(sorted, compare)
		return sorted
	}
}

// ByReference orders switches by the number in their reference designator,
// which is how most keyboard schematics are annotated
var ByReference = SortBy(CompareReference)

var referenceNumberPattern = regexp.MustCompile(`(\d+)\D*$`)

// ReferenceNumber extracts the trailing number of a reference designator
// ("SW12" -> 12, "K_3" -> 3). ok is false when there is none.
func ReferenceNumber(reference string) (n int, ok bool) {
	m := referenceNumberPattern.FindStringSubmatch(reference)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompareReference compares reference designators by number. Switches
// without a number sort last, by name.
func CompareReference(a, b Switch) int {
	na, oka := ReferenceNumber(a.Reference)
	nb, okb := ReferenceNumber(b.Reference)

	switch {
	case oka && okb:
		return cmp.Or(cmp.Compare(na, nb), cmp.Compare(a.Reference, b.Reference))
	case oka:
		return -1
	case okb:
		return 1
	default:
		return cmp.Compare(a.Reference, b.Reference)
	}
}

// ByPosition groups switches into rows by y coordinate and orders each row
// by x. A switch starts a new row when its y is at least tolerance
// millimeters below the previous switch in y order.
func ByPosition(tolerance float64) Order {
	return func(switches []Switch) []Switch {
		sorted := slices.Clone(switches)
		slices.SortStableFunc(sorted, func(a, b Switch) int {
			return cmp.Compare(a.Position.Y, b.Position.Y)
		})

		start := 0
		for i := 1; i <= len(sorted); i++ {
			if i < len(sorted) && sorted[i].Position.Y-sorted[i-1].Position.Y < tolerance {
				continue
			}
			slices.SortStableFunc(sorted[start:i], func(a, b Switch) int {
				return cmp.Compare(a.Position.X, b.Position.X)
			})
			start = i
		}
		return sorted
	}
}
