package infer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// sizePattern matches a width or height multiplier in a footprint name,
// e.g. "1.25u" in "SW_Cherry_MX_1.25u_PCB" or "2h" in "Choc_2h"
var sizePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)([uUhH])(?:[^a-zA-Z]|$)`)

// SizeFromModule parses key width ("u") and height ("h") multipliers from
// a footprint name. Missing multipliers default to 1.
func SizeFromModule(module string) geom.Size {
	size := geom.Size{Width: 1, Height: 1}

	for _, m := range sizePattern.FindAllStringSubmatch(module, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "u":
			size.Width = v
		case "h":
			size.Height = v
		}
	}
	return size
}

// isVertical reports whether a footprint angle is closer to a quarter turn
// than to the nominal horizontal orientation
func isVertical(angle float64) bool {
	a := math.Mod(math.Abs(angle), 180)
	return a > 45 && a < 135
}

// residualAngle folds an angle into (-45, 45]: the tilt left over after
// snapping to the nearest multiple of 90 degrees
func residualAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	r := math.Mod(angle, 90)
	if r < 0 {
		r += 90
	}
	if r > 45 {
		r -= 90
	}
	return r
}
