package infer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Spacing is the switch pitch in millimeters per grid unit
type Spacing struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Named spacing profiles
var (
	SpacingMX   = Spacing{X: 19, Y: 19}
	SpacingChoc = Spacing{X: 18, Y: 17}
)

// Presets maps profile names to their pitch
var Presets = map[string]Spacing{
	"mx":   SpacingMX,
	"choc": SpacingChoc,
}

// ErrInvalidSpacing is returned for profiles with a non-positive pitch
var ErrInvalidSpacing = errors.New("spacing must be positive")

// Validate rejects pitches that would divide by zero or flip an axis.
// Generate itself does not call it.
func (s Spacing) Validate() error {
	if !(s.X > 0) || !(s.Y > 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSpacing, s.X, s.Y)
	}
	return nil
}

func (s Spacing) String() string {
	return strconv.FormatFloat(s.X, 'f', -1, 64) + "x" + strconv.FormatFloat(s.Y, 'f', -1, 64)
}

// ParseSpacing resolves a profile name from presets (falling back to the
// built-in Presets) or a custom "XxY" millimeter pair such as "18.5x17.5"
func ParseSpacing(value string, presets map[string]Spacing) (Spacing, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if s, ok := presets[name]; ok {
		return s, s.Validate()
	}
	if s, ok := Presets[name]; ok {
		return s, nil
	}

	xs, ys, found := strings.Cut(name, "x")
	if !found {
		return Spacing{}, fmt.Errorf("unknown spacing profile %q (known: %s)", value, strings.Join(profileNames(presets), ", "))
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Spacing{}, fmt.Errorf("invalid spacing x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Spacing{}, fmt.Errorf("invalid spacing y %q: %w", ys, err)
	}

	s := Spacing{X: x, Y: y}
	return s, s.Validate()
}

func profileNames(presets map[string]Spacing) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range []map[string]Spacing{Presets, presets} {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
