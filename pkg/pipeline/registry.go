package pipeline

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

var (
	ErrUnknownTransform = errors.New("unknown transform")
	ErrUnknownArgument  = errors.New("unknown argument")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Defaults supplies argument values that a step leaves out
type Defaults struct {
	MirrorGap float64
	Precision int
}

// Args holds a step's arguments by name
type Args map[string]*Value

// Float returns the numeric argument name, or def when absent
func (a Args) Float(name string, def float64) (float64, error) {
	v, ok := a[name]
	if !ok {
		return def, nil
	}
	if v.Number == nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %s", ErrInvalidArgument, name, v)
	}
	return *v.Number, nil
}

// Int returns the integral argument name, or def when absent
func (a Args) Int(name string, def int) (int, error) {
	f, err := a.Float(name, float64(def))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %g", ErrInvalidArgument, name, f)
	}
	return int(f), nil
}

// Bool returns the boolean argument name, or def when absent
func (a Args) Bool(name string, def bool) (bool, error) {
	v, ok := a[name]
	if !ok {
		return def, nil
	}
	if v.Bool == nil {
		return false, fmt.Errorf("%w: %s must be true or false, got %s", ErrInvalidArgument, name, v)
	}
	return bool(*v.Bool), nil
}

// StepFunc is a bound transform, ready to run
type StepFunc func(l layout.Layout) layout.Layout

// Transform describes a named layout transform
type Transform struct {
	Name        string
	Description string
	Params      []string

	// Bind validates args and returns the step to run
	Bind func(args Args, defaults Defaults) (StepFunc, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Transform{}
)

// Register adds t to the set of transforms available to pipelines,
// replacing any transform with the same name. It is safe to call while
// other goroutines compile pipelines.
func Register(t Transform) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name] = t
}

// Lookup returns the transform registered under name
func Lookup(name string) (Transform, error) {
	registryMu.RLock()
	t, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return Transform{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownTransform, name, Names())
	}
	return t, nil
}

// Names returns the registered transform names in sorted order
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func noArgs(fn StepFunc) func(Args, Defaults) (StepFunc, error) {
	return func(Args, Defaults) (StepFunc, error) { return fn, nil }
}

func init() {
	Register(Transform{
		Name:        "flip",
		Description: "Reflect the layout horizontally in place",
		Bind:        noArgs(layout.Flip),
	})

	Register(Transform{
		Name:        "mirror",
		Description: "Append a reflected copy to the right of the layout",
		Params:      []string{"gap", "reference"},
		Bind: func(args Args, d Defaults) (StepFunc, error) {
			gap, err := args.Float("gap", d.MirrorGap)
			if err != nil {
				return nil, err
			}
			if gap < 0 {
				return nil, fmt.Errorf("%w: gap must not be negative, got %g", ErrInvalidArgument, gap)
			}
			ref, err := args.Bool("reference", false)
			if err != nil {
				return nil, err
			}
			opts := layout.MirrorOptions{Gap: gap, ReferenceOriginal: ref}
			return func(l layout.Layout) layout.Layout { return layout.Mirror(l, opts) }, nil
		},
	})

	for _, name := range []string{"origin", "normalize"} {
		Register(Transform{
			Name:        name,
			Description: "Move the layout so its bounding box starts at (0, 0)",
			Bind:        noArgs(layout.ToOrigin),
		})
	}

	Register(Transform{
		Name:        "precision",
		Description: "Round coordinates to a fixed number of decimal places",
		Params:      []string{"digits"},
		Bind: func(args Args, d Defaults) (StepFunc, error) {
			digits, err := args.Int("digits", d.Precision)
			if err != nil {
				return nil, err
			}
			if digits < 0 || digits > layout.MaxPrecision {
				return nil, fmt.Errorf("%w: digits must be in [0, %d], got %d", ErrInvalidArgument, layout.MaxPrecision, digits)
			}
			return func(l layout.Layout) layout.Layout { return layout.SetFixedPrecision(l, digits) }, nil
		},
	})

	Register(Transform{
		Name:        "translate",
		Description: "Move every key by (x, y) grid units",
		Params:      []string{"x", "y"},
		Bind: func(args Args, _ Defaults) (StepFunc, error) {
			dx, err := args.Float("x", 0)
			if err != nil {
				return nil, err
			}
			dy, err := args.Float("y", 0)
			if err != nil {
				return nil, err
			}
			return func(l layout.Layout) layout.Layout { return layout.Translate(l, dx, dy) }, nil
		},
	})
}

// bind resolves a parsed step against the registry
func bind(step *Step, defaults Defaults) (StepFunc, error) {
	t, err := Lookup(step.Name)
	if err != nil {
		return nil, err
	}

	args := make(Args, len(step.Args))
	for _, a := range step.Args {
		if !slices.Contains(t.Params, a.Key) {
			return nil, fmt.Errorf("%w: %s does not take %q", ErrUnknownArgument, t.Name, a.Key)
		}
		if _, dup := args[a.Key]; dup {
			return nil, fmt.Errorf("%w: %s given twice", ErrInvalidArgument, a.Key)
		}
		args[a.Key] = a.Value
	}

	fn, err := t.Bind(args, defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	return fn, nil
}
