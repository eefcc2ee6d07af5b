// Package loader reads layouts and switch lists from JSON documents.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
	"github.com/OpenTraceLab/keylayout/pkg/infer"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
)

var (
	ErrInvalidJSON    = errors.New("invalid JSON")
	ErrNoLayouts      = errors.New("no layouts found")
	ErrLayoutNotFound = errors.New("layout not found")
)

// Named is a layout together with the name it was stored under. Bare
// arrays load with an empty name.
type Named struct {
	Name   string
	Layout layout.Layout
}

// ReadFile reads path, or standard input when path is "-"
func ReadFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// ParseLayouts accepts either a bare array of keys or an info document of
// the form {"layouts": {"NAME": {"layout": [...]}}}. Named layouts are
// returned in document order.
func ParseLayouts(data []byte) ([]Named, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)

	if root.IsArray() {
		l, err := parseKeys(root)
		if err != nil {
			return nil, err
		}
		return []Named{{Layout: l}}, nil
	}

	layouts := root.Get("layouts")
	if !layouts.IsObject() {
		return nil, fmt.Errorf("%w: expected an array or a \"layouts\" object", ErrNoLayouts)
	}

	var (
		out []Named
		err error
	)
	layouts.ForEach(func(name, value gjson.Result) bool {
		var l layout.Layout
		l, err = parseKeys(value.Get("layout"))
		if err != nil {
			err = fmt.Errorf("layout %s: %w", name.String(), err)
			return false
		}
		out = append(out, Named{Name: name.String(), Layout: l})
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoLayouts
	}
	return out, nil
}

func parseKeys(arr gjson.Result) (layout.Layout, error) {
	if !arr.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of keys", ErrInvalidJSON)
	}

	items := arr.Array()
	l := make(layout.Layout, 0, len(items))
	for i, item := range items {
		var k layout.Key
		if err := json.Unmarshal([]byte(item.Raw), &k); err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		l = append(l, k)
	}
	return l, nil
}

// Select returns the layout called name. An empty name selects the only
// layout when there is exactly one.
func Select(layouts []Named, name string) (layout.Layout, error) {
	names := make([]string, len(layouts))
	for i, n := range layouts {
		if n.Name == name {
			return n.Layout, nil
		}
		names[i] = n.Name
	}

	if name == "" && len(layouts) == 1 {
		return layouts[0].Layout, nil
	}
	if name == "" {
		return nil, fmt.Errorf("%w: several layouts, pick one of: %s", ErrLayoutNotFound, strings.Join(names, ", "))
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrLayoutNotFound, name, strings.Join(names, ", "))
}

// LoadLayout reads a layout document and selects one layout from it
func LoadLayout(path, name string) (layout.Layout, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	layouts, err := ParseLayouts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Select(layouts, name)
}

// ParseSwitches reads a JSON array of switches:
//
//	[{"reference": "SW1", "x": 100.5, "y": 42, "angle": 0,
//	  "module": "Keyboard:SW_Cherry_MX_1.00u_PCB", "u": 1, "h": 1}]
//
// Positions are switch centers in millimeters and angles are degrees
// clockwise on screen. "u" and "h" are optional.
func ParseSwitches(data []byte) ([]infer.Switch, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of switches", ErrInvalidJSON)
	}

	items := root.Array()
	switches := make([]infer.Switch, 0, len(items))
	for i, item := range items {
		x, y := item.Get("x"), item.Get("y")
		if x.Type != gjson.Number || y.Type != gjson.Number {
			return nil, fmt.Errorf("switch %d: x and y must be numbers", i)
		}

		sw := infer.Switch{
			Reference: item.Get("reference").String(),
			Position:  geom.Point{X: x.Float(), Y: y.Float()},
			Angle:     item.Get("angle").Float(),
			Module:    item.Get("module").String(),
		}
		if u := item.Get("u"); u.Exists() {
			sw.Size.Width = u.Float()
			sw.Size.Height = 1
		}
		if h := item.Get("h"); h.Exists() {
			sw.Size.Height = h.Float()
			if sw.Size.Width == 0 {
				sw.Size.Width = 1
			}
		}
		if sw.Size != (geom.Size{}) && (sw.Size.Width <= 0 || sw.Size.Height <= 0) {
			return nil, fmt.Errorf("switch %d: size must be positive, got %gx%g", i, sw.Size.Width, sw.Size.Height)
		}
		switches = append(switches, sw)
	}
	return switches, nil
}

// LoadSwitches reads a switch list from path, or stdin for "-"
func LoadSwitches(path string) ([]infer.Switch, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	switches, err := ParseSwitches(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return switches, nil
}

// WriteLayout encodes l as an indented JSON array of keys
func WriteLayout(w io.Writer, l layout.Layout) error {
	if l == nil {
		l = layout.Layout{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return nil
}
