package preview

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/tdewolff/canvas"
)

// Theme holds the colors used to draw a preview
type Theme struct {
	Background color.RGBA
	KeyFill    color.RGBA
	KeyStroke  color.RGBA
	Duplicate  color.RGBA // Fill of keys mirrored from another key
	Selected   color.RGBA // Fill of highlighted keys
	Overlap    color.RGBA // Outline of keys that collide
}

// Themes maps theme names to their colors
var Themes = map[string]Theme{
	"light": {
		Background: canvas.Hex("#ffffff"),
		KeyFill:    canvas.Hex("#f2f2f2"),
		KeyStroke:  canvas.Hex("#4a4a4a"),
		Duplicate:  canvas.Hex("#dde8f5"),
		Selected:   canvas.Hex("#ffe08a"),
		Overlap:    canvas.Hex("#d93025"),
	},
	"dark": {
		Background: canvas.Hex("#1e1e24"),
		KeyFill:    canvas.Hex("#3a3a44"),
		KeyStroke:  canvas.Hex("#9a9aa8"),
		Duplicate:  canvas.Hex("#2e3f57"),
		Selected:   canvas.Hex("#8a6d1c"),
		Overlap:    canvas.Hex("#ff5f56"),
	},
}

// DefaultTheme is used when no theme is named
const DefaultTheme = "light"

// LookupTheme returns the theme registered under name
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	t, ok := Themes[name]
	if !ok {
		names := make([]string, 0, len(Themes))
		for n := range Themes {
			names = append(names, n)
		}
		sort.Strings(names)
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, names)
	}
	return t, nil
}
