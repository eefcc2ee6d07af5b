package preview

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"
)

// Format is an output document type
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// pxToMm converts CSS pixels to the millimeters canvas works in
const pxToMm = 25.4 / 96

const (
	keyStrokeWidth     = 0.3
	overlapStrokeWidth = 0.8
)

// FormatFromPath picks the output format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		return FormatSVG, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported preview format %q (use .svg or .pdf)", ext)
	}
}

// Renderer draws scenes via github.com/tdewolff/canvas
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the given theme
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{Theme: theme}
}

// Render writes the scene to w in the given format
func (r *Renderer) Render(w io.Writer, scene *Scene, format Format) error {
	if scene == nil || len(scene.Shapes) == 0 {
		return ErrEmptyLayout
	}

	width := scene.Width * pxToMm
	height := scene.Height * pxToMm

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, Y down
	r.drawScene(ctx, scene)

	switch format {
	case FormatSVG:
		writer := svg.New(w, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to write SVG: %w", err)
		}
	case FormatPDF:
		writer := pdf.New(w, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported preview format %q", format)
	}
	return nil
}

func (r *Renderer) drawScene(ctx *canvas.Context, scene *Scene) {
	ctx.SetFillColor(r.Theme.Background)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(scene.Width*pxToMm, scene.Height*pxToMm))

	// overlapping outlines go last so neighbors cannot paint over them
	for _, overlaps := range []bool{false, true} {
		for _, s := range scene.Shapes {
			if s.Overlaps != overlaps {
				continue
			}
			r.drawShape(ctx, s)
		}
	}
}

func (r *Renderer) drawShape(ctx *canvas.Context, s Shape) {
	switch s.Style {
	case StyleSelected:
		ctx.SetFillColor(r.Theme.Selected)
	case StyleDuplicate:
		ctx.SetFillColor(r.Theme.Duplicate)
	default:
		ctx.SetFillColor(r.Theme.KeyFill)
	}

	if s.Overlaps {
		ctx.SetStrokeColor(r.Theme.Overlap)
		ctx.SetStrokeWidth(overlapStrokeWidth)
	} else {
		ctx.SetStrokeColor(r.Theme.KeyStroke)
		ctx.SetStrokeWidth(keyStrokeWidth)
	}

	p := &canvas.Path{}
	for i, pt := range s.Outline {
		if i == 0 {
			p.MoveTo(pt.X*pxToMm, pt.Y*pxToMm)
			continue
		}
		p.LineTo(pt.X*pxToMm, pt.Y*pxToMm)
	}
	p.Close()
	ctx.DrawPath(0, 0, p)
}
