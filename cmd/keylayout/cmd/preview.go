package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/keylayout/internal/loader"
	"github.com/OpenTraceLab/keylayout/pkg/preview"
)

var (
	previewOutput    string
	previewTheme     string
	previewSelect    []int
	previewThreshold float64
	previewMargin    float64
	previewFlip      bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <layout.json>",
	Short: "Render a layout to SVG or PDF",
	Long: `Draw every key at the configured pixel scale. Keys that overlap
another key are outlined; mirrored copies and selected keys are shaded.
The format follows the output file extension.

Examples:
  keylayout preview layout.json -o layout.svg
  keylayout preview info.json --layout LAYOUT_split -o split.pdf --theme dark
  keylayout preview layout.json -o layout.svg --select 0,4,5 --threshold -1
  keylayout preview layout.json -o back.svg --flip-view`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "output file (.svg or .pdf)")
	previewCmd.Flags().StringVar(&previewTheme, "theme", preview.DefaultTheme, "color theme: light or dark")
	previewCmd.Flags().IntSliceVar(&previewSelect, "select", nil, "key indices to highlight")
	previewCmd.Flags().Float64Var(&previewThreshold, "threshold", 0,
		"overlap tolerance in units; negative disables outlines (default from config)")
	previewCmd.Flags().Float64Var(&previewMargin, "margin", 10, "margin around the layout in pixels")
	previewCmd.Flags().BoolVar(&previewFlip, "flip-view", false, "draw the layout as seen from the back")
	previewCmd.Flags().StringVarP(&layoutName, "layout", "l", "", "layout name inside an info document")
	_ = previewCmd.MarkFlagRequired("output")
}

func runPreview(cmd *cobra.Command, args []string) error {
	format, err := preview.FormatFromPath(previewOutput)
	if err != nil {
		return err
	}
	theme, err := preview.LookupTheme(previewTheme)
	if err != nil {
		return err
	}

	l, err := loader.LoadLayout(args[0], layoutName)
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.Render = cfg.RenderOptions()
	opts.MarginPx = previewMargin
	opts.Selected = previewSelect
	opts.FlipView = previewFlip
	opts.OverlapThreshold = cfg.Overlap.Threshold
	if cmd.Flags().Changed("threshold") {
		opts.OverlapThreshold = previewThreshold
	}

	scene, err := preview.BuildScene(l, opts)
	if err != nil {
		return err
	}

	r := preview.NewRenderer(theme)
	if err := writeOutput(cmd, previewOutput, func(w io.Writer) error {
		return r.Render(w, scene, format)
	}); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%.0f x %.0f px)\n", previewOutput, scene.Width, scene.Height)
	}
	return nil
}
