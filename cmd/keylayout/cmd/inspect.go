package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/keylayout/internal/loader"
	"github.com/OpenTraceLab/keylayout/pkg/geom"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
	"github.com/OpenTraceLab/keylayout/pkg/preview"
	"github.com/OpenTraceLab/keylayout/pkg/selection"
)

var (
	overlapThreshold float64
	overlapFail      bool

	selectRect  string
	selectPoint string
	selectTrail string
	selectPx    bool
)

var boundsCmd = &cobra.Command{
	Use:   "bounds <layout.json>",
	Short: "Show the bounding box of a layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runBounds,
}

var overlapsCmd = &cobra.Command{
	Use:   "overlaps <layout.json>",
	Short: "List keys that overlap another key",
	Long: `List every key whose outline overlaps another key by more than the
threshold, in grid units. Keys that only touch never overlap.

Examples:
  keylayout overlaps layout.json
  keylayout overlaps layout.json --threshold 0 --fail`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlaps,
}

var selectCmd = &cobra.Command{
	Use:   "select <layout.json>",
	Short: "Hit-test a selection against a layout",
	Long: `Report which keys a selection gesture hits. Give exactly one of
--rect, --point or --trail. Coordinates are grid units, or with --px
pixels in the image that preview draws with the same --margin and
--flip-view.

Examples:
  keylayout select layout.json --rect 0,0,1,1
  keylayout select layout.json --point 105,35 --px
  keylayout select layout.json --trail "0,0.5;3,0.5;3,1.5"`,
	Args: cobra.ExactArgs(1),
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(boundsCmd)
	rootCmd.AddCommand(overlapsCmd)
	rootCmd.AddCommand(selectCmd)

	for _, c := range []*cobra.Command{boundsCmd, overlapsCmd, selectCmd} {
		c.Flags().StringVarP(&layoutName, "layout", "l", "", "layout name inside an info document")
	}

	overlapsCmd.Flags().Float64VarP(&overlapThreshold, "threshold", "t", -1,
		"overlap tolerance in units (default from config)")
	overlapsCmd.Flags().BoolVar(&overlapFail, "fail", false, "exit with an error when keys overlap")

	selectCmd.Flags().StringVar(&selectRect, "rect", "", "selection rectangle x1,y1,x2,y2")
	selectCmd.Flags().StringVar(&selectPoint, "point", "", "click position x,y")
	selectCmd.Flags().StringVar(&selectTrail, "trail", "", "freehand trail x,y;x,y;...")
	selectCmd.Flags().BoolVar(&selectPx, "px", false, "coordinates are preview image pixels")
	selectCmd.Flags().Float64Var(&previewMargin, "margin", 10, "preview margin in pixels, used with --px")
	selectCmd.Flags().BoolVar(&previewFlip, "flip-view", false, "preview is seen from the back, used with --px")
	selectCmd.MarkFlagsMutuallyExclusive("rect", "point", "trail")
	selectCmd.MarkFlagsOneRequired("rect", "point", "trail")
}

func runBounds(cmd *cobra.Command, args []string) error {
	l, err := loader.LoadLayout(args[0], layoutName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Keys: %d\n", len(l))
	if len(l) == 0 {
		return nil
	}

	units := layout.BoundingRect(l, layout.UnitOptions())
	px := layout.BoundingRect(l, cfg.RenderOptions())
	fmt.Fprintf(out, "Units: (%g, %g) to (%g, %g), %g x %g\n",
		units.Min.X, units.Min.Y, units.Max.X, units.Max.Y, units.Width(), units.Height())
	fmt.Fprintf(out, "Pixels: (%g, %g) to (%g, %g), %g x %g\n",
		px.Min.X, px.Min.Y, px.Max.X, px.Max.Y, px.Width(), px.Height())

	addressed := "no"
	if l.Addressed() {
		addressed = "yes"
	}
	fmt.Fprintf(out, "Addressed: %s\n", addressed)
	return nil
}

func runOverlaps(cmd *cobra.Command, args []string) error {
	l, err := loader.LoadLayout(args[0], layoutName)
	if err != nil {
		return err
	}

	threshold := overlapThreshold
	if threshold < 0 {
		threshold = cfg.Overlap.Threshold
	}

	hits := selection.OverlappingKeys(l, threshold)
	fmt.Fprintf(cmd.OutOrStdout(), "Overlapping keys: %s\n", formatIndices(hits))

	if overlapFail && len(hits) > 0 {
		return fmt.Errorf("%d keys overlap", len(hits))
	}
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	l, err := loader.LoadLayout(args[0], layoutName)
	if err != nil {
		return err
	}

	toWorld := func(p geom.Point) geom.Point { return p }
	if selectPx {
		opts := preview.DefaultOptions()
		opts.Render = cfg.RenderOptions()
		opts.MarginPx = previewMargin
		opts.OverlapThreshold = -1
		opts.FlipView = previewFlip
		scene, err := preview.BuildScene(l, opts)
		if err != nil {
			return err
		}
		toWorld = scene.Camera().ScreenToWorld
	}
	polys := layout.Polygons(l)

	var hits []int
	switch {
	case selectRect != "":
		v, err := parseFloats(selectRect, 4)
		if err != nil {
			return fmt.Errorf("--rect: %w", err)
		}
		rect := geom.Box(
			toWorld(geom.Point{X: v[0], Y: v[1]}),
			toWorld(geom.Point{X: v[2], Y: v[3]}),
		)
		hits = selection.IntersectingPolygons(rect, polys)

	case selectPoint != "":
		v, err := parseFloats(selectPoint, 2)
		if err != nil {
			return fmt.Errorf("--point: %w", err)
		}
		if i := selection.KeyAt(toWorld(geom.Point{X: v[0], Y: v[1]}), polys); i >= 0 {
			hits = []int{i}
		}

	default:
		trail, err := parsePoints(selectTrail)
		if err != nil {
			return fmt.Errorf("--trail: %w", err)
		}
		for i := range trail {
			trail[i] = toWorld(trail[i])
		}
		hits = selection.IntersectingPolygonsTrail(trail, polys)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Selected: %s\n", formatIndices(hits))
	return nil
}
