package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/keylayout/internal/loader"
	"github.com/OpenTraceLab/keylayout/pkg/infer"
	"github.com/OpenTraceLab/keylayout/pkg/pipeline"
)

var (
	inferSpacing   string
	inferSize      bool
	inferOrder     string
	inferFlip      bool
	inferMirror    bool
	inferGap       float64
	inferPrecision int
	inferOutput    string
)

var inferCmd = &cobra.Command{
	Use:   "infer <switches.json>",
	Short: "Infer a grid layout from physical switch positions",
	Long: `Convert switch center coordinates in millimeters into a layout with
row/column addresses. Input is a JSON array of
  {"reference": "SW1", "x": 100, "y": 50, "angle": 0, "module": "...", "u": 1, "h": 1}
Use "-" to read standard input.

Rows are found by walking switches in reading order, so the order matters.
A warning is printed when it disagrees with the vertical clustering of the
switches.

The result can be flipped and mirrored, then moved to the origin and
rounded, in that order.

Examples:
  keylayout infer switches.json
  keylayout infer switches.json --spacing choc --infer-size
  keylayout infer switches.json --order position --mirror --gap 1.5 -o split.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfer,
}

func init() {
	rootCmd.AddCommand(inferCmd)

	inferCmd.Flags().StringVarP(&inferSpacing, "spacing", "s", "",
		"switch pitch: mx, choc, a config profile, or XxY in mm (default from config)")
	inferCmd.Flags().BoolVar(&inferSize, "infer-size", false,
		"read key sizes such as 1.25u from footprint names")
	inferCmd.Flags().StringVar(&inferOrder, "order", "reference",
		"reading order: reference, position or input")
	inferCmd.Flags().BoolVar(&inferFlip, "flip", false, "flip the layout horizontally")
	inferCmd.Flags().BoolVar(&inferMirror, "mirror", false, "append a mirrored copy for a split keyboard")
	inferCmd.Flags().Float64Var(&inferGap, "gap", -1, "gap between mirrored halves in units (default from config)")
	inferCmd.Flags().IntVar(&inferPrecision, "precision", -1, "decimal places to round to (default from config)")
	inferCmd.Flags().StringVarP(&inferOutput, "output", "o", "", "output file (default stdout)")
}

func orderFor(name string, spacing infer.Spacing) (infer.Order, error) {
	switch strings.ToLower(name) {
	case "reference", "ref":
		return infer.ByReference, nil
	case "position", "pos":
		// half a pitch separates rows
		return infer.ByPosition(spacing.Y / 2), nil
	case "input", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown order %q (use reference, position or input)", name)
	}
}

// importSteps builds the post-inference pipeline: flip, mirror, origin,
// precision
func importSteps() string {
	var steps []string
	if inferFlip {
		steps = append(steps, "flip")
	}
	if inferMirror {
		if inferGap >= 0 {
			steps = append(steps, fmt.Sprintf("mirror(gap=%g)", inferGap))
		} else {
			steps = append(steps, "mirror")
		}
	}
	steps = append(steps, "origin")
	if inferPrecision >= 0 {
		steps = append(steps, fmt.Sprintf("precision(digits=%d)", inferPrecision))
	} else {
		steps = append(steps, "precision")
	}
	return strings.Join(steps, " | ")
}

func runInfer(cmd *cobra.Command, args []string) error {
	switches, err := loader.LoadSwitches(args[0])
	if err != nil {
		return err
	}

	spacing, err := cfg.SpacingFor(inferSpacing)
	if err != nil {
		return err
	}
	order, err := orderFor(inferOrder, spacing)
	if err != nil {
		return err
	}

	parser, err := pipeline.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	prog, err := parser.Compile(importSteps(), cfg.PipelineDefaults())
	if err != nil {
		return err
	}

	res := infer.Generate(switches, infer.Options{
		Spacing:   spacing,
		InferSize: inferSize,
		Order:     order,
	})

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Inferred %d keys in %d rows at %s mm pitch\n",
			len(res.Layout), res.Diagnostics.Rows, spacing)
	}
	if res.Diagnostics.OrderUnreliable {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"warning: found %d rows by reading order but %d by position; try --order position\n",
			res.Diagnostics.Rows, res.Diagnostics.ClusteredRows)
	}

	out := prog.Apply(res.Layout)
	return writeOutput(cmd, inferOutput, func(w io.Writer) error {
		return loader.WriteLayout(w, out)
	})
}
