package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/keylayout/internal/loader"
	"github.com/OpenTraceLab/keylayout/pkg/pipeline"
)

var (
	layoutName     string
	transformExpr  string
	transformFile  string
	transformOut   string
	transformsList bool
)

var transformCmd = &cobra.Command{
	Use:   "transform <layout.json>",
	Short: "Apply a pipeline of transforms to a layout",
	Long: `Run a pipeline of transforms over a layout and print the result.

A pipeline is a list of steps separated by '|'. Steps take optional
keyword arguments:
  flip | mirror(gap=1, reference=true) | origin | precision(digits=2)

The layout may be a bare array of keys or an info document with a
"layouts" object; use --layout to pick one.

Examples:
  keylayout transform layout.json --apply flip
  keylayout transform info.json --layout LAYOUT_split --apply "mirror(gap=0.5) | origin"
  keylayout transform layout.json --apply-file build.pipe -o out.json
  keylayout transform --list`,
	Args: func(cmd *cobra.Command, args []string) error {
		if transformsList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVarP(&transformExpr, "apply", "a", "", "pipeline expression")
	transformCmd.Flags().StringVarP(&transformFile, "apply-file", "f", "", "file containing a pipeline")
	transformCmd.Flags().StringVarP(&layoutName, "layout", "l", "", "layout name inside an info document")
	transformCmd.Flags().StringVarP(&transformOut, "output", "o", "", "output file (default stdout)")
	transformCmd.Flags().BoolVar(&transformsList, "list", false, "list available transforms")
	transformCmd.MarkFlagsMutuallyExclusive("apply", "apply-file")
}

func runTransform(cmd *cobra.Command, args []string) error {
	if transformsList {
		for _, name := range pipeline.Names() {
			t, _ := pipeline.Lookup(name)
			fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s\n", name, t.Description)
			if len(t.Params) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s args: %v\n", "", t.Params)
			}
		}
		return nil
	}

	parser, err := pipeline.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	var pl *pipeline.Pipeline
	switch {
	case transformFile != "":
		pl, err = parser.ParseFile(transformFile)
	case transformExpr != "":
		pl, err = parser.ParseString(transformExpr)
	default:
		return fmt.Errorf("nothing to do: pass --apply or --apply-file")
	}
	if err != nil {
		return err
	}

	prog, err := pipeline.Bind(pl, cfg.PipelineDefaults())
	if err != nil {
		return err
	}

	l, err := loader.LoadLayout(args[0], layoutName)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Applying %s to %d keys\n", prog, len(l))
	}

	out := prog.Apply(l)
	return writeOutput(cmd, transformOut, func(w io.Writer) error {
		return loader.WriteLayout(w, out)
	})
}
