package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/keylayout/pkg/config"
	"github.com/OpenTraceLab/keylayout/pkg/infer"
	"github.com/OpenTraceLab/keylayout/pkg/pipeline"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded before any subcommand runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "keylayout",
	Short: "Keyboard layout geometry tools",
	Long: `keylayout works with keyboard layouts described as keys on a grid of
1u units. It can:
  - infer a row/column grid from physical switch positions
  - flip, mirror, normalize and round layouts
  - report bounding boxes and overlapping keys
  - hit-test selections and render SVG/PDF previews

Examples:
  keylayout infer switches.json --spacing choc --mirror --gap 1
  keylayout transform info.json --layout LAYOUT_split --apply "flip | origin"
  keylayout overlaps layout.json
  keylayout preview layout.json -o layout.svg`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default $"+config.EnvConfigPath+")")
}

func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		infer.SetLogger(logger)
		pipeline.SetLogger(logger)
	} else {
		infer.SetLogger(nil)
		pipeline.SetLogger(nil)
	}

	loaded, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}
