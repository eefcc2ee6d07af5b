package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/keylayout/pkg/geom"
)

// writeOutput runs write against the named file, or the command's stdout
// when path is empty or "-"
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseFloats parses a comma separated list of exactly n numbers
func parseFloats(value string, n int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %q", n, value)
	}

	out := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p, err)
		}
		out[i] = f
	}
	return out, nil
}

// parsePoints parses "x,y;x,y;..." into points
func parsePoints(value string) ([]geom.Point, error) {
	var pts []geom.Point
	for _, pair := range strings.Split(value, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		xy, err := parseFloats(pair, 2)
		if err != nil {
			return nil, err
		}
		pts = append(pts, geom.Point{X: xy[0], Y: xy[1]})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no points in %q", value)
	}
	return pts, nil
}

func formatIndices(indices []int) string {
	if len(indices) == 0 {
		return "none"
	}
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ", ")
}
