// Package config loads keylayout settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/keylayout/pkg/infer"
	"github.com/OpenTraceLab/keylayout/pkg/layout"
	"github.com/OpenTraceLab/keylayout/pkg/pipeline"
	"github.com/OpenTraceLab/keylayout/pkg/selection"
)

// EnvConfigPath names a config file when none is given explicitly
const EnvConfigPath = "KEYLAYOUT_CONFIG"

// Config holds every tunable used by the command line tools
type Config struct {
	Render    RenderConfig  `yaml:"render"`
	Spacing   SpacingConfig `yaml:"spacing"`
	Mirror    MirrorConfig  `yaml:"mirror"`
	Overlap   OverlapConfig `yaml:"overlap"`
	Precision int           `yaml:"precision"`
}

// RenderConfig is the pixel scale used for previews and pixel-space
// hit testing
type RenderConfig struct {
	KeyUnitPx float64 `yaml:"key_unit_px"`
	PaddingPx float64 `yaml:"padding_px"`
}

// SpacingConfig selects the switch pitch used for inference
type SpacingConfig struct {
	Default  string                   `yaml:"default"`
	Profiles map[string]infer.Spacing `yaml:"profiles,omitempty"`
}

// MirrorConfig holds defaults for the mirror transform
type MirrorConfig struct {
	Gap float64 `yaml:"gap"`
}

// OverlapConfig holds defaults for overlap detection
type OverlapConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			KeyUnitPx: layout.DefaultKeyUnitPx,
			PaddingPx: layout.DefaultPaddingPx,
		},
		Spacing: SpacingConfig{
			Default:  "mx",
			Profiles: map[string]infer.Spacing{},
		},
		Mirror:    MirrorConfig{Gap: 1},
		Overlap:   OverlapConfig{Threshold: selection.DefaultOverlapThreshold},
		Precision: 2,
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	profiles, err := normalizeProfiles(cfg.Spacing.Profiles)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	cfg.Spacing.Profiles = profiles

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// normalizeProfiles lowercases profile names, matching how ParseSpacing
// looks them up
func normalizeProfiles(in map[string]infer.Spacing) (map[string]infer.Spacing, error) {
	out := make(map[string]infer.Spacing, len(in))
	for name, s := range in {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("spacing.profiles: %q is defined more than once", key)
		}
		out[key] = s
	}
	return out, nil
}

// Resolve loads path, or the file named by KEYLAYOUT_CONFIG when path is
// empty. With neither set it returns the defaults.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	var errs []error

	if c.Render.KeyUnitPx <= 0 {
		errs = append(errs, fmt.Errorf("render.key_unit_px must be positive, got %g", c.Render.KeyUnitPx))
	}
	if c.Render.PaddingPx < 0 || c.Render.PaddingPx >= c.Render.KeyUnitPx {
		errs = append(errs, fmt.Errorf("render.padding_px must be in [0, key_unit_px), got %g", c.Render.PaddingPx))
	}
	for name, s := range c.Spacing.Profiles {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("spacing.profiles.%s: %w", name, err))
		}
	}
	if _, err := c.SpacingFor(""); err != nil {
		errs = append(errs, fmt.Errorf("spacing.default: %w", err))
	}
	if c.Mirror.Gap < 0 {
		errs = append(errs, fmt.Errorf("mirror.gap must not be negative, got %g", c.Mirror.Gap))
	}
	if c.Overlap.Threshold < 0 {
		errs = append(errs, fmt.Errorf("overlap.threshold must not be negative, got %g", c.Overlap.Threshold))
	}
	if c.Precision < 0 || c.Precision > layout.MaxPrecision {
		errs = append(errs, fmt.Errorf("precision must be in [0, %d], got %d", layout.MaxPrecision, c.Precision))
	}

	return errors.Join(errs...)
}

// SpacingFor resolves a spacing name or "XxY" value against the configured
// profiles. An empty name selects the configured default.
func (c *Config) SpacingFor(name string) (infer.Spacing, error) {
	if name == "" {
		name = c.Spacing.Default
	}
	return infer.ParseSpacing(name, c.Spacing.Profiles)
}

// RenderOptions returns the pixel-space render options
func (c *Config) RenderOptions() layout.RenderOptions {
	return layout.RenderOptions{KeyUnitPx: c.Render.KeyUnitPx, PaddingPx: c.Render.PaddingPx}
}

// PipelineDefaults returns argument defaults for transform pipelines
func (c *Config) PipelineDefaults() pipeline.Defaults {
	return pipeline.Defaults{MirrorGap: c.Mirror.Gap, Precision: c.Precision}
}
