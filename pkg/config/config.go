// Package config loads the optional streamgrid configuration file.
//
// Settings are layered: the pipeline defaults, then the config file, then
// command-line flags. A file looks like:
//
//	[render]
//	formats    = ["png", "svg"]
//	dpi        = 300
//	cell_size  = 1.5
//	output_dir = "heatmaps"
//	palette    = "RdYlBu"
//	zeroed     = true
//	peak       = 5325
//
//	[stream]
//	metrics = ["copy_avg", "triad_avg"]
//
// The file is read from the --config flag, else from
// $XDG_CONFIG_HOME/streamgrid/config.toml when that file exists.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/adrianjhpc/streamgrid/pkg/bench"
	"github.com/adrianjhpc/streamgrid/pkg/errors"
	"github.com/adrianjhpc/streamgrid/pkg/pipeline"
	"github.com/adrianjhpc/streamgrid/pkg/render"
	"github.com/adrianjhpc/streamgrid/pkg/render/heatmap"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// Config is the decoded config file. The zero value is an empty config.
type Config struct {
	Render RenderConfig `toml:"render"`
	Stream StreamConfig `toml:"stream"`

	// Path is the file the config was read from, empty when none was found.
	Path string `toml:"-"`
}

// RenderConfig holds the [render] section.
type RenderConfig struct {
	Formats   []string `toml:"formats"`
	DPI       int      `toml:"dpi"`
	CellSize  float64  `toml:"cell_size"`
	FontSize  float64  `toml:"font_size"`
	OutputDir string   `toml:"output_dir"`
	Palette   string   `toml:"palette"`
	Zeroed    bool     `toml:"zeroed"`
	Peak      float64  `toml:"peak"`
}

// StreamConfig holds the [stream] section.
type StreamConfig struct {
	Metrics []string `toml:"metrics"`
}

// DefaultPath returns $XDG_CONFIG_HOME/streamgrid/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "streamgrid", FileName), nil
}

// Load reads and validates the config at path. An empty path means the
// default location, where a missing file yields an empty config; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return &Config{}, nil
			}
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates a TOML document. Unknown keys are rejected.
func Parse(doc string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config values. Unset values are valid.
func (c *Config) Validate() error {
	for _, f := range c.Render.Formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return invalid(err, "render.formats")
		}
	}
	if c.Render.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.dpi must be positive, got %d", c.Render.DPI)
	}
	if c.Render.CellSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.cell_size must be positive, got %g", c.Render.CellSize)
	}
	if c.Render.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.font_size must be positive, got %g", c.Render.FontSize)
	}
	if c.Render.Peak < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.peak must be positive, got %g", c.Render.Peak)
	}
	if c.Render.Palette != "" {
		if _, err := render.NewRamp(c.Render.Palette, 2); err != nil {
			return invalid(err, "render.palette")
		}
	}
	if c.Render.OutputDir != "" {
		if err := errors.ValidateOutputPath(c.Render.OutputDir); err != nil {
			return invalid(err, "render.output_dir")
		}
	}
	for _, m := range c.Stream.Metrics {
		if err := errors.ValidateMetricKey(m); err != nil {
			return invalid(err, "stream.metrics")
		}
	}
	return nil
}

func invalid(err error, field string) error {
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", field)
}

// ApplyTo copies config values into opts wherever opts leaves a field unset,
// so values already taken from flags win. With render.zeroed the zeroed
// variant is added next to the base one.
func (c *Config) ApplyTo(opts *pipeline.Options) {
	r := c.Render
	if len(opts.Formats) == 0 && len(r.Formats) > 0 {
		opts.Formats = slices.Clone(r.Formats)
	}
	if opts.DPI == 0 {
		opts.DPI = r.DPI
	}
	if opts.CellSize == 0 {
		opts.CellSize = r.CellSize
	}
	if opts.FontSize == 0 {
		opts.FontSize = r.FontSize
	}
	if opts.Palette == "" {
		opts.Palette = r.Palette
	}
	if opts.Peak == 0 {
		opts.Peak = r.Peak
	}
	if r.Zeroed && !slices.Contains(opts.Variants, heatmap.Zeroed) {
		if len(opts.Variants) == 0 {
			opts.Variants = []heatmap.Variant{heatmap.Base}
		}
		opts.Variants = append(opts.Variants, heatmap.Zeroed)
	}
}

// StreamMetrics returns the [stream] metric selection.
func (c *Config) StreamMetrics() []bench.MetricKey {
	out := make([]bench.MetricKey, 0, len(c.Stream.Metrics))
	for _, m := range c.Stream.Metrics {
		out = append(out, bench.MetricKey(m))
	}
	return out
}
