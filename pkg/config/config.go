// Package config loads gearbox.toml.
//
// All keys are optional; anything not set keeps its default. Unknown keys
// are rejected so that a typo does not silently fall back to a default.
//
//	[snap]
//	grid = 10.0
//	shaft_threshold = 25.0
//	mesh_threshold = 20.0
//	enabled = true
//
//	[viewport]
//	min_zoom = 0.1
//	max_zoom = 5.0
//	wheel_sensitivity = 0.002
//	zoom_step = 1.2
//
//	[viewport.home]
//	x = -500.0
//	y = -400.0
//	zoom = 1.0
//
//	[linkage]
//	tolerance = 0.1
//	margin = 20.0
//
//	[log]
//	level = "info"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/linkage"
	"github.com/matzehuels/gearbox/pkg/snap"
	"github.com/matzehuels/gearbox/pkg/viewport"
)

// FileName is the name of the config file inside the config directory.
const FileName = "gearbox.toml"

// Config is the complete configuration.
type Config struct {
	Snap     snap.Config     `toml:"snap"`
	Viewport viewport.Config `toml:"viewport"`
	Linkage  linkage.Config  `toml:"linkage"`
	Log      Log             `toml:"log"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Snap:     snap.DefaultConfig(),
		Viewport: viewport.DefaultConfig(),
		Linkage:  linkage.DefaultConfig(),
		Log:      Log{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gearbox/gearbox.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config directory")
	}
	return filepath.Join(dir, "gearbox", FileName), nil
}

// Load reads the configuration. An explicit path must exist. With an empty
// path the default location is tried and, if there is no file there, the
// defaults are returned. The second return value is the file actually read,
// or "" for defaults.
func Load(path string) (Config, string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), "", nil
		}
		if _, err := os.Stat(p); err != nil {
			return Default(), "", nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, "", errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, path, nil
}

// Decode parses TOML on top of the defaults and validates the result.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value for a usable range.
func (c Config) Validate() error {
	v := c.Viewport
	checks := []error{
		positive("snap.grid", c.Snap.Grid),
		errors.RequireRange("snap.shaft_threshold", c.Snap.ShaftThreshold, 0, 1e6),
		errors.RequireRange("snap.mesh_threshold", c.Snap.MeshThreshold, 0, 1e6),
		positive("viewport.min_zoom", v.MinZoom),
		errors.RequireRange("viewport.max_zoom", v.MaxZoom, v.MinZoom, 1e6),
		errors.RequireRange("viewport.home.zoom", v.Home.Zoom, v.MinZoom, v.MaxZoom),
		errors.RequireRange("viewport.wheel_sensitivity", v.WheelSensitivity, 0, 1),
		errors.RequireRange("viewport.zoom_step", v.ZoomStep, 1, 10),
		errors.RequireRange("linkage.tolerance", c.Linkage.Tolerance, 0, 1e6),
		errors.RequireRange("linkage.margin", c.Linkage.Margin, 0, 1e6),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func positive(field string, v float64) error {
	if !(v > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "%s must be greater than 0 (got %g)", field, v)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "log.level: unknown level %q", c.Log.Level)
	}
	return lvl, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}
