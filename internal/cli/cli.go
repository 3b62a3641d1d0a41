// Package cli implements the gearbox command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gearbox/pkg/buildinfo"
	"github.com/matzehuels/gearbox/pkg/cache"
	"github.com/matzehuels/gearbox/pkg/config"
	"github.com/matzehuels/gearbox/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gearbox"
)

// Log levels the commands switch between.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogFatal = log.FatalLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is the effective configuration, loaded before any command runs.
	Config config.Config

	// ConfigPath is the file Config was read from, empty for built-in defaults.
	ConfigPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Gearbox lays out drivetrain components on a snapping plan view",
		Long:         `Gearbox is a CLI for arranging gears, shafts, bearings and housings on a plan view. Components snap to shafts, to meshing distance with other gears, and to a grid; moving a shaft carries the parts mounted on it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.replayCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the configuration at path (or the default location when
// path is empty) and applies its log level unless verbose is set.
func (c *CLI) loadConfig(path string, verbose bool) error {
	cfg, used, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.ConfigPath = used

	if verbose {
		c.SetLogLevel(LogDebug)
	} else {
		level, err := cfg.LogLevel()
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}
	if used != "" {
		c.Logger.Debug("loaded config", "path", used)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Artifact keys are
// scoped by build version.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	artifacts, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(c.Config, artifacts, c.Logger)
	r.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return r, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gearbox/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input (and a trailing
// ".scene" when present). If output carries a known format extension, that
// extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".scene")
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, formats := range pipeline.ViewFormats {
		for _, f := range formats {
			if f == ext {
				return strings.TrimSuffix(output, "."+ext)
			}
		}
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single
// format with an explicit output path is written there verbatim; otherwise
// files are named base[_suffix].format.
func outputPaths(output, input, suffix string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	if suffix != "" {
		base += "_" + suffix
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
