// Package pipeline provides the replay → render pipeline behind the CLI.
//
// A run loads a scenario script, replays it into a fresh canvas controller
// built from the configuration, and renders the resulting layout in the
// requested formats. By centralizing this logic the replay and topology
// commands share one code path.
//
// # Views
//
//   - plan: the plan view (SVG, PNG, PDF, JSON)
//   - topology: the drivetrain graph (SVG, PNG, PDF, DOT, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, cache.NewNullCache(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ScriptPath: "gearbox.scene.toml",
//	    View:       pipeline.ViewPlan,
//	    Formats:    []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/render/topology"
	"github.com/matzehuels/gearbox/pkg/script"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Views.
const (
	ViewPlan     = "plan"
	ViewTopology = "topology"
)

// DefaultView is the view rendered when none is given.
const DefaultView = ViewPlan

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ViewFormats lists the formats each view supports.
var ViewFormats = map[string][]string{
	ViewPlan:     {FormatSVG, FormatPNG, FormatPDF, FormatJSON},
	ViewTopology: {FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON},
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input: ScriptPath is read unless Script is set.
	ScriptPath string
	Script     *script.Script

	// Render options
	View     string
	Formats  []string
	Scale    float64 // PNG only
	Detailed bool    // topology labels with parameters
	All      bool    // topology includes unconnected items

	// Runtime options
	Logger   *log.Logger
	Progress func(stage string) // called as each stage starts; may be nil

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Script is the replayed scenario.
	Script *script.Script

	// Frame is the render state after the replay.
	Frame canvas.Frame

	// Topology is the drivetrain graph of the final layout.
	Topology topology.Graph

	// Aliases maps script aliases to item ids.
	Aliases map[string]string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Events     int
	Applied    int
	Items      int
	CacheHits  int
	ReplayTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if _, ok := ViewFormats[view]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid view: %q (must be one of: plan, topology)", view)
	}
	return nil
}

// ValidateFormat checks that format is supported by view.
func ValidateFormat(view, format string) error {
	if err := ValidateView(view); err != nil {
		return err
	}
	if !slices.Contains(ViewFormats[view], format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid %s format: %q (must be one of: %s)",
			view, format, strings.Join(ViewFormats[view], ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported by view.
func ValidateFormats(view string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(view, f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Script == nil && o.ScriptPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "script or script path is required")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.View, o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsTopology reports whether the topology view is selected.
func (o *Options) IsTopology() bool {
	return o.View == ViewTopology
}

func (o *Options) progress(stage string) {
	if o.Progress != nil {
		o.Progress(stage)
	}
}
