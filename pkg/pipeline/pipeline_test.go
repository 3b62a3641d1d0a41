package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/cache"
	"github.com/matzehuels/gearbox/pkg/config"
	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/script"
)

const scene = `
name = "two shafts"

[[event]]
kind = "drop"
type = "shaft"
world = true
as = "input"

[[event]]
kind = "drop"
type = "spur"
x = 50.0
world = true
as = "pinion"

[[event]]
kind = "drop"
type = "shaft"
x = 50.0
y = 300.0
world = true
as = "output"

[[event]]
kind = "drop"
type = "helical"
x = 50.0
y = 300.0
world = true
as = "wheel"

[[event]]
kind = "update"
target = "wheel"
fields = { teeth = 40 }

[[event]]
kind = "down"
target = "output"
x = 50.0
y = 300.0
world = true

[[event]]
kind = "move"
x = 50.0
y = 163.0
world = true

[[event]]
kind = "up"
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		view    string
		format  string
		wantErr bool
	}{
		{ViewPlan, "svg", false},
		{ViewPlan, "png", false},
		{ViewPlan, "pdf", false},
		{ViewPlan, "json", false},
		{ViewPlan, "dot", true},
		{ViewTopology, "dot", false},
		{ViewTopology, "json", false},
		{ViewPlan, "SVG", true}, // case-sensitive
		{ViewPlan, "", true},
		{"elevation", "svg", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.view, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q, %q) error = %v, wantErr %v", tt.view, tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q, %q) code = %s", tt.view, tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats(ViewPlan, []string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats(ViewPlan, []string{"svg", "dot"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(ViewTopology, nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{ScriptPath: "scene.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.View != ViewPlan {
		t.Errorf("View = %q, want plan", opts.View)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("Scale = %v, Logger = %v", opts.Scale, opts.Logger)
	}
	if opts.IsTopology() {
		t.Error("IsTopology() = true for plan view")
	}
}

func TestOptionsRequireScript(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateAndSetDefaults() error = %v, want INVALID_INPUT", err)
	}
}

func newRunner() *Runner {
	return NewRunner(config.Default(), nil, log.New(io.Discard))
}

func parse(t *testing.T) *script.Script {
	t.Helper()
	s, err := script.Parse([]byte(scene))
	if err != nil {
		t.Fatalf("script.Parse() error = %v", err)
	}
	return s
}

func TestExecutePlan(t *testing.T) {
	res, err := newRunner().Execute(context.Background(), Options{
		Script:  parse(t),
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Stats.Events != 8 || res.Stats.Applied != 8 || res.Stats.Items != 4 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	// output shaft snaps to y=160 on the grid and carries the wheel along;
	// 40+40 teeth at module 4 mesh at 160 exactly.
	wheelID := res.Aliases["wheel"]
	for _, it := range res.Frame.Items {
		if it.ID == wheelID && it.Pos != geom.Pt(50, 160) {
			t.Errorf("wheel at %v, want (50,160)", it.Pos)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing")
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact invalid")
	}
}

func TestExecuteTopology(t *testing.T) {
	res, err := newRunner().Execute(context.Background(), Options{
		Script:  parse(t),
		View:    ViewTopology,
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	dot := string(res.Artifacts[FormatDOT])
	for _, want := range []string{`input"`, `output"`, `label="160mm"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	var out struct {
		Edges []struct {
			Kind  string   `json:"kind"`
			Ratio *float64 `json:"ratio"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	var mesh int
	for _, e := range out.Edges {
		if e.Kind == "mesh" {
			mesh++
			if e.Ratio == nil || *e.Ratio != 1 {
				t.Errorf("mesh ratio = %v, want 1", e.Ratio)
			}
		}
	}
	if mesh != 1 || len(out.Edges) != 3 {
		t.Errorf("edges = %+v, want 2 mounted and 1 mesh", out.Edges)
	}
}

func TestExecuteScriptPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(scene), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newRunner().Execute(context.Background(), Options{ScriptPath: path, Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Script.Name != "two shafts" {
		t.Errorf("Script.Name = %q", res.Script.Name)
	}
}

func TestExecuteErrors(t *testing.T) {
	_, err := newRunner().Execute(context.Background(), Options{
		ScriptPath: filepath.Join(t.TempDir(), "missing.toml"),
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing script error = %v, want FILE_NOT_FOUND", err)
	}

	_, err = newRunner().Execute(context.Background(), Options{
		Script:  parse(t),
		Formats: []string{FormatDOT},
	})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("plan dot error = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(config.Default(), fc, log.New(io.Discard))
	defer r.Close()

	run := func(opts Options) *Result {
		t.Helper()
		opts.Script = parse(t)
		res, err := r.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		return res
	}

	plan := Options{Formats: []string{FormatSVG, FormatJSON}}
	first := run(plan)
	if first.Stats.CacheHits != 0 {
		t.Errorf("first run CacheHits = %d, want 0", first.Stats.CacheHits)
	}
	second := run(plan)
	if second.Stats.CacheHits != 2 {
		t.Errorf("second run CacheHits = %d, want 2", second.Stats.CacheHits)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	topo := run(Options{View: ViewTopology, Formats: []string{FormatDOT}})
	if topo.Stats.CacheHits != 0 {
		t.Errorf("topology CacheHits = %d, want 0", topo.Stats.CacheHits)
	}
	detailed := run(Options{View: ViewTopology, Formats: []string{FormatDOT}, Detailed: true})
	if detailed.Stats.CacheHits != 0 {
		t.Errorf("detailed topology CacheHits = %d, want 0", detailed.Stats.CacheHits)
	}

	other := config.Default()
	other.Snap.Grid = 5
	r2 := NewRunner(other, fc, log.New(io.Discard))
	res, err := r2.Execute(context.Background(), Options{Script: parse(t), Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.CacheHits != 0 {
		t.Error("a different configuration should not hit the cache")
	}
}

func TestExecuteProgress(t *testing.T) {
	r := newRunner()
	var stages []string
	opts := Options{
		Script:   parse(t),
		Formats:  []string{FormatSVG, FormatJSON},
		Progress: func(stage string) { stages = append(stages, stage) },
	}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"Replaying", "Rendering plan svg", "Rendering plan json"}
	if len(stages) != len(want) {
		t.Fatalf("stages = %q, want %d entries", stages, len(want))
	}
	for i, prefix := range want {
		if !strings.HasPrefix(stages[i], prefix) {
			t.Errorf("stage %d = %q, want prefix %q", i, stages[i], prefix)
		}
	}
}
