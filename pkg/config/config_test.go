package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/viewport"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecodePartial(t *testing.T) {
	cfg, err := Decode([]byte(`
[snap]
grid = 5.0
enabled = false

[viewport.home]
x = 0.0
y = 0.0
zoom = 2.0

[log]
level = "debug"
`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.Snap.Grid != 5 || cfg.Snap.Enabled {
		t.Errorf("Snap = %+v", cfg.Snap)
	}
	if cfg.Snap.MeshThreshold != 20 || cfg.Snap.ShaftThreshold != 25 {
		t.Errorf("unset thresholds lost their defaults: %+v", cfg.Snap)
	}
	if cfg.Viewport.Home != (viewport.Viewport{X: 0, Y: 0, Zoom: 2}) {
		t.Errorf("Home = %+v", cfg.Viewport.Home)
	}
	if cfg.Viewport.MaxZoom != 5 {
		t.Errorf("MaxZoom = %v, want 5", cfg.Viewport.MaxZoom)
	}
	if lvl, _ := cfg.LogLevel(); lvl != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", lvl)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"syntax", "[snap\ngrid = 1", "parse config"},
		{"unknown key", "[snap]\ngird = 5.0", "snap.gird"},
		{"zero grid", "[snap]\ngrid = 0.0", "snap.grid"},
		{"negative threshold", "[snap]\nmesh_threshold = -1.0", "snap.mesh_threshold"},
		{"inverted zoom range", "[viewport]\nmin_zoom = 2.0\nmax_zoom = 1.0", "viewport.max_zoom"},
		{"home outside range", "[viewport.home]\nzoom = 9.0", "viewport.home.zoom"},
		{"zoom step", "[viewport]\nzoom_step = 0.5", "viewport.zoom_step"},
		{"negative margin", "[linkage]\nmargin = -3.0", "linkage.margin"},
		{"log level", "[log]\nlevel = \"loud\"", "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Decode() error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[linkage]\nmargin = 35.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Linkage.Margin != 35 || cfg.Linkage.Tolerance != 0.1 {
		t.Errorf("Linkage = %+v", cfg.Linkage)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, used, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want defaults", used)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.Snap.Grid = 4
	want.Log.Level = "warn"

	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v\n%s", err, buf.String())
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
