package plan

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/part"
	"github.com/matzehuels/gearbox/pkg/session"
	"github.com/matzehuels/gearbox/pkg/snap"
)

func item(t *testing.T, typ part.Type, id string, x, y float64) part.Item {
	t.Helper()
	it, err := part.New(typ, id, geom.Pt(x, y))
	if err != nil {
		t.Fatalf("part.New(%s) error = %v", typ, err)
	}
	return it
}

func TestRenderSVG(t *testing.T) {
	y := 0.0
	f := canvas.Frame{
		Items: []part.Item{
			item(t, part.Housing, "h", 0, 0),
			item(t, part.Shaft, "s", 0, 0),
			item(t, part.Spur, "g", 50, 0),
		},
		Selected: "g",
		Guides: snap.Guides{
			Align: &y,
			Mesh:  &snap.MeshGuide{Y: 140, Distance: 140, Label: snap.MeshLabel(140)},
		},
	}
	svg := string(RenderSVG(f))

	checks := []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`id="item-h" class="item housing"`,
		`id="item-s" class="item shaft"`,
		`class="centerline"`,
		`id="item-g" class="item spur"`,
		`stroke="#2563eb"`,
		`class="bore"`,
		`class="guide align"`,
		`class="guide mesh"`,
		`>Mesh Dist: 140mm</text>`,
		`>Spur Gear</text>`,
	}
	for _, want := range checks {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(svg, `class="segment"`); n != 3 {
		t.Errorf("segments drawn = %d, want 3", n)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not terminated")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	f := canvas.Frame{
		Items:    []part.Item{item(t, part.Spacer, "sp", 0, 0)},
		Selected: "sp",
	}
	svg := string(RenderSVG(f, WithoutLabels(), WithoutSelection(), WithPadding(0)))

	if strings.Contains(svg, `class="label"`) {
		t.Error("labels drawn with WithoutLabels")
	}
	if strings.Contains(svg, selectedColor) {
		t.Error("selection drawn with WithoutSelection")
	}
	// spacer is 10 wide, 40 tall
	if !strings.Contains(svg, `viewBox="-5.0 -20.0 10.0 40.0"`) {
		t.Errorf("unexpected view box in %s", svg[:120])
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	it := item(t, part.Coupling, `a"<b>`, 0, 0)
	svg := string(RenderSVG(canvas.Frame{Items: []part.Item{it}}))
	if strings.Contains(svg, `<b>`) {
		t.Error("item id not escaped")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(canvas.Frame{}))
	if !strings.Contains(svg, "viewBox=") {
		t.Error("empty frame has no view box")
	}
}

func TestRenderJSON(t *testing.T) {
	c := canvas.New()
	if _, err := c.Drop(part.Bearing, geom.Pt(500, 400)); err != nil {
		t.Fatal(err)
	}
	c.PointerDown(geom.Pt(0, 0), session.ButtonPrimary, 0, "")

	data, err := RenderJSON(c.Frame())
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var out struct {
		ZoomPercent int  `json:"zoom_percent"`
		SnapEnabled bool `json:"snap_enabled"`
		Guides      any  `json:"guides"`
		Items       []struct {
			Type   string         `json:"type"`
			Family string         `json:"family"`
			Bounds [4]float64     `json:"bounds"`
			Params map[string]any `json:"params"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if out.ZoomPercent != 100 || !out.SnapEnabled || out.Guides != nil {
		t.Errorf("header = %+v", out)
	}
	if len(out.Items) != 1 {
		t.Fatalf("Items = %d, want 1", len(out.Items))
	}
	got := out.Items[0]
	if got.Type != "bearing" || got.Family != "bearing" {
		t.Errorf("item = %+v", got)
	}
	if got.Bounds != [4]float64{-7.5, -25, 7.5, 25} {
		t.Errorf("Bounds = %v", got.Bounds)
	}
	if got.Params["kind"] != "deep_groove" {
		t.Errorf("Params = %v", got.Params)
	}
}
