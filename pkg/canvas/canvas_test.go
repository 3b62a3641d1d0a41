package canvas

import (
	"fmt"
	"testing"

	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/part"
	"github.com/matzehuels/gearbox/pkg/session"
	"github.com/matzehuels/gearbox/pkg/store"
)

// The home viewport is (-500, -400) at zoom 1, so device = world + (500, 400)
// until the view is panned or zoomed.
func dev(x, y float64) geom.Point {
	return geom.Pt(x+500, y+400)
}

func newController(opts ...Option) *Controller {
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	opts = append([]Option{WithStore(store.New(store.WithIDFunc(ids)))}, opts...)
	return New(opts...)
}

func drop(t *testing.T, c *Controller, typ part.Type, x, y float64) part.Item {
	t.Helper()
	it, err := c.Drop(typ, dev(x, y))
	if err != nil {
		t.Fatalf("Drop(%s) error = %v", typ, err)
	}
	return it
}

func pos(t *testing.T, c *Controller, id string) geom.Point {
	t.Helper()
	it, ok := c.Store().Get(id)
	if !ok {
		t.Fatalf("item %s not found", id)
	}
	return it.Pos
}

// dragTo presses on id at its current position and moves the pointer so the
// item's candidate position is world (x, y).
func dragTo(t *testing.T, c *Controller, id string, x, y float64) {
	t.Helper()
	p := pos(t, c, id)
	c.PointerDown(dev(p.X, p.Y), session.ButtonPrimary, 0, id)
	c.PointerMove(dev(x, y))
}

func TestDropQuantizesAndSelects(t *testing.T) {
	c := newController()
	it, err := c.Drop(part.Bearing, dev(3, 7))
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if it.Pos != geom.Pt(0, 10) {
		t.Errorf("Pos = %v, want (0,10)", it.Pos)
	}
	if c.Selected() != it.ID {
		t.Errorf("Selected() = %q, want %q", c.Selected(), it.ID)
	}
}

func TestDropUnknownType(t *testing.T) {
	c := newController()
	if _, err := c.Drop(part.Type("pulley"), dev(0, 0)); err == nil {
		t.Fatal("Drop(pulley) succeeded")
	}
	if c.Store().Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Store().Len())
	}
}

func TestMeshSnapScenario(t *testing.T) {
	c := newController()
	drop(t, c, part.Spur, 0, 0) // 40 teeth, module 4: pitch radius 80
	g2 := drop(t, c, part.Spur, 0, 300)
	if err := c.Update(g2.ID, part.Patch{Fields: map[string]any{"teeth": 30}}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	dragTo(t, c, g2.ID, 0, 142)

	if got := pos(t, c, g2.ID); got != geom.Pt(0, 140) {
		t.Errorf("gear at %v, want (0,140)", got)
	}
	f := c.Frame()
	if f.Guides.Mesh == nil {
		t.Fatal("no mesh guide")
	}
	if f.Guides.Mesh.Label != "Mesh Dist: 140mm" || f.Guides.Mesh.Y != 140 {
		t.Errorf("mesh guide = %+v", *f.Guides.Mesh)
	}
	if f.Guides.Align != nil {
		t.Errorf("align guide = %v, want none", *f.Guides.Align)
	}
}

func TestMeshBeatsShaftAlignment(t *testing.T) {
	c := newController()
	drop(t, c, part.Shaft, -600, 150)
	drop(t, c, part.Spur, 0, 0)
	g2 := drop(t, c, part.Spur, 0, 400)

	// Mesh distance is 160; the shaft axis at 150 is also within reach.
	dragTo(t, c, g2.ID, 0, 155)

	if got := pos(t, c, g2.ID); got != geom.Pt(0, 160) {
		t.Errorf("gear at %v, want (0,160)", got)
	}
	if g := c.Frame().Guides; g.Mesh == nil || g.Align != nil {
		t.Errorf("guides = %+v, want mesh only", g)
	}
}

func TestShaftAlignment(t *testing.T) {
	c := newController()
	drop(t, c, part.Shaft, 0, 200)
	b := drop(t, c, part.Bearing, 500, 0)

	dragTo(t, c, b.ID, 503, 188)

	if got := pos(t, c, b.ID); got != geom.Pt(500, 200) {
		t.Errorf("bearing at %v, want (500,200)", got)
	}
	g := c.Frame().Guides
	if g.Align == nil || *g.Align != 200 || g.Mesh != nil {
		t.Errorf("guides = %+v, want align at 200", g)
	}
}

func TestGridFallthrough(t *testing.T) {
	c := newController()
	s := drop(t, c, part.Spacer, 0, 0)

	dragTo(t, c, s.ID, 33, 57)

	if got := pos(t, c, s.ID); got != geom.Pt(30, 60) {
		t.Errorf("spacer at %v, want (30,60)", got)
	}
	if !c.Frame().Guides.Empty() {
		t.Error("guides set for a grid snap")
	}
}

func TestShaftDragCarriesMountedParts(t *testing.T) {
	c := newController()
	shaft := drop(t, c, part.Shaft, 0, 0) // total 250, span [-125, 125]
	bearing := drop(t, c, part.Bearing, 40, 0)
	coupling := drop(t, c, part.Coupling, 300, 0)
	housing := drop(t, c, part.Housing, 0, 0)

	dragTo(t, c, shaft.ID, 10, 20)
	c.PointerUp()

	tests := []struct {
		name string
		id   string
		want geom.Point
	}{
		{"shaft", shaft.ID, geom.Pt(10, 20)},
		{"bearing", bearing.ID, geom.Pt(50, 20)},
		{"coupling", coupling.ID, geom.Pt(300, 0)},
		{"housing", housing.ID, geom.Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pos(t, c, tt.id); got != tt.want {
				t.Errorf("at %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiStepShaftDrag(t *testing.T) {
	c := newController()
	shaft := drop(t, c, part.Shaft, 0, 0)
	gear := drop(t, c, part.Spur, 100, 0)

	c.PointerDown(dev(0, 0), session.ButtonPrimary, 0, shaft.ID)
	for _, y := range []float64{10, 30, 60, 100} {
		c.PointerMove(dev(0, y))
	}
	c.PointerUp()

	if got := pos(t, c, gear.ID); got != geom.Pt(100, 100) {
		t.Errorf("gear at %v, want (100,100)", got)
	}
}

func TestSnapDisabled(t *testing.T) {
	c := newController()
	s := drop(t, c, part.Spacer, 0, 0)
	c.SetSnapEnabled(false)
	if c.SnapEnabled() {
		t.Fatal("SnapEnabled() = true")
	}

	dragTo(t, c, s.ID, 3.25, 57.5)

	if got := pos(t, c, s.ID); got != geom.Pt(3.25, 57.5) {
		t.Errorf("spacer at %v, want (3.25,57.5)", got)
	}
}

func TestGrabOffsetKept(t *testing.T) {
	c := newController()
	s := drop(t, c, part.Spacer, 0, 0)

	c.PointerDown(dev(4, -3), session.ButtonPrimary, 0, s.ID)
	c.PointerMove(dev(104, 47))

	if got := pos(t, c, s.ID); got != geom.Pt(100, 50) {
		t.Errorf("spacer at %v, want (100,50)", got)
	}
}

func TestPointerUpClearsGuides(t *testing.T) {
	for _, end := range []struct {
		name string
		fn   func(*Controller)
	}{
		{"up", (*Controller).PointerUp},
		{"leave", (*Controller).PointerLeave},
	} {
		t.Run(end.name, func(t *testing.T) {
			c := newController()
			drop(t, c, part.Shaft, 0, 100)
			b := drop(t, c, part.Bearing, 400, 0)
			dragTo(t, c, b.ID, 400, 95)
			if c.Frame().Guides.Empty() {
				t.Fatal("expected a guide while dragging")
			}

			end.fn(c)

			f := c.Frame()
			if !f.Guides.Empty() || f.State != "idle" {
				t.Errorf("frame after release: guides=%+v state=%s", f.Guides, f.State)
			}
			if got := pos(t, c, b.ID); got != geom.Pt(400, 100) {
				t.Errorf("position rolled back to %v", got)
			}
		})
	}
}

func TestPanOnEmptyCanvas(t *testing.T) {
	c := newController()
	g := drop(t, c, part.Spur, 0, 0)
	if c.Selected() != g.ID {
		t.Fatal("dropped gear not selected")
	}

	c.PointerDown(geom.Pt(100, 100), session.ButtonPrimary, 0, "")
	if c.Selected() != "" {
		t.Errorf("Selected() = %q after click on empty canvas", c.Selected())
	}
	c.PointerMove(geom.Pt(150, 80))
	c.PointerUp()

	vp := c.Viewport()
	if vp.X != -550 || vp.Y != -380 {
		t.Errorf("viewport = %+v, want (-550,-380)", vp)
	}
}

func TestPanScalesWithZoom(t *testing.T) {
	c := newController()
	c.ZoomIn() // 1.2
	c.ZoomIn() // 1.44
	start := c.Viewport()

	c.PointerDown(geom.Pt(0, 0), session.ButtonMiddle, 0, "")
	c.PointerMove(geom.Pt(144, 0))

	if got := c.Viewport().X; !geom.Near(got, start.X-100, 1e-9) {
		t.Errorf("X = %v, want %v", got, start.X-100)
	}
}

func TestSecondaryPressOnEmptyCanvas(t *testing.T) {
	tests := []struct {
		name    string
		mods    session.Modifiers
		wantPan bool
	}{
		{name: "plain secondary does not pan", mods: 0, wantPan: false},
		{name: "shift secondary pans", mods: session.ModShift, wantPan: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController()
			start := c.Viewport()

			c.PointerDown(geom.Pt(100, 100), session.ButtonSecondary, tt.mods, "")
			c.PointerMove(geom.Pt(150, 150))
			c.PointerUp()

			if panned := c.Viewport() != start; panned != tt.wantPan {
				t.Errorf("panned = %v, want %v (viewport %+v)", panned, tt.wantPan, c.Viewport())
			}
		})
	}
}

func TestModifiedClickKeepsSelection(t *testing.T) {
	c := newController()
	g := drop(t, c, part.Spur, 0, 0)
	c.PointerDown(geom.Pt(0, 0), session.ButtonPrimary, session.ModShift, "")
	if c.Selected() != g.ID {
		t.Errorf("Selected() = %q, want %q", c.Selected(), g.ID)
	}
}

func TestWheel(t *testing.T) {
	c := newController()

	c.Wheel(0, -100, session.ModCtrl)
	if got := c.Viewport().Zoom; !geom.Near(got, 1.2, 1e-9) {
		t.Errorf("zoom = %v, want 1.2", got)
	}
	for range 100 {
		c.Wheel(0, -1000, session.ModMeta)
	}
	if got := c.Viewport().Zoom; got != 5 {
		t.Errorf("zoom = %v, want 5", got)
	}
	for range 100 {
		c.Wheel(0, 1000, session.ModCtrl)
	}
	if got := c.Viewport().Zoom; got != 0.1 {
		t.Errorf("zoom = %v, want 0.1", got)
	}

	c.ResetView()
	c.Wheel(30, -20, 0)
	if vp := c.Viewport(); vp.X != -530 || vp.Y != -380 {
		t.Errorf("viewport after plain wheel = %+v, want (-530,-380)", vp)
	}
}

func TestWheelDoesNotPanWhileDragging(t *testing.T) {
	c := newController()
	s := drop(t, c, part.Spacer, 0, 0)
	c.PointerDown(dev(0, 0), session.ButtonPrimary, 0, s.ID)

	c.Wheel(30, 30, 0)
	if vp := c.Viewport(); vp.X != -500 || vp.Y != -400 {
		t.Errorf("viewport moved while dragging: %+v", vp)
	}
	c.Wheel(0, -100, session.ModCtrl)
	if c.Viewport().Zoom == 1 {
		t.Error("zoom wheel ignored while dragging")
	}
}

func TestDeleteDuringDrag(t *testing.T) {
	c := newController()
	g := drop(t, c, part.Spur, 0, 0)
	other := drop(t, c, part.Spacer, 200, 0)
	c.PointerDown(dev(0, 0), session.ButtonPrimary, 0, g.ID)

	if !c.Delete(g.ID) {
		t.Fatal("Delete() = false")
	}
	if c.Selected() != "" {
		t.Errorf("Selected() = %q after delete", c.Selected())
	}
	c.PointerMove(dev(50, 50))
	c.PointerUp()

	if c.Store().Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Store().Len())
	}
	if got := pos(t, c, other.ID); got != geom.Pt(200, 0) {
		t.Errorf("other item moved to %v", got)
	}
}

func TestPressOnMissingItem(t *testing.T) {
	c := newController()
	c.PointerDown(dev(0, 0), session.ButtonPrimary, 0, "ghost")
	if f := c.Frame(); f.State != "idle" || f.Selected != "" {
		t.Errorf("frame = state %s selected %q, want idle and none", f.State, f.Selected)
	}
}

func TestHitTest(t *testing.T) {
	c := newController()
	housing := drop(t, c, part.Housing, 0, 0)
	gear := drop(t, c, part.Spur, 0, 0)

	if id, ok := c.HitTest(dev(0, 0)); !ok || id != gear.ID {
		t.Errorf("HitTest(center) = %q, %v; want topmost %s", id, ok, gear.ID)
	}
	if id, ok := c.HitTest(dev(190, 140)); !ok || id != housing.ID {
		t.Errorf("HitTest(housing corner) = %q, %v; want %s", id, ok, housing.ID)
	}
	if _, ok := c.HitTest(dev(1000, 1000)); ok {
		t.Error("HitTest(far away) hit something")
	}
}

func TestFrame(t *testing.T) {
	c := newController()
	c.ZoomOut()
	g := drop(t, c, part.Helical, 0, 0)

	f := c.Frame()
	if len(f.Items) != 1 || f.Items[0].ID != g.ID {
		t.Errorf("Items = %v", f.Items)
	}
	if f.ZoomPercent != 83 {
		t.Errorf("ZoomPercent = %d, want 83", f.ZoomPercent)
	}
	if f.Selected != g.ID || !f.SnapEnabled || f.State != "idle" {
		t.Errorf("frame = %+v", f)
	}
}
