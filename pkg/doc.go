// Package pkg provides the core libraries for gearbox drivetrain layout.
//
// # Overview
//
// Gearbox places drivetrain components (gears, shafts, bearings, housings
// and small parts) on a two-dimensional plan view. While an item is dragged
// its position is corrected by a three-tier snap: to meshing distance from
// another gear, to the axis of a shaft, or to a grid. Moving a shaft carries
// every part mounted on it.
//
// The pkg directory is organized by layer:
//
//  1. Model: [part] item types and parameters, [geom] points and rectangles
//  2. Layout logic: [snap] snap resolution, [linkage] shaft mounting,
//     [viewport] pan and zoom, [session] pointer gesture state
//  3. State: [store] the ordered item collection, [canvas] the controller
//     tying input to layout
//  4. Output: [render] plan and topology views, [pipeline] replay → render
//  5. Ambient: [config], [errors], [observability], [script], [cache]
//
// # Data Flow
//
//	pointer / wheel / edit events
//	         ↓
//	    [canvas] controller ── [session] gesture state
//	         ↓
//	    [snap] resolver  →  [store] commit  →  [linkage] propagation
//	         ↓
//	    canvas.Frame
//	         ↓
//	    [render] plan SVG/JSON, topology DOT/SVG, PNG/PDF
//
// # Quick Start
//
// Drop two gears and drag one into mesh with the other:
//
//	c := canvas.New()
//	a, _ := c.Drop(part.Spur, geom.Pt(500, 400))   // world (0, 0)
//	b, _ := c.Drop(part.Spur, geom.Pt(700, 600))   // world (200, 200)
//	c.PointerDown(geom.Pt(700, 600), session.ButtonPrimary, 0, b.ID)
//	c.PointerMove(geom.Pt(700, 565))               // snaps to y = 160
//	c.PointerUp()
//	svg := plan.RenderSVG(c.Frame())
//
// [part]: github.com/matzehuels/gearbox/pkg/part
// [geom]: github.com/matzehuels/gearbox/pkg/geom
// [snap]: github.com/matzehuels/gearbox/pkg/snap
// [linkage]: github.com/matzehuels/gearbox/pkg/linkage
// [viewport]: github.com/matzehuels/gearbox/pkg/viewport
// [session]: github.com/matzehuels/gearbox/pkg/session
// [store]: github.com/matzehuels/gearbox/pkg/store
// [canvas]: github.com/matzehuels/gearbox/pkg/canvas
// [render]: github.com/matzehuels/gearbox/pkg/render
// [pipeline]: github.com/matzehuels/gearbox/pkg/pipeline
// [config]: github.com/matzehuels/gearbox/pkg/config
// [errors]: github.com/matzehuels/gearbox/pkg/errors
// [observability]: github.com/matzehuels/gearbox/pkg/observability
// [script]: github.com/matzehuels/gearbox/pkg/script
// [cache]: github.com/matzehuels/gearbox/pkg/cache
package pkg
