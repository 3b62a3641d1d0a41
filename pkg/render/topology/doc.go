// Package topology renders the drivetrain of a layout as a node-link diagram.
//
// # Overview
//
// [Build] derives two relations from item positions alone:
//
//   - mounted: a part sits on a shaft's axis within the shaft's span plus
//     margin (the same test linked movement uses)
//   - mesh: two gears whose centers are exactly one mesh distance apart
//     (the sum of their pitch radii)
//
// Shafts and the parts they carry become nodes; mounted edges point from a
// shaft to its parts and mesh edges join gear pairs without a direction.
//
// # Usage
//
//	g := topology.Build(items, linkage.DefaultConfig())
//	dot := topology.ToDOT(g, topology.Options{})
//	svg, err := topology.RenderSVG(ctx, dot)
//
// For PDF or PNG output, pass the SVG to [render.ToPDF] or [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/gearbox/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/gearbox/pkg/render.ToPNG
package topology
