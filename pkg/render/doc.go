// Package render turns layouts into pictures.
//
// # Overview
//
// Two views are provided:
//
//   - [plan]: the plan view itself, one box per item with shaft centerlines
//     and the snap guides of the current drag
//   - [topology]: the drivetrain as a graph of shafts, mounted parts and
//     meshing gear pairs, laid out by Graphviz
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both views use them.
//
//	svg := plan.RenderSVG(frame)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [plan]: github.com/matzehuels/gearbox/pkg/render/plan
// [topology]: github.com/matzehuels/gearbox/pkg/render/topology
package render
