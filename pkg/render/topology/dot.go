package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/observability"
	"github.com/matzehuels/gearbox/pkg/part"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the main parameters to node labels and gear ratios to
	// mesh edges.
	Detailed bool

	// All includes items that are neither mounted nor meshing.
	All bool

	// Names maps item ids to display names (for example script aliases).
	Names map[string]string
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := g.Connected()
	if opts.All {
		nodes = g.Items
	}
	for _, it := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, strings.Join(fmtAttrs(it, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		switch e.Kind {
		case Mounted:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		case Mesh:
			label := strconv.FormatFloat(e.Distance, 'f', -1, 64) + "mm"
			if r, ok := g.Ratio(e); ok && opts.Detailed {
				label += fmt.Sprintf("\ni=%.3g", r)
			}
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, color=\"#ec4899\", label=%q];\n", e.From, e.To, label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it part.Item, opts Options) string {
	name := opts.Names[it.ID]
	if name == "" {
		name = shortID(it.ID)
	}
	label := it.Type.Label() + "\n" + name
	if !opts.Detailed {
		return label
	}

	var details []string
	switch p := it.Params.(type) {
	case part.GearParams:
		details = append(details, fmt.Sprintf("z=%d m=%g", p.Teeth, p.Module), fmt.Sprintf("d=%gmm", p.PitchDiameter()))
	case part.ShaftParams:
		details = append(details, fmt.Sprintf("L=%gmm", p.TotalLength()), fmt.Sprintf("%d segments", len(p.Segments)))
	case part.BearingParams:
		details = append(details, string(p.Kind), fmt.Sprintf("%g×%g×%g", p.InnerDiameter, p.OuterDiameter, p.Width))
	case part.WormParams:
		details = append(details, fmt.Sprintf("m=%g", p.Module))
	case part.SimpleParams:
		details = append(details, fmt.Sprintf("%g×%g×%g", p.InnerDiameter, p.OuterDiameter, p.Width))
	}
	details = append(details, fmt.Sprintf("@ %g, %g", it.Pos.X, it.Pos.Y))
	return label + "\n" + strings.Join(details, "\n")
}

func fmtAttrs(it part.Item, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(it, opts))}
	if c := it.Color(); c != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
	}
	if it.Type == part.Shaft {
		attrs = append(attrs, "shape=box3d")
	}
	return attrs
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, "topology")
	start := time.Now()

	svg, err := renderSVG(ctx, dot)
	hooks.OnRenderComplete(ctx, "topology", len(svg), time.Since(start), err)
	return svg, err
}

func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
