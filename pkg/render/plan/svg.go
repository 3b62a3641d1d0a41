// Package plan renders the plan view of a layout as SVG.
//
// Every item is drawn as its footprint box in world coordinates, shafts as
// their individual segments with a dashed centerline. Guides from an active
// drag are drawn as full-width lines, the mesh guide with its distance label.
// Per-type glyph artwork is not drawn.
package plan

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/part"
)

// DefaultPadding is the world-space margin around the content.
const DefaultPadding = 40.0

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	padding   float64
	labels    bool
	selection bool
}

// WithPadding sets the margin around the content.
func WithPadding(p float64) Option {
	return func(r *renderer) { r.padding = max(0, p) }
}

// WithoutLabels omits the type labels.
func WithoutLabels() Option {
	return func(r *renderer) { r.labels = false }
}

// WithoutSelection draws the selected item like any other.
func WithoutSelection() Option {
	return func(r *renderer) { r.selection = false }
}

// RenderSVG draws f. The view box fits all items plus padding.
func RenderSVG(f canvas.Frame, opts ...Option) []byte {
	r := renderer{padding: DefaultPadding, labels: true, selection: true}
	for _, opt := range opts {
		opt(&r)
	}

	box := r.viewBox(f)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		box.Min.X, box.Min.Y, box.Width(), box.Height(), box.Width(), box.Height())
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="white"/>`+"\n",
		box.Min.X, box.Min.Y, box.Width(), box.Height())

	for _, it := range f.Items {
		r.renderItem(&buf, it, r.selection && it.ID == f.Selected)
	}
	if r.labels {
		for _, it := range f.Items {
			renderLabel(&buf, it)
		}
	}
	renderGuides(&buf, f, box)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) viewBox(f canvas.Frame) geom.Rect {
	if len(f.Items) == 0 {
		return geom.RectAround(geom.Pt(0, 0), 2*r.padding+100, 2*r.padding+100)
	}
	box := f.Items[0].Bounds()
	for _, it := range f.Items[1:] {
		box = box.Union(it.Bounds())
	}
	if m := f.Guides.Mesh; m != nil {
		box = box.Union(geom.Rect{Min: geom.Pt(box.Min.X, m.Y), Max: geom.Pt(box.Max.X, m.Y)})
	}
	if a := f.Guides.Align; a != nil {
		box = box.Union(geom.Rect{Min: geom.Pt(box.Min.X, *a), Max: geom.Pt(box.Max.X, *a)})
	}
	box.Min = geom.Sub(box.Min, geom.Pt(r.padding, r.padding))
	box.Max = geom.Add(box.Max, geom.Pt(r.padding, r.padding))
	return box
}

func (r renderer) renderItem(buf *bytes.Buffer, it part.Item, selected bool) {
	stroke, width := strokeColor, 1.0
	if selected {
		stroke, width = selectedColor, 2.5
	}
	id := escapeXML(it.ID)

	if sp, ok := it.Shaft(); ok {
		renderShaft(buf, it, sp, id, stroke, width)
		return
	}

	b := it.Bounds()
	opacity := 1.0
	if it.Type == part.Housing {
		opacity = housingOpacity
	}
	fmt.Fprintf(buf, `  <rect id="item-%s" class="item %s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		id, it.Type, b.Min.X, b.Min.Y, b.Width(), b.Height(), fillOf(it.Color()), opacity, stroke, width)

	if g, ok := it.Gear(); ok && g.HoleDiameter > 0 {
		renderBore(buf, it, g.HoleDiameter)
	}
}

// renderShaft draws the segments end to end, centred on the item position.
func renderShaft(buf *bytes.Buffer, it part.Item, sp part.ShaftParams, id, stroke string, width float64) {
	vertical := it.Rotation == 90 || it.Rotation == 270
	total := sp.TotalLength()

	fmt.Fprintf(buf, `  <g id="item-%s" class="item shaft">`+"\n", id)
	offset := -total / 2
	for _, seg := range sp.Segments {
		c := geom.Pt(it.Pos.X+offset+seg.Length/2, it.Pos.Y)
		w, h := seg.Length, seg.Diameter
		if vertical {
			c = geom.Pt(it.Pos.X, it.Pos.Y+offset+seg.Length/2)
			w, h = h, w
		}
		b := geom.RectAround(c, w, h)
		fmt.Fprintf(buf, `    <rect class="segment" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			b.Min.X, b.Min.Y, b.Width(), b.Height(), fillOf(sp.Color), stroke, width)
		offset += seg.Length
	}

	const overhang = 10
	a := geom.Pt(it.Pos.X-total/2-overhang, it.Pos.Y)
	z := geom.Pt(it.Pos.X+total/2+overhang, it.Pos.Y)
	if vertical {
		a = geom.Pt(it.Pos.X, it.Pos.Y-total/2-overhang)
		z = geom.Pt(it.Pos.X, it.Pos.Y+total/2+overhang)
	}
	fmt.Fprintf(buf, `    <line class="centerline" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.8" stroke-dasharray="12 3 2 3"/>`+"\n",
		a.X, a.Y, z.X, z.Y, centerColor)
	buf.WriteString("  </g>\n")
}

// renderBore draws the bore of a gear as a dashed band across its width.
func renderBore(buf *bytes.Buffer, it part.Item, hole float64) {
	b := it.Bounds()
	vertical := it.Rotation == 90 || it.Rotation == 270
	bore := geom.RectAround(it.Pos, b.Width(), hole)
	if vertical {
		bore = geom.RectAround(it.Pos, hole, b.Height())
	}
	fmt.Fprintf(buf, `  <rect class="bore" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="0.6" stroke-dasharray="3 2"/>`+"\n",
		bore.Min.X, bore.Min.Y, bore.Width(), bore.Height(), strokeColor)
}

func renderLabel(buf *bytes.Buffer, it part.Item) {
	label := it.Type.Label()
	b := it.Bounds()
	size := fontSizeFor(max(b.Width(), 40), len(label))
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" font-family="%s" font-size="%.1f" text-anchor="middle" fill="%s">%s</text>`+"\n",
		it.Pos.X, b.Min.Y-4, fontFamily, size, strokeColor, escapeXML(label))
}

func renderGuides(buf *bytes.Buffer, f canvas.Frame, box geom.Rect) {
	if a := f.Guides.Align; a != nil {
		fmt.Fprintf(buf, `  <line class="guide align" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-dasharray="6 4"/>`+"\n",
			box.Min.X, *a, box.Max.X, *a, alignColor)
	}
	if m := f.Guides.Mesh; m != nil {
		fmt.Fprintf(buf, `  <line class="guide mesh" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-dasharray="6 4"/>`+"\n",
			box.Min.X, m.Y, box.Max.X, m.Y, meshColor)
		fmt.Fprintf(buf, `  <text class="guide-label" x="%.2f" y="%.2f" font-family="%s" font-size="12" fill="%s">%s</text>`+"\n",
			box.Min.X+6, m.Y-4, fontFamily, meshColor, escapeXML(m.Label))
	}
}
