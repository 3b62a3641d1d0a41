// Package geom holds the small amount of planar geometry shared by the layout
// packages: points in world and device space and grid quantization.
//
// World coordinates are millimetres on the plan view: X runs along shaft axes
// (axial), Y across them (transverse). Device coordinates are pointer pixels
// relative to the top-left corner of the rendering surface.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D position. The same type is used for world and device space;
// functions document which space they expect.
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func Add(p, q Point) Point { return r2.Add(p, q) }

// Sub returns p-q.
func Sub(p, q Point) Point { return r2.Sub(p, q) }

// Scale returns f*p.
func Scale(f float64, p Point) Point { return r2.Scale(f, p) }

// Quantize rounds v to the nearest multiple of step. Halfway values round
// towards positive infinity so that a pointer sweeping across a grid line
// flips at the same place in both directions.
func Quantize(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	q := math.Floor(v/step+0.5) * step
	if q == 0 {
		return 0 // normalise -0
	}
	return q
}

// Snap quantizes both axes of p independently to step.
func Snap(p Point, step float64) Point {
	return Point{X: Quantize(p.X, step), Y: Quantize(p.Y, step)}
}

// Near reports whether |a-b| < tol.
func Near(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// Rect is an axis-aligned rectangle in world space.
type Rect struct {
	Min, Max Point
}

// RectAround returns the rectangle of the given size centred on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{
		Min: Point{X: c.X - w/2, Y: c.Y - h/2},
		Max: Point{X: c.X + w/2, Y: c.Y + h/2},
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}
