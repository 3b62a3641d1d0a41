// Package viewport maps pointer coordinates on the rendering surface to world
// coordinates on the plan view and back.
//
// A [Viewport] is the pair (pan offset, zoom). The world point under a device
// point d is
//
//	world = d/zoom + (X, Y)
//
// so (X, Y) is the world position shown at the top-left corner of the
// surface. [Transform] owns a viewport together with its zoom limits and
// implements the pan, zoom and reset operations. Zoom is never rejected, only
// clamped into [Config.MinZoom, Config.MaxZoom].
//
// Wheel zoom is additive and anchored at the viewport origin, not at the
// cursor.
package viewport

import (
	"math"

	"github.com/matzehuels/gearbox/pkg/geom"
)

// Default limits.
const (
	DefaultMinZoom          = 0.1
	DefaultMaxZoom          = 5.0
	DefaultWheelSensitivity = 0.002
	DefaultZoomStep         = 1.2
)

// Viewport is the pan offset and zoom of the plan view.
type Viewport struct {
	X    float64 `json:"x" toml:"x"`
	Y    float64 `json:"y" toml:"y"`
	Zoom float64 `json:"zoom" toml:"zoom"`
}

// Home is the viewport restored by [Transform.Reset].
var Home = Viewport{X: -500, Y: -400, Zoom: 1}

// ToWorld converts a device point to world coordinates.
func (v Viewport) ToWorld(device geom.Point) geom.Point {
	return geom.Point{X: device.X/v.Zoom + v.X, Y: device.Y/v.Zoom + v.Y}
}

// ToDevice converts a world point to device coordinates.
func (v Viewport) ToDevice(world geom.Point) geom.Point {
	return geom.Point{X: (world.X - v.X) * v.Zoom, Y: (world.Y - v.Y) * v.Zoom}
}

// Percent returns the zoom as a rounded percentage for display.
func (v Viewport) Percent() int {
	return int(math.Round(v.Zoom * 100))
}

// Config holds the zoom limits and input scaling.
type Config struct {
	Home             Viewport `toml:"home"`
	MinZoom          float64  `toml:"min_zoom"`
	MaxZoom          float64  `toml:"max_zoom"`
	WheelSensitivity float64  `toml:"wheel_sensitivity"` // zoom change per wheel delta unit
	ZoomStep         float64  `toml:"zoom_step"`         // factor applied by ZoomIn/ZoomOut
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		Home:             Home,
		MinZoom:          DefaultMinZoom,
		MaxZoom:          DefaultMaxZoom,
		WheelSensitivity: DefaultWheelSensitivity,
		ZoomStep:         DefaultZoomStep,
	}
}

// Transform owns the current viewport. The zero value is not usable; use New.
type Transform struct {
	cfg Config
	vp  Viewport
}

// New returns a transform showing cfg.Home.
func New(cfg Config) *Transform {
	t := &Transform{cfg: cfg}
	t.Reset()
	return t
}

// Viewport returns the current viewport.
func (t *Transform) Viewport() Viewport {
	return t.vp
}

// Config returns the limits the transform was created with.
func (t *Transform) Config() Config {
	return t.cfg
}

// ToWorld converts a device point using the current viewport.
func (t *Transform) ToWorld(device geom.Point) geom.Point {
	return t.vp.ToWorld(device)
}

// Pan moves the view by a device-space delta. The delta is divided by zoom so
// a given pointer drag moves the content by the same screen distance at
// every zoom level.
func (t *Transform) Pan(dx, dy float64) {
	t.vp.X -= dx / t.vp.Zoom
	t.vp.Y -= dy / t.vp.Zoom
}

// ZoomBy adds delta to the zoom and clamps the result.
func (t *Transform) ZoomBy(delta float64) {
	t.SetZoom(t.vp.Zoom + delta)
}

// Wheel applies a zoom-modified wheel event with vertical delta deltaY.
// Scrolling up (negative delta) zooms in.
func (t *Transform) Wheel(deltaY float64) {
	t.ZoomBy(-deltaY * t.cfg.WheelSensitivity)
}

// ZoomIn multiplies the zoom by the configured step.
func (t *Transform) ZoomIn() {
	t.SetZoom(t.vp.Zoom * t.cfg.ZoomStep)
}

// ZoomOut divides the zoom by the configured step.
func (t *Transform) ZoomOut() {
	t.SetZoom(t.vp.Zoom / t.cfg.ZoomStep)
}

// SetZoom sets the zoom, clamped into the configured range. NaN leaves the
// zoom unchanged.
func (t *Transform) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	t.vp.Zoom = min(max(z, t.cfg.MinZoom), t.cfg.MaxZoom)
}

// Reset restores the home viewport.
func (t *Transform) Reset() {
	t.vp = t.cfg.Home
	t.SetZoom(t.vp.Zoom)
}
