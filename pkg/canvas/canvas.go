// Package canvas is the control loop of the plan view.
//
// A [Controller] owns the item [store.Store], the [viewport.Transform], the
// drag [session.Session] and the [snap.Resolver], and turns pointer, wheel
// and drop events into store mutations:
//
//	event → viewport → session → snap → store.Commit → linkage → Frame
//
// Each event is processed to completion before the call returns. A Controller
// is not safe for concurrent use; drive it from one goroutine (the TUI's
// update loop or a script replay).
package canvas

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/observability"
	"github.com/matzehuels/gearbox/pkg/part"
	"github.com/matzehuels/gearbox/pkg/session"
	"github.com/matzehuels/gearbox/pkg/snap"
	"github.com/matzehuels/gearbox/pkg/store"
	"github.com/matzehuels/gearbox/pkg/viewport"
)

// Controller composes the layout engine.
type Controller struct {
	store    *store.Store
	view     *viewport.Transform
	resolver snap.Resolver
	sess     session.Session
	selected string
	logger   *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithStore uses s instead of a fresh empty store.
func WithStore(s *store.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.store = s
		}
	}
}

// WithSnap sets the snapping thresholds.
func WithSnap(cfg snap.Config) Option {
	return func(c *Controller) { c.resolver = snap.New(cfg) }
}

// WithViewport sets the zoom limits and home view.
func WithViewport(cfg viewport.Config) Option {
	return func(c *Controller) { c.view = viewport.New(cfg) }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a controller with default settings, adjusted by opts.
func New(opts ...Option) *Controller {
	c := &Controller{
		view:     viewport.New(viewport.DefaultConfig()),
		resolver: snap.New(snap.DefaultConfig()),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = store.New(store.WithLogger(c.logger))
	}
	return c
}

// Store returns the underlying item store.
func (c *Controller) Store() *store.Store {
	return c.store
}

// =============================================================================
// Pointer and wheel input
// =============================================================================

// PointerDown starts a gesture at device position device. hitID is the item
// under the pointer as found by the rendering layer's hit test, or "" for
// empty canvas. A press on empty canvas pans, except with the secondary
// button and no shift. A hit on an item that no longer exists is dropped.
func (c *Controller) PointerDown(device geom.Point, button session.Button, mods session.Modifiers, hitID string) {
	if hitID == "" {
		if session.ClearsSelection(button, mods) {
			c.selected = ""
		}
		if !session.StartsPan(button, mods) {
			c.release("press")
			return
		}
		c.sess.PressEmpty(device)
		c.logger.Debug("pan start", "x", device.X, "y", device.Y)
		return
	}

	it, ok := c.store.Get(hitID)
	if !ok {
		c.logger.Debug("press dropped: item not found", "id", hitID)
		return
	}
	c.sess.PressItem(hitID, c.view.ToWorld(device), it.Pos)
	c.selected = hitID
	c.logger.Debug("drag start", "id", hitID, "type", it.Type)
	observability.Layout().OnDragStart(hitID)
}

// PointerMove advances the current gesture. While dragging, the candidate
// position is snapped and committed immediately; while panning, the view
// follows the pointer.
func (c *Controller) PointerMove(device geom.Point) {
	step := c.sess.Move(device, c.view.ToWorld(device))
	switch step.Kind {
	case session.StepDrag:
		c.drag(step.Target, step.Candidate)
	case session.StepPan:
		c.view.Pan(step.Delta.X, step.Delta.Y)
		c.viewportChanged()
	}
}

func (c *Controller) drag(id string, candidate geom.Point) {
	it, ok := c.store.Get(id)
	if !ok {
		c.sess.SetGuides(snap.Guides{})
		return
	}
	res := c.resolver.Resolve(candidate, it, c.store.Snapshot(), c.view.Viewport().Zoom)
	c.store.Commit(id, res.Position)
	c.sess.SetGuides(res.Guides)
	observability.Layout().OnSnap(id, res.Tier.String())
}

// PointerUp ends the current gesture. Positions committed during the drag
// are kept.
func (c *Controller) PointerUp() {
	c.release("up")
}

// PointerLeave ends the current gesture when the pointer leaves the surface.
func (c *Controller) PointerLeave() {
	c.release("leave")
}

func (c *Controller) release(why string) {
	id, dragging := c.sess.Target()
	prev := c.sess.Release()
	if prev == session.Idle {
		return
	}
	c.logger.Debug("gesture end", "state", prev, "reason", why)
	if dragging {
		observability.Layout().OnDragEnd(id)
	}
}

// Wheel handles a wheel event with device delta (dx, dy). With a zoom
// modifier it zooms; otherwise it pans, except while an item is dragged.
func (c *Controller) Wheel(dx, dy float64, mods session.Modifiers) {
	switch {
	case mods.Zoom():
		c.view.Wheel(dy)
	case c.sess.WheelPans():
		c.view.Pan(dx, dy)
	default:
		return
	}
	c.viewportChanged()
}

// =============================================================================
// Creation and edits
// =============================================================================

// Drop creates an item of type t at device position device. The world
// position is quantized to the grid on both axes and the new item becomes
// the selection.
func (c *Controller) Drop(t part.Type, device geom.Point) (part.Item, error) {
	pos := geom.Snap(c.view.ToWorld(device), c.resolver.Config().Grid)
	it, err := c.store.Insert(t, pos)
	if err != nil {
		return part.Item{}, err
	}
	c.selected = it.ID
	return it, nil
}

// Update forwards a parameter patch to the store. Unknown ids are ignored.
func (c *Controller) Update(id string, p part.Patch) error {
	_, err := c.store.Update(id, p)
	return err
}

// AddSegment appends a default segment to shaft id.
func (c *Controller) AddSegment(id string) error {
	_, err := c.store.AddSegment(id)
	return err
}

// RemoveSegment removes segment i of shaft id.
func (c *Controller) RemoveSegment(id string, i int) error {
	_, err := c.store.RemoveSegment(id, i)
	return err
}

// ResizeSegment sets the length and diameter of segment i of shaft id.
func (c *Controller) ResizeSegment(id string, i int, length, diameter float64) error {
	_, err := c.store.ResizeSegment(id, i, length, diameter)
	return err
}

// Delete removes id. If it was selected the selection is cleared. A drag on
// id that is still running keeps going but no longer moves anything.
func (c *Controller) Delete(id string) bool {
	if !c.store.Delete(id) {
		return false
	}
	if c.selected == id {
		c.selected = ""
	}
	return true
}

// Select makes id the selection. An unknown id clears it.
func (c *Controller) Select(id string) {
	if _, ok := c.store.Get(id); !ok {
		id = ""
	}
	c.selected = id
}

// Selected returns the selected item id, or "".
func (c *Controller) Selected() string {
	return c.selected
}

// =============================================================================
// View controls
// =============================================================================

// ZoomIn steps the zoom up.
func (c *Controller) ZoomIn() {
	c.view.ZoomIn()
	c.viewportChanged()
}

// ZoomOut steps the zoom down.
func (c *Controller) ZoomOut() {
	c.view.ZoomOut()
	c.viewportChanged()
}

// ResetView restores the home viewport.
func (c *Controller) ResetView() {
	c.view.Reset()
	c.viewportChanged()
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() viewport.Viewport {
	return c.view.Viewport()
}

// ToWorld converts a device point with the current viewport.
func (c *Controller) ToWorld(device geom.Point) geom.Point {
	return c.view.ToWorld(device)
}

// SetSnapEnabled switches snapping on or off. With snapping off, dragged
// items follow the pointer exactly.
func (c *Controller) SetSnapEnabled(on bool) {
	c.resolver = c.resolver.WithEnabled(on)
	c.logger.Debug("snap toggled", "enabled", on)
}

// SnapEnabled reports whether snapping is on.
func (c *Controller) SnapEnabled() bool {
	return c.resolver.Config().Enabled
}

func (c *Controller) viewportChanged() {
	vp := c.view.Viewport()
	observability.Layout().OnViewportChange(vp.X, vp.Y, vp.Zoom)
}

// =============================================================================
// Output
// =============================================================================

// HitTest returns the topmost item whose footprint contains the device
// point. Items later in store order are drawn on top.
func (c *Controller) HitTest(device geom.Point) (string, bool) {
	w := c.view.ToWorld(device)
	items := c.store.Snapshot()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Bounds().Contains(w) {
			return items[i].ID, true
		}
	}
	return "", false
}

// Frame is everything a renderer needs for one redraw.
type Frame struct {
	Items       []part.Item       `json:"items"`
	Viewport    viewport.Viewport `json:"viewport"`
	ZoomPercent int               `json:"zoom_percent"`
	Guides      snap.Guides       `json:"guides"`
	Selected    string            `json:"selected,omitempty"`
	State       string            `json:"state"`
	SnapEnabled bool              `json:"snap_enabled"`
}

// Frame returns the current render state.
func (c *Controller) Frame() Frame {
	vp := c.view.Viewport()
	return Frame{
		Items:       c.store.Snapshot(),
		Viewport:    vp,
		ZoomPercent: vp.Percent(),
		Guides:      c.sess.Guides(),
		Selected:    c.selected,
		State:       c.sess.State().String(),
		SnapEnabled: c.SnapEnabled(),
	}
}
