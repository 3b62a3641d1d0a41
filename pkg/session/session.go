// Package session implements the drag-session state machine of the canvas.
//
// A [Session] tracks one pointer gesture from press to release. It knows
// nothing about the item store or the viewport: transitions take the
// coordinates the caller already computed and return a [Step] telling the
// caller what to do (move an item, pan the view, or nothing). This keeps the
// machine testable without a rendering surface.
//
// # States
//
//	Idle ──press on item──▶ DraggingItem(id)
//	Idle ──press on empty──▶ PanningView
//	DraggingItem / PanningView ──move──▶ (same state)
//	* ──release / leave──▶ Idle
//
// A press while a gesture is still active replaces that gesture. Snap guides
// live on the session, so they are dropped together with it on release.
package session

import (
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/snap"
)

// State enumerates the session states.
type State int

const (
	Idle State = iota
	PanningView
	DraggingItem
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PanningView:
		return "panning"
	case DraggingItem:
		return "dragging"
	default:
		return "unknown"
	}
}

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is a bitmask of keyboard modifiers held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all modifiers in m2 are set.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Zoom reports whether m holds a zoom modifier (Ctrl or Meta).
func (m Modifiers) Zoom() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// ClearsSelection reports whether a press on empty canvas with button b
// and modifiers m deselects the current item.
func ClearsSelection(b Button, m Modifiers) bool {
	return b == ButtonPrimary && m == 0
}

// StartsPan reports whether a press on empty canvas with button b and
// modifiers m pans the view. The secondary button pans only with shift.
func StartsPan(b Button, m Modifiers) bool {
	return b != ButtonSecondary || m.Has(ModShift)
}

// StepKind says what a pointer move asks the caller to do.
type StepKind int

const (
	StepNone StepKind = iota
	StepDrag
	StepPan
)

// Step is the outcome of [Session.Move].
type Step struct {
	Kind StepKind

	// StepDrag
	Target    string
	Candidate geom.Point // world position before snapping

	// StepPan
	Delta geom.Point // device-space delta since the last move
}

// Session is the transient state of one pointer gesture. The zero value is
// an idle session.
type Session struct {
	state      State
	target     string
	grabOffset geom.Point
	lastDevice geom.Point
	guides     snap.Guides
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Target returns the id of the dragged item, if any.
func (s *Session) Target() (string, bool) {
	if s.state != DraggingItem {
		return "", false
	}
	return s.target, true
}

// GrabOffset returns the offset between the pointer and the dragged item's
// position at press time, in world units.
func (s *Session) GrabOffset() geom.Point {
	return s.grabOffset
}

// Guides returns the snap guides of the last drag step.
func (s *Session) Guides() snap.Guides {
	return s.guides
}

// SetGuides records the guides produced by the last resolved drag step.
// It is ignored outside DraggingItem.
func (s *Session) SetGuides(g snap.Guides) {
	if s.state == DraggingItem {
		s.guides = g
	}
}

// PressItem starts dragging id. world is the pointer in world units and pos
// the item's current position.
func (s *Session) PressItem(id string, world, pos geom.Point) {
	*s = Session{
		state:      DraggingItem,
		target:     id,
		grabOffset: geom.Sub(world, pos),
	}
}

// PressEmpty starts panning from device position device.
func (s *Session) PressEmpty(device geom.Point) {
	*s = Session{
		state:      PanningView,
		lastDevice: device,
	}
}

// Move advances the gesture to a new pointer position, given in both device
// and world units.
func (s *Session) Move(device, world geom.Point) Step {
	switch s.state {
	case DraggingItem:
		return Step{
			Kind:      StepDrag,
			Target:    s.target,
			Candidate: geom.Sub(world, s.grabOffset),
		}
	case PanningView:
		d := geom.Sub(device, s.lastDevice)
		s.lastDevice = device
		return Step{Kind: StepPan, Delta: d}
	default:
		return Step{}
	}
}

// Release ends the gesture and returns the state it ended in. Guides are
// cleared.
func (s *Session) Release() State {
	prev := s.state
	*s = Session{}
	return prev
}

// WheelPans reports whether a plain wheel event should pan the view. The
// wheel does not pan while an item is being dragged.
func (s *Session) WheelPans() bool {
	return s.state != DraggingItem
}
