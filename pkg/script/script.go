// Package script reads and replays scenario scripts.
//
// A script is a TOML file holding an ordered list of collaborator events,
// the same inputs a rendering front end would feed the canvas:
//
//	name = "mesh two gears"
//
//	[[event]]
//	kind = "drop"
//	type = "spur"
//	x = 0.0
//	y = 0.0
//	world = true
//	as = "pinion"
//
//	[[event]]
//	kind = "down"
//	target = "pinion"
//	x = 0.0
//	y = 0.0
//	world = true
//
// Coordinates are device pixels unless world = true, in which case they are
// converted with the viewport current at that point of the replay. Items
// created by drop can be named with as and referred to by that alias (or by
// their id) in later events. A down event without a target hit-tests the
// pointer position.
package script

import (
	"bytes"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/session"
)

// Event kinds.
const (
	KindDrop          = "drop"
	KindDown          = "down"
	KindMove          = "move"
	KindUp            = "up"
	KindLeave         = "leave"
	KindWheel         = "wheel"
	KindUpdate        = "update"
	KindAddSegment    = "add_segment"
	KindRemoveSegment = "remove_segment"
	KindSetSegment    = "set_segment"
	KindDelete        = "delete"
	KindSelect        = "select"
	KindZoomIn        = "zoom_in"
	KindZoomOut       = "zoom_out"
	KindReset         = "reset"
	KindSnap          = "snap"
)

// Kinds lists every event kind.
var Kinds = []string{
	KindDrop, KindDown, KindMove, KindUp, KindLeave, KindWheel,
	KindUpdate, KindAddSegment, KindRemoveSegment, KindSetSegment,
	KindDelete, KindSelect, KindZoomIn, KindZoomOut, KindReset, KindSnap,
}

// Script is a parsed scenario.
type Script struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Events      []Event `toml:"event"`
}

// Event is one input. Which fields are read depends on Kind.
type Event struct {
	Kind string `toml:"kind"`

	// drop
	Type string `toml:"type"`
	As   string `toml:"as"`

	// pointer position (drop, down, move)
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
	World bool    `toml:"world"`

	// down, wheel
	Button string   `toml:"button"`
	Mods   []string `toml:"mods"`

	// wheel
	DX float64 `toml:"dx"`
	DY float64 `toml:"dy"`

	// item edits
	Target   string         `toml:"target"`
	Fields   map[string]any `toml:"fields"`
	Rotation *int           `toml:"rotation"`
	SetX     *float64       `toml:"set_x"`
	SetY     *float64       `toml:"set_y"`
	Index    int            `toml:"index"`
	Length   float64        `toml:"length"`
	Diameter float64        `toml:"diameter"`

	// snap
	Enabled *bool `toml:"enabled"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "parse script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			// event.fields is a free-form table
			if len(k) >= 2 && k[0] == "event" && k[1] == "fields" {
				continue
			}
			keys = append(keys, k.String())
		}
		if len(keys) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidScript, "unknown script keys: %s", strings.Join(keys, ", "))
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "script %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "read %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "load %s", path)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Validate checks event kinds and the fields each kind requires.
func (s *Script) Validate() error {
	aliases := make(map[string]bool)
	for i, ev := range s.Events {
		if err := ev.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "event %d (%s)", i, ev.Kind)
		}
		if ev.As != "" {
			if aliases[ev.As] {
				return errors.New(errors.ErrCodeInvalidScript, "event %d: alias %q used twice", i, ev.As)
			}
			aliases[ev.As] = true
		}
	}
	return nil
}

func (ev Event) validate() error {
	if !slices.Contains(Kinds, ev.Kind) {
		return errors.New(errors.ErrCodeInvalidScript, "unknown kind %q", ev.Kind)
	}
	if ev.As != "" && ev.Kind != KindDrop {
		return errors.New(errors.ErrCodeInvalidScript, "as is only valid on drop")
	}
	switch ev.Kind {
	case KindDrop:
		if ev.Type == "" {
			return errors.New(errors.ErrCodeInvalidScript, "type is required")
		}
	case KindUpdate, KindAddSegment, KindRemoveSegment, KindSetSegment, KindDelete, KindSelect:
		if ev.Target == "" {
			return errors.New(errors.ErrCodeInvalidScript, "target is required")
		}
	case KindSnap:
		if ev.Enabled == nil {
			return errors.New(errors.ErrCodeInvalidScript, "enabled is required")
		}
	}
	if _, err := parseButton(ev.Button); err != nil {
		return err
	}
	if _, err := parseMods(ev.Mods); err != nil {
		return err
	}
	return nil
}

func parseButton(s string) (session.Button, error) {
	switch strings.ToLower(s) {
	case "", "primary", "left":
		return session.ButtonPrimary, nil
	case "middle":
		return session.ButtonMiddle, nil
	case "secondary", "right":
		return session.ButtonSecondary, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidScript, "unknown button %q", s)
	}
}

func parseMods(names []string) (session.Modifiers, error) {
	var m session.Modifiers
	for _, n := range names {
		switch strings.ToLower(n) {
		case "shift":
			m |= session.ModShift
		case "ctrl", "control":
			m |= session.ModCtrl
		case "alt", "option":
			m |= session.ModAlt
		case "meta", "cmd", "super":
			m |= session.ModMeta
		default:
			return 0, errors.New(errors.ErrCodeInvalidScript, "unknown modifier %q", n)
		}
	}
	return m, nil
}
