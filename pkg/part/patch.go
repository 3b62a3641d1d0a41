package part

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/gearbox/pkg/errors"
)

// Patch is a partial, non-positional update to an item. Nil fields are left
// unchanged. Fields holds parameter values keyed by their snake_case names
// (for example "teeth", "outer_diameter", "kind", "color").
//
// X and Y overwrite the position directly. They bypass snapping and linked
// movement, the same as typing coordinates into a properties form.
type Patch struct {
	X        *float64
	Y        *float64
	Rotation *int
	Fields   map[string]any
}

// Apply returns a copy of it with p applied. The result is validated as a
// whole so that a patch cannot leave an item in an invalid state; on error it
// is returned unchanged.
func Apply(it Item, p Patch) (Item, error) {
	out := it.Clone()
	if p.X != nil {
		if err := errors.RequireFinite("x", *p.X); err != nil {
			return it, err
		}
		out.Pos.X = *p.X
	}
	if p.Y != nil {
		if err := errors.RequireFinite("y", *p.Y); err != nil {
			return it, err
		}
		out.Pos.Y = *p.Y
	}
	if p.Rotation != nil {
		if err := ValidateRotation(*p.Rotation); err != nil {
			return it, err
		}
		out.Rotation = *p.Rotation
	}

	// Sorted so that the first reported error is deterministic.
	for _, name := range slices.Sorted(maps.Keys(p.Fields)) {
		params, err := setField(out.Params, name, p.Fields[name])
		if err != nil {
			return it, err
		}
		out.Params = params
	}

	if err := out.Validate(); err != nil {
		return it, err
	}
	return out, nil
}

func setField(params Params, name string, v any) (Params, error) {
	unknown := errors.New(errors.ErrCodeInvalidParams, "%s parameters have no field %q", familyOf(params), name)

	if name == "color" {
		s, err := toString(name, v)
		if err != nil {
			return params, err
		}
		return withColor(params, s), nil
	}

	switch p := params.(type) {
	case GearParams:
		switch name {
		case "teeth":
			n, err := toInt(name, v)
			p.Teeth = n
			return p, err
		case "module":
			return p, setFloat(&p.Module, name, v)
		case "pressure_angle":
			return p, setFloat(&p.PressureAngle, name, v)
		case "hole_diameter":
			return p, setFloat(&p.HoleDiameter, name, v)
		case "thickness":
			return p, setFloat(&p.Thickness, name, v)
		case "helix_angle":
			return p, setFloat(&p.HelixAngle, name, v)
		}
	case WormParams:
		switch name {
		case "length":
			return p, setFloat(&p.Length, name, v)
		case "diameter":
			return p, setFloat(&p.Diameter, name, v)
		case "module":
			return p, setFloat(&p.Module, name, v)
		}
	case BearingParams:
		switch name {
		case "kind", "subtype":
			s, err := toString(name, v)
			if err != nil {
				return p, err
			}
			k, err := ParseBearingKind(s)
			p.Kind = k
			return p, err
		case "width":
			return p, setFloat(&p.Width, name, v)
		case "outer_diameter":
			return p, setFloat(&p.OuterDiameter, name, v)
		case "inner_diameter":
			return p, setFloat(&p.InnerDiameter, name, v)
		}
	case HousingParams:
		switch name {
		case "width":
			return p, setFloat(&p.Width, name, v)
		case "height":
			return p, setFloat(&p.Height, name, v)
		}
	case SimpleParams:
		switch name {
		case "width":
			return p, setFloat(&p.Width, name, v)
		case "outer_diameter":
			return p, setFloat(&p.OuterDiameter, name, v)
		case "inner_diameter":
			return p, setFloat(&p.InnerDiameter, name, v)
		}
	case ShaftParams:
		// segments are edited through AddSegment, RemoveSegment and ResizeSegment
	}
	return params, unknown
}

func familyOf(p Params) Family {
	if p == nil {
		return FamilyUnknown
	}
	return p.Family()
}

func withColor(params Params, c string) Params {
	switch p := params.(type) {
	case GearParams:
		p.Color = c
		return p
	case WormParams:
		p.Color = c
		return p
	case ShaftParams:
		p.Color = c
		return p
	case BearingParams:
		p.Color = c
		return p
	case HousingParams:
		p.Color = c
		return p
	case SimpleParams:
		p.Color = c
		return p
	default:
		return params
	}
}

func setFloat(dst *float64, name string, v any) error {
	f, err := toFloat(name, v)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

// toFloat accepts the numeric types produced by JSON and TOML decoders.
func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidParams, "%s must be a number (got %T)", name, v)
	}
}

func toInt(name string, v any) (int, error) {
	f, err := toFloat(name, v)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errors.New(errors.ErrCodeInvalidParams, "%s must be a whole number (got %g)", name, f)
	}
	return int(f), nil
}

func toString(name string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidParams, "%s must be a string (got %T)", name, v)
	}
}

// AddSegment appends a default segment to a shaft.
func AddSegment(it Item) (Item, error) {
	if _, ok := it.Shaft(); !ok {
		return it, errors.New(errors.ErrCodeInvalidParams, "%s %s has no segments", it.Type, it.ID)
	}
	out := it.Clone()
	sp := out.Params.(ShaftParams)
	sp.Segments = append(sp.Segments, DefaultSegment())
	out.Params = sp
	return out, nil
}

// RemoveSegment deletes the segment at index i. The last remaining segment
// cannot be removed.
func RemoveSegment(it Item, i int) (Item, error) {
	sp, ok := it.Shaft()
	if !ok {
		return it, errors.New(errors.ErrCodeInvalidParams, "%s %s has no segments", it.Type, it.ID)
	}
	if i < 0 || i >= len(sp.Segments) {
		return it, errors.New(errors.ErrCodeInvalidInput, "segment index %d out of range [0, %d)", i, len(sp.Segments))
	}
	if len(sp.Segments) == 1 {
		return it, errors.New(errors.ErrCodeInvalidParams, "a shaft keeps at least one segment")
	}
	out := it.Clone()
	sp = out.Params.(ShaftParams)
	sp.Segments = slices.Delete(sp.Segments, i, i+1)
	out.Params = sp
	return out, nil
}

// ResizeSegment sets the length and diameter of the segment at index i.
func ResizeSegment(it Item, i int, length, diameter float64) (Item, error) {
	sp, ok := it.Shaft()
	if !ok {
		return it, errors.New(errors.ErrCodeInvalidParams, "%s %s has no segments", it.Type, it.ID)
	}
	if i < 0 || i >= len(sp.Segments) {
		return it, errors.New(errors.ErrCodeInvalidInput, "segment index %d out of range [0, %d)", i, len(sp.Segments))
	}
	if err := validateSegment(i, length, diameter); err != nil {
		return it, err
	}
	out := it.Clone()
	sp = out.Params.(ShaftParams)
	sp.Segments[i].Length = length
	sp.Segments[i].Diameter = diameter
	out.Params = sp
	return out, nil
}
