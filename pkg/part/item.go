package part

import (
	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/geom"
)

// Rotations lists the accepted rotation angles in degrees.
var Rotations = []int{0, 90, 180, 270}

// Item is one positioned component on the plan view.
type Item struct {
	ID       string     `json:"id"`
	Type     Type       `json:"type"`
	Pos      geom.Point `json:"pos"`
	Rotation int        `json:"rotation"` // degrees, one of Rotations
	Params   Params     `json:"params"`
}

// New returns an item of type t at pos with the default parameters for t.
func New(t Type, id string, pos geom.Point) (Item, error) {
	if id == "" {
		return Item{}, errors.New(errors.ErrCodeInvalidInput, "item id cannot be empty")
	}
	params, err := DefaultParams(t)
	if err != nil {
		return Item{}, err
	}
	return Item{ID: id, Type: t, Pos: pos, Params: params}, nil
}

// Clone returns a deep copy of it.
func (it Item) Clone() Item {
	if it.Params != nil {
		it.Params = it.Params.clone()
	}
	return it
}

// Validate checks that the parameter record matches the type and that all
// values are in range.
func (it Item) Validate() error {
	if !it.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidType, "unknown component type %q", it.Type)
	}
	if it.Params == nil {
		return errors.New(errors.ErrCodeInvalidParams, "%s %s has no parameters", it.Type, it.ID)
	}
	if it.Params.Family() != it.Type.Family() {
		return errors.New(errors.ErrCodeInvalidParams, "%s %s carries %s parameters",
			it.Type, it.ID, it.Params.Family())
	}
	if err := ValidateRotation(it.Rotation); err != nil {
		return err
	}
	return it.Params.validate()
}

// ValidateRotation checks that deg is one of Rotations.
func ValidateRotation(deg int) error {
	for _, r := range Rotations {
		if r == deg {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidRotation, "rotation must be 0, 90, 180 or 270 (got %d)", deg)
}

// Gear returns the gear parameters when it belongs to the gear family.
func (it Item) Gear() (GearParams, bool) {
	p, ok := it.Params.(GearParams)
	return p, ok && it.Type.Family() == FamilyGear
}

// Shaft returns the shaft parameters when it is a shaft.
func (it Item) Shaft() (ShaftParams, bool) {
	p, ok := it.Params.(ShaftParams)
	return p, ok && it.Type == Shaft
}

// PitchRadius returns the pitch radius of a gear-family item and false for
// every other item.
func (it Item) PitchRadius() (float64, bool) {
	g, ok := it.Gear()
	if !ok {
		return 0, false
	}
	return g.PitchRadius(), true
}

// Bounds returns the plan-view footprint of it in world space, taking
// rotation into account.
func (it Item) Bounds() geom.Rect {
	var w, h float64
	if it.Params != nil {
		w, h = it.Params.extent()
	}
	if it.Rotation == 90 || it.Rotation == 270 {
		w, h = h, w
	}
	return geom.RectAround(it.Pos, w, h)
}

// Color returns the display color stored in the parameters.
func (it Item) Color() string {
	switch p := it.Params.(type) {
	case GearParams:
		return p.Color
	case WormParams:
		return p.Color
	case ShaftParams:
		return p.Color
	case BearingParams:
		return p.Color
	case HousingParams:
		return p.Color
	case SimpleParams:
		return p.Color
	default:
		return ""
	}
}
