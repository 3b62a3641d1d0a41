package part

import (
	"github.com/google/uuid"

	"github.com/matzehuels/gearbox/pkg/errors"
)

// MinTeeth is the smallest tooth count accepted for a gear.
const MinTeeth = 6

// Params is the type-specific parameter record of an item.
// It is implemented only by the records in this package.
type Params interface {
	// Family reports which family the record belongs to.
	Family() Family

	clone() Params
	validate() error
	// extent returns the unrotated plan-view footprint: axial length by
	// transverse height.
	extent() (w, h float64)
}

// GearParams are shared by spur, helical and bevel gears.
type GearParams struct {
	Teeth         int     `json:"teeth" toml:"teeth"`
	Module        float64 `json:"module" toml:"module"`
	PressureAngle float64 `json:"pressure_angle" toml:"pressure_angle"`
	HoleDiameter  float64 `json:"hole_diameter" toml:"hole_diameter"`
	Thickness     float64 `json:"thickness" toml:"thickness"`
	HelixAngle    float64 `json:"helix_angle,omitempty" toml:"helix_angle"` // helical only
	Color         string  `json:"color" toml:"color"`
}

// PitchDiameter returns teeth × module.
func (p GearParams) PitchDiameter() float64 {
	return float64(p.Teeth) * p.Module
}

// PitchRadius returns half the pitch diameter, the nominal rolling-contact radius.
func (p GearParams) PitchRadius() float64 {
	return p.PitchDiameter() / 2
}

func (GearParams) Family() Family { return FamilyGear }

func (p GearParams) clone() Params { return p }

func (p GearParams) extent() (float64, float64) {
	return p.Thickness, p.PitchDiameter()
}

func (p GearParams) validate() error {
	if err := errors.RequireAtLeast("teeth", p.Teeth, MinTeeth); err != nil {
		return err
	}
	if err := errors.RequirePositive("module", p.Module); err != nil {
		return err
	}
	if err := errors.RequirePositive("thickness", p.Thickness); err != nil {
		return err
	}
	if p.HoleDiameter < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "hole_diameter must not be negative")
	}
	if p.HoleDiameter >= p.PitchDiameter() {
		return errors.New(errors.ErrCodeInvalidParams,
			"hole_diameter %g must be smaller than pitch diameter %g", p.HoleDiameter, p.PitchDiameter())
	}
	return nil
}

// WormParams describe a worm screw.
type WormParams struct {
	Length   float64 `json:"length" toml:"length"`
	Diameter float64 `json:"diameter" toml:"diameter"`
	Module   float64 `json:"module" toml:"module"`
	Color    string  `json:"color" toml:"color"`
}

func (WormParams) Family() Family { return FamilyWorm }

func (p WormParams) clone() Params { return p }

func (p WormParams) extent() (float64, float64) {
	return p.Length, p.Diameter
}

func (p WormParams) validate() error {
	if err := errors.RequirePositive("length", p.Length); err != nil {
		return err
	}
	if err := errors.RequirePositive("diameter", p.Diameter); err != nil {
		return err
	}
	return errors.RequirePositive("module", p.Module)
}

// Segment is one stepped section of a shaft.
type Segment struct {
	ID       string  `json:"id" toml:"id"`
	Length   float64 `json:"length" toml:"length"`
	Diameter float64 `json:"diameter" toml:"diameter"`
}

// ShaftParams describe a stepped shaft. Segments run left to right and the
// shaft is centred on its position.
type ShaftParams struct {
	Segments []Segment `json:"segments" toml:"segments"`
	Color    string    `json:"color" toml:"color"`
}

// TotalLength returns the sum of all segment lengths. A shaft without
// segments has zero length.
func (p ShaftParams) TotalLength() float64 {
	var total float64
	for _, s := range p.Segments {
		total += s.Length
	}
	return total
}

// MaxDiameter returns the largest segment diameter, or 0 without segments.
func (p ShaftParams) MaxDiameter() float64 {
	var d float64
	for _, s := range p.Segments {
		d = max(d, s.Diameter)
	}
	return d
}

func (ShaftParams) Family() Family { return FamilyShaft }

func (p ShaftParams) clone() Params {
	p.Segments = append([]Segment(nil), p.Segments...)
	return p
}

func (p ShaftParams) extent() (float64, float64) {
	return p.TotalLength(), p.MaxDiameter()
}

func (p ShaftParams) validate() error {
	for i, s := range p.Segments {
		if err := validateSegment(i, s.Length, s.Diameter); err != nil {
			return err
		}
	}
	return nil
}

func validateSegment(i int, length, diameter float64) error {
	if err := errors.RequirePositive("segment length", length); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "segment %d", i)
	}
	if err := errors.RequirePositive("segment diameter", diameter); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "segment %d", i)
	}
	return nil
}

// BearingParams describe a rolling bearing seen from above.
type BearingParams struct {
	Kind          BearingKind `json:"kind" toml:"kind"`
	Width         float64     `json:"width" toml:"width"`
	OuterDiameter float64     `json:"outer_diameter" toml:"outer_diameter"`
	InnerDiameter float64     `json:"inner_diameter" toml:"inner_diameter"`
	Color         string      `json:"color" toml:"color"`
}

func (BearingParams) Family() Family { return FamilyBearing }

func (p BearingParams) clone() Params { return p }

func (p BearingParams) extent() (float64, float64) {
	return p.Width, p.OuterDiameter
}

func (p BearingParams) validate() error {
	if _, err := ParseBearingKind(string(p.Kind)); err != nil {
		return err
	}
	if err := errors.RequirePositive("width", p.Width); err != nil {
		return err
	}
	return validateRing(p.OuterDiameter, p.InnerDiameter)
}

// HousingParams describe a rectangular housing block.
type HousingParams struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Color  string  `json:"color" toml:"color"`
}

func (HousingParams) Family() Family { return FamilyHousing }

func (p HousingParams) clone() Params { return p }

func (p HousingParams) extent() (float64, float64) {
	return p.Width, p.Height
}

func (p HousingParams) validate() error {
	if err := errors.RequirePositive("width", p.Width); err != nil {
		return err
	}
	return errors.RequirePositive("height", p.Height)
}

// SimpleParams describe couplings, spacers and circlips.
type SimpleParams struct {
	Width         float64 `json:"width" toml:"width"` // axial length
	OuterDiameter float64 `json:"outer_diameter" toml:"outer_diameter"`
	InnerDiameter float64 `json:"inner_diameter" toml:"inner_diameter"`
	Color         string  `json:"color" toml:"color"`
}

func (SimpleParams) Family() Family { return FamilySimple }

func (p SimpleParams) clone() Params { return p }

func (p SimpleParams) extent() (float64, float64) {
	return p.Width, p.OuterDiameter
}

func (p SimpleParams) validate() error {
	if err := errors.RequirePositive("width", p.Width); err != nil {
		return err
	}
	return validateRing(p.OuterDiameter, p.InnerDiameter)
}

func validateRing(outer, inner float64) error {
	if err := errors.RequirePositive("outer_diameter", outer); err != nil {
		return err
	}
	if err := errors.RequirePositive("inner_diameter", inner); err != nil {
		return err
	}
	if inner >= outer {
		return errors.New(errors.ErrCodeInvalidParams,
			"inner_diameter %g must be smaller than outer_diameter %g", inner, outer)
	}
	return nil
}

// DefaultSegment returns the segment appended by [AddSegment].
func DefaultSegment() Segment {
	return Segment{ID: uuid.NewString(), Length: 50, Diameter: 20}
}

// DefaultParams returns the parameters a freshly dropped item of type t starts with.
func DefaultParams(t Type) (Params, error) {
	switch t {
	case Spur:
		return GearParams{Teeth: 40, Module: 4, PressureAngle: 20, HoleDiameter: 20, Thickness: 20, Color: "#3b82f6"}, nil
	case Helical:
		return GearParams{Teeth: 30, Module: 4, PressureAngle: 20, HoleDiameter: 20, Thickness: 30, HelixAngle: 15, Color: "#6366f1"}, nil
	case Bevel:
		return GearParams{Teeth: 24, Module: 4, PressureAngle: 20, HoleDiameter: 20, Thickness: 25, Color: "#8b5cf6"}, nil
	case Worm:
		return WormParams{Length: 80, Diameter: 40, Module: 4, Color: "#14b8a6"}, nil
	case Shaft:
		return ShaftParams{
			Segments: []Segment{
				{ID: uuid.NewString(), Length: 50, Diameter: 20},
				{ID: uuid.NewString(), Length: 150, Diameter: 30},
				{ID: uuid.NewString(), Length: 50, Diameter: 20},
			},
			Color: "#e2e8f0",
		}, nil
	case Bearing:
		return BearingParams{Kind: DeepGroove, Width: 15, OuterDiameter: 50, InnerDiameter: 20, Color: "#e2e8f0"}, nil
	case Housing:
		return HousingParams{Width: 400, Height: 300, Color: "#f1f5f9"}, nil
	case Coupling:
		return SimpleParams{Width: 40, OuterDiameter: 40, InnerDiameter: 20, Color: "#64748b"}, nil
	case Spacer:
		return SimpleParams{Width: 10, OuterDiameter: 40, InnerDiameter: 20, Color: "#cbd5e1"}, nil
	case Circlip:
		return SimpleParams{Width: 2, OuterDiameter: 25, InnerDiameter: 20, Color: "#cbd5e1"}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidType, "unknown component type %q", t)
	}
}
