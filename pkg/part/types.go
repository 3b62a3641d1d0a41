package part

import (
	"strings"

	"github.com/matzehuels/gearbox/pkg/errors"
)

// Type is the discriminant of an item.
type Type string

// Item types.
const (
	Spur     Type = "spur"
	Helical  Type = "helical"
	Bevel    Type = "bevel"
	Worm     Type = "worm"
	Shaft    Type = "shaft"
	Bearing  Type = "bearing"
	Housing  Type = "housing"
	Coupling Type = "coupling"
	Spacer   Type = "spacer"
	Circlip  Type = "circlip"
)

// Types lists every item type in palette order.
var Types = []Type{Spur, Helical, Bevel, Worm, Shaft, Bearing, Housing, Coupling, Spacer, Circlip}

// Family groups types that share a parameter record.
type Family int

// Families.
const (
	FamilyUnknown Family = iota
	FamilyGear
	FamilyWorm
	FamilyShaft
	FamilyBearing
	FamilyHousing
	FamilySimple
)

func (f Family) String() string {
	switch f {
	case FamilyGear:
		return "gear"
	case FamilyWorm:
		return "worm"
	case FamilyShaft:
		return "shaft"
	case FamilyBearing:
		return "bearing"
	case FamilyHousing:
		return "housing"
	case FamilySimple:
		return "simple"
	default:
		return "unknown"
	}
}

// Family returns the parameter family of t.
func (t Type) Family() Family {
	switch t {
	case Spur, Helical, Bevel:
		return FamilyGear
	case Worm:
		return FamilyWorm
	case Shaft:
		return FamilyShaft
	case Bearing:
		return FamilyBearing
	case Housing:
		return FamilyHousing
	case Coupling, Spacer, Circlip:
		return FamilySimple
	default:
		return FamilyUnknown
	}
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	return t.Family() != FamilyUnknown
}

// Meshes reports whether items of type t take part in gear mesh snapping.
// Worms carry a module but no tooth count, so they are excluded.
func (t Type) Meshes() bool {
	return t.Family() == FamilyGear
}

// Label returns a human-readable name for t.
func (t Type) Label() string {
	switch t {
	case Spur:
		return "Spur Gear"
	case Helical:
		return "Helical Gear"
	case Bevel:
		return "Bevel Gear"
	case Worm:
		return "Worm"
	case Shaft:
		return "Shaft"
	case Bearing:
		return "Bearing"
	case Housing:
		return "Housing"
	case Coupling:
		return "Coupling"
	case Spacer:
		return "Spacer"
	case Circlip:
		return "Circlip"
	default:
		return string(t)
	}
}

// typeAliases maps alternative spellings to types.
var typeAliases = map[string]Type{
	"gear":          Spur,
	"spur_gear":     Spur,
	"helical_gear":  Helical,
	"bevel_gear":    Bevel,
	"worm_gear":     Worm,
	"housing_block": Housing,
}

// ParseType parses a type name case-insensitively.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if t := Type(name); t.Valid() {
		return t, nil
	}
	if t, ok := typeAliases[name]; ok {
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidType, "unknown component type %q", s)
}

// BearingKind is the bearing construction.
type BearingKind string

// Bearing kinds.
const (
	DeepGroove        BearingKind = "deep_groove"
	AngularContact    BearingKind = "angular_contact"
	CylindricalRoller BearingKind = "cylindrical_roller"
	TaperedRoller     BearingKind = "tapered_roller"
	SelfAligning      BearingKind = "self_aligning"
	Thrust            BearingKind = "thrust"
)

// BearingKinds lists the supported bearing kinds.
var BearingKinds = []BearingKind{DeepGroove, AngularContact, CylindricalRoller, TaperedRoller, SelfAligning, Thrust}

// ParseBearingKind parses a bearing kind name case-insensitively.
func ParseBearingKind(s string) (BearingKind, error) {
	name := BearingKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range BearingKinds {
		if k == name {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidParams, "unknown bearing kind %q", s)
}
