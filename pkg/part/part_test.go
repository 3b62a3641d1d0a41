package part

import (
	"testing"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/geom"
)

func mustNew(t *testing.T, typ Type, id string, x, y float64) Item {
	t.Helper()
	it, err := New(typ, id, geom.Pt(x, y))
	if err != nil {
		t.Fatalf("New(%s) error = %v", typ, err)
	}
	return it
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"spur", Spur, false},
		{"SHAFT", Shaft, false},
		{" Bearing ", Bearing, false},
		{"gear", Spur, false},
		{"helical_gear", Helical, false},
		{"circlip", Circlip, false},
		{"flywheel", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidType) {
				t.Errorf("ParseType(%q) code = %v, want %v", tt.input, errors.GetCode(err), errors.ErrCodeInvalidType)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFamilies(t *testing.T) {
	tests := []struct {
		typ    Type
		family Family
		meshes bool
	}{
		{Spur, FamilyGear, true},
		{Helical, FamilyGear, true},
		{Bevel, FamilyGear, true},
		{Worm, FamilyWorm, false},
		{Shaft, FamilyShaft, false},
		{Bearing, FamilyBearing, false},
		{Housing, FamilyHousing, false},
		{Coupling, FamilySimple, false},
		{Spacer, FamilySimple, false},
		{Circlip, FamilySimple, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Family(); got != tt.family {
				t.Errorf("Family() = %v, want %v", got, tt.family)
			}
			if got := tt.typ.Meshes(); got != tt.meshes {
				t.Errorf("Meshes() = %v, want %v", got, tt.meshes)
			}
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			it := mustNew(t, typ, "a", 0, 0)
			if err := it.Validate(); err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if it.Params.Family() != typ.Family() {
				t.Errorf("params family = %v, want %v", it.Params.Family(), typ.Family())
			}
		})
	}
}

func TestNewRejects(t *testing.T) {
	if _, err := New(Spur, "", geom.Pt(0, 0)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New with empty id code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
	if _, err := New("flywheel", "a", geom.Pt(0, 0)); !errors.Is(err, errors.ErrCodeInvalidType) {
		t.Errorf("New with bad type code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidType)
	}
}

func TestPitchRadius(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		want   float64
		wantOK bool
	}{
		{"spur default", mustNew(t, Spur, "a", 0, 0), 80, true},
		{"helical default", mustNew(t, Helical, "b", 0, 0), 60, true},
		{"bevel default", mustNew(t, Bevel, "c", 0, 0), 48, true},
		{"worm", mustNew(t, Worm, "d", 0, 0), 0, false},
		{"shaft", mustNew(t, Shaft, "e", 0, 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.PitchRadius()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PitchRadius() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestShaftGeometry(t *testing.T) {
	sp := ShaftParams{Segments: []Segment{{Length: 50, Diameter: 20}, {Length: 150, Diameter: 30}, {Length: 50, Diameter: 20}}}
	if got := sp.TotalLength(); got != 250 {
		t.Errorf("TotalLength() = %v, want 250", got)
	}
	if got := sp.MaxDiameter(); got != 30 {
		t.Errorf("MaxDiameter() = %v, want 30", got)
	}
	empty := ShaftParams{}
	if empty.TotalLength() != 0 || empty.MaxDiameter() != 0 {
		t.Errorf("empty shaft geometry = (%v, %v), want (0, 0)", empty.TotalLength(), empty.MaxDiameter())
	}
}

func TestBounds(t *testing.T) {
	gear := mustNew(t, Spur, "g", 100, 50) // 20 thick, pitch diameter 160
	b := gear.Bounds()
	if b.Width() != 20 || b.Height() != 160 {
		t.Errorf("gear bounds = %vx%v, want 20x160", b.Width(), b.Height())
	}
	if b.Min != geom.Pt(90, -30) {
		t.Errorf("gear bounds min = %v, want (90,-30)", b.Min)
	}

	gear.Rotation = 90
	b = gear.Bounds()
	if b.Width() != 160 || b.Height() != 20 {
		t.Errorf("rotated gear bounds = %vx%v, want 160x20", b.Width(), b.Height())
	}
}

func TestCloneDoesNotAliasSegments(t *testing.T) {
	shaft := mustNew(t, Shaft, "s", 0, 0)
	c := shaft.Clone()
	c.Params.(ShaftParams).Segments[0].Length = 999

	sp, _ := shaft.Shaft()
	if sp.Segments[0].Length != 50 {
		t.Errorf("original segment length = %v after mutating clone, want 50", sp.Segments[0].Length)
	}
}

func TestValidateMismatchedParams(t *testing.T) {
	it := Item{ID: "x", Type: Shaft, Params: GearParams{Teeth: 20, Module: 2, Thickness: 10}}
	if err := it.Validate(); !errors.Is(err, errors.ErrCodeInvalidParams) {
		t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidParams)
	}
}
