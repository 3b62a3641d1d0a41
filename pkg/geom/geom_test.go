package geom

import "testing"

func TestQuantize(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		step float64
		want float64
	}{
		{"already aligned", 40, 10, 40},
		{"round down", 142, 10, 140},
		{"round up", 147, 10, 150},
		{"halfway rounds up", 145, 10, 150},
		{"negative", -23, 10, -20},
		{"negative halfway", -15, 10, -10},
		{"small negative to zero", -4, 10, 0},
		{"housing grid", 31, 20, 40},
		{"zero step is identity", 3.7, 0, 3.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantize(tt.v, tt.step); got != tt.want {
				t.Errorf("Quantize(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
			}
		})
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	for _, p := range []Point{Pt(13, -27), Pt(0, 0), Pt(-155, 244.9), Pt(1e4+3, -7)} {
		once := Snap(p, 10)
		twice := Snap(once, 10)
		if once != twice {
			t.Errorf("Snap(Snap(%v)) = %v, want %v", p, twice, once)
		}
	}
}

func TestRect(t *testing.T) {
	r := RectAround(Pt(10, 20), 40, 10)
	if r.Width() != 40 || r.Height() != 10 {
		t.Fatalf("size = %vx%v, want 40x10", r.Width(), r.Height())
	}
	if !r.Contains(Pt(-10, 15)) {
		t.Error("Contains(corner) = false, want true")
	}
	if r.Contains(Pt(31, 20)) {
		t.Error("Contains(outside) = true, want false")
	}
	u := r.Union(RectAround(Pt(100, 0), 10, 10))
	if u.Min != Pt(-10, -5) || u.Max != Pt(105, 25) {
		t.Errorf("Union = %v, want {(-10,-5) (105,25)}", u)
	}
}

func TestVectorHelpers(t *testing.T) {
	p := Add(Pt(1, 2), Pt(3, 4))
	if p != Pt(4, 6) {
		t.Errorf("Add = %v, want (4,6)", p)
	}
	if d := Sub(Pt(10, 20), Pt(3, 4)); d != Pt(7, 16) {
		t.Errorf("Sub = %v, want (7,16)", d)
	}
	if s := Scale(0.5, Pt(10, -4)); s != Pt(5, -2) {
		t.Errorf("Scale = %v, want (5,-2)", s)
	}
	if !Near(0.05, 0, 0.1) || Near(0.1, 0, 0.1) {
		t.Error("Near tolerance must be strict")
	}
}
