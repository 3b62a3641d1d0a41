// Package snap corrects candidate positions of dragged items.
//
// [Resolver.Resolve] is a pure function of the candidate position, the item
// being moved, a snapshot of all items and the current zoom. Its policy
// depends on the moving item's family:
//
//   - Shafts: both axes quantized to the grid unit G.
//   - Housings: both axes quantized to 2G.
//   - Everything else: X quantized to G; Y taken from the first tier that
//     fires, in order mesh snap, shaft alignment, grid.
//
// Mesh snap applies to gear-family movers only. For each other gear-family
// item the required centre distance is the sum of pitch radii, and the two
// candidate Y values lie that distance above and below the other gear.
// Shaft alignment pulls Y onto the axis of a nearby shaft.
//
// Thresholds are configured in screen pixels and divided by zoom, so the
// pull feels the same at every zoom level.
//
// When several neighbours qualify within one tier, the last one in snapshot
// order wins. This tie-break is deterministic but not distance-ranked.
package snap

import (
	"math"
	"strconv"

	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/part"
)

// Defaults.
const (
	DefaultGrid           = 10.0
	DefaultShaftThreshold = 25.0 // screen pixels
	DefaultMeshThreshold  = 20.0 // screen pixels
)

// Config controls the resolver.
type Config struct {
	Grid           float64 `toml:"grid"`
	ShaftThreshold float64 `toml:"shaft_threshold"`
	MeshThreshold  float64 `toml:"mesh_threshold"`
	Enabled        bool    `toml:"enabled"`
}

// DefaultConfig returns the standard snapping settings.
func DefaultConfig() Config {
	return Config{
		Grid:           DefaultGrid,
		ShaftThreshold: DefaultShaftThreshold,
		MeshThreshold:  DefaultMeshThreshold,
		Enabled:        true,
	}
}

// Tier identifies which rule decided the Y coordinate.
type Tier int

// Tiers, lowest priority first.
const (
	TierNone Tier = iota // snapping disabled
	TierGrid
	TierShaft
	TierMesh
)

func (t Tier) String() string {
	switch t {
	case TierGrid:
		return "grid"
	case TierShaft:
		return "shaft"
	case TierMesh:
		return "mesh"
	default:
		return "none"
	}
}

// MeshGuide marks the Y line a gear snapped to for meshing.
type MeshGuide struct {
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
	Label    string  `json:"label"`
	TargetID string  `json:"target_id"`
}

// Guides are the transient overlay hints produced by one resolve call.
// At most one of each kind is set.
type Guides struct {
	Align *float64   `json:"align,omitempty"` // Y of the shaft axis snapped to
	Mesh  *MeshGuide `json:"mesh,omitempty"`
}

// Empty reports whether no guide is set.
func (g Guides) Empty() bool {
	return g.Align == nil && g.Mesh == nil
}

// Result is the corrected position and its guides.
type Result struct {
	Position geom.Point
	Guides   Guides
	Tier     Tier
}

// MeshLabel formats the label shown next to a mesh guide.
func MeshLabel(distance float64) string {
	return "Mesh Dist: " + strconv.FormatFloat(distance, 'f', -1, 64) + "mm"
}

// Resolver applies a Config. It holds no other state.
type Resolver struct {
	cfg Config
}

// New returns a resolver for cfg.
func New(cfg Config) Resolver {
	return Resolver{cfg: cfg}
}

// Config returns the resolver's settings.
func (r Resolver) Config() Config {
	return r.cfg
}

// WithEnabled returns a copy of r with snapping switched on or off.
func (r Resolver) WithEnabled(on bool) Resolver {
	r.cfg.Enabled = on
	return r
}

// Resolve returns the snapped position for moving at candidate. items is
// read only; moving itself may or may not be part of it.
func (r Resolver) Resolve(candidate geom.Point, moving part.Item, items []part.Item, zoom float64) Result {
	if !r.cfg.Enabled {
		return Result{Position: candidate, Tier: TierNone}
	}
	if zoom <= 0 || math.IsNaN(zoom) {
		zoom = 1
	}
	g := r.cfg.Grid

	switch moving.Type.Family() {
	case part.FamilyShaft:
		return Result{Position: geom.Snap(candidate, g), Tier: TierGrid}
	case part.FamilyHousing:
		return Result{Position: geom.Snap(candidate, 2*g), Tier: TierGrid}
	case part.FamilyGear, part.FamilyWorm, part.FamilyBearing, part.FamilySimple:
		return r.resolveMounted(candidate, moving, items, zoom)
	default:
		return Result{Position: geom.Snap(candidate, g), Tier: TierGrid}
	}
}

func (r Resolver) resolveMounted(candidate geom.Point, moving part.Item, items []part.Item, zoom float64) Result {
	res := Result{Position: geom.Point{X: geom.Quantize(candidate.X, r.cfg.Grid)}}

	if mesh, ok := r.meshY(candidate.Y, moving, items, r.cfg.MeshThreshold/zoom); ok {
		res.Position.Y = mesh.Y
		res.Guides.Mesh = &mesh
		res.Tier = TierMesh
		return res
	}
	if y, ok := r.shaftY(candidate.Y, moving, items, r.cfg.ShaftThreshold/zoom); ok {
		res.Position.Y = y
		res.Guides.Align = &y
		res.Tier = TierShaft
		return res
	}
	res.Position.Y = geom.Quantize(candidate.Y, r.cfg.Grid)
	res.Tier = TierGrid
	return res
}

// meshY scans other gears; the last qualifying one wins.
func (r Resolver) meshY(y float64, moving part.Item, items []part.Item, threshold float64) (MeshGuide, bool) {
	myRadius, ok := moving.PitchRadius()
	if !ok || !moving.Type.Meshes() {
		return MeshGuide{}, false
	}

	var (
		found MeshGuide
		hit   bool
	)
	for _, o := range items {
		if o.ID == moving.ID || !o.Type.Meshes() {
			continue
		}
		oRadius, ok := o.PitchRadius()
		if !ok {
			continue
		}
		d := myRadius + oRadius
		top, bottom := o.Pos.Y-d, o.Pos.Y+d
		switch {
		case geom.Near(y, top, threshold):
			found, hit = MeshGuide{Y: top, Distance: d, Label: MeshLabel(d), TargetID: o.ID}, true
		case geom.Near(y, bottom, threshold):
			found, hit = MeshGuide{Y: bottom, Distance: d, Label: MeshLabel(d), TargetID: o.ID}, true
		}
	}
	return found, hit
}

// shaftY scans shafts; the last qualifying one wins.
func (r Resolver) shaftY(y float64, moving part.Item, items []part.Item, threshold float64) (float64, bool) {
	var (
		found float64
		hit   bool
	)
	for _, s := range items {
		if s.Type != part.Shaft || s.ID == moving.ID {
			continue
		}
		if geom.Near(y, s.Pos.Y, threshold) {
			found, hit = s.Pos.Y, true
		}
	}
	return found, hit
}
