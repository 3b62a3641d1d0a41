package topology

import (
	"math"

	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/linkage"
	"github.com/matzehuels/gearbox/pkg/part"
)

// MeshTolerance is how far, in world units, a center distance may be from
// the ideal mesh distance and still count as meshing.
const MeshTolerance = 1e-6

// EdgeKind distinguishes the relations in a Graph.
type EdgeKind int

const (
	Mounted EdgeKind = iota
	Mesh
)

func (k EdgeKind) String() string {
	if k == Mesh {
		return "mesh"
	}
	return "mounted"
}

// Edge relates two items.
type Edge struct {
	From, To string
	Kind     EdgeKind
	Distance float64 // center distance, mesh edges only
}

// Graph is the drivetrain topology.
type Graph struct {
	Items []part.Item
	Edges []Edge
}

// Build computes the topology of items. Edges come out in item order:
// mounted edges shaft by shaft, then mesh pairs.
func Build(items []part.Item, link linkage.Config) Graph {
	g := Graph{Items: items}

	for _, s := range items {
		if s.Type != part.Shaft {
			continue
		}
		for _, id := range link.Mounted(s, items) {
			g.Edges = append(g.Edges, Edge{From: s.ID, To: id, Kind: Mounted})
		}
	}

	for i, a := range items {
		ra, ok := meshRadius(a)
		if !ok {
			continue
		}
		for _, b := range items[i+1:] {
			rb, ok := meshRadius(b)
			if !ok {
				continue
			}
			d := geom.Sub(a.Pos, b.Pos)
			dist := math.Hypot(d.X, d.Y)
			if geom.Near(dist, ra+rb, MeshTolerance) {
				g.Edges = append(g.Edges, Edge{From: a.ID, To: b.ID, Kind: Mesh, Distance: ra + rb})
			}
		}
	}
	return g
}

func meshRadius(it part.Item) (float64, bool) {
	if !it.Type.Meshes() {
		return 0, false
	}
	return it.PitchRadius()
}

// Connected returns the items that take part in at least one edge, in
// item order.
func (g Graph) Connected() []part.Item {
	seen := make(map[string]bool, len(g.Edges)*2)
	for _, e := range g.Edges {
		seen[e.From] = true
		seen[e.To] = true
	}
	var out []part.Item
	for _, it := range g.Items {
		if seen[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// Ratio returns the speed ratio across a mesh edge (driven teeth over
// driver teeth, From driving To). ok is false for other edges.
func (g Graph) Ratio(e Edge) (ratio float64, ok bool) {
	if e.Kind != Mesh {
		return 0, false
	}
	var from, to part.GearParams
	var haveFrom, haveTo bool
	for _, it := range g.Items {
		switch it.ID {
		case e.From:
			from, haveFrom = it.Gear()
		case e.To:
			to, haveTo = it.Gear()
		}
	}
	if !haveFrom || !haveTo || from.Teeth == 0 {
		return 0, false
	}
	return float64(to.Teeth) / float64(from.Teeth), true
}
