// Package linkage moves parts that are mounted on a shaft together with it.
//
// A part is mounted on a shaft when it is neither a shaft nor a housing, its
// Y equals the shaft's Y within [Config.Tolerance], and its X lies within the
// shaft's axial span widened by [Config.Margin] on both ends. The span of a
// shaft centred at x with total segment length L is [x-L/2, x+L/2]; a shaft
// without segments has a zero-width span at x.
//
// [Propagate] runs after a shaft's new position has been committed. It
// evaluates the mounting rule against the shaft's old position, because the
// snapshot it receives already holds the new one, and translates every
// mounted part by the same delta as the shaft.
package linkage

import (
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/part"
)

// Defaults.
const (
	DefaultTolerance = 0.1
	DefaultMargin    = 20.0
)

// Config holds the mounting tolerances in world units.
type Config struct {
	Tolerance float64 `toml:"tolerance"`
	Margin    float64 `toml:"margin"`
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{Tolerance: DefaultTolerance, Margin: DefaultMargin}
}

// Span returns the axial extent of shaft params sp centred at x.
func Span(sp part.ShaftParams, x float64) (lo, hi float64) {
	half := sp.TotalLength() / 2
	return x - half, x + half
}

// Linkable reports whether items of type t can ride on a shaft.
func Linkable(t part.Type) bool {
	switch t.Family() {
	case part.FamilyShaft, part.FamilyHousing:
		return false
	case part.FamilyGear, part.FamilyWorm, part.FamilyBearing, part.FamilySimple:
		return true
	default:
		return false
	}
}

// MountedOn reports whether it sits on a shaft with params sp centred at axis.
func (c Config) MountedOn(it part.Item, sp part.ShaftParams, axis geom.Point) bool {
	if !Linkable(it.Type) {
		return false
	}
	if !geom.Near(it.Pos.Y, axis.Y, c.Tolerance) {
		return false
	}
	lo, hi := Span(sp, axis.X)
	return it.Pos.X >= lo-c.Margin && it.Pos.X <= hi+c.Margin
}

// Mounted returns the ids of items mounted on shaft at its current position,
// in snapshot order.
func (c Config) Mounted(shaft part.Item, items []part.Item) []string {
	sp, ok := shaft.Shaft()
	if !ok {
		return nil
	}
	var ids []string
	for _, it := range items {
		if it.ID != shaft.ID && c.MountedOn(it, sp, shaft.Pos) {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// Result is the outcome of Propagate.
type Result struct {
	Items []part.Item // new snapshot; the input slice is not modified
	Moved []string    // ids translated along with the shaft, in snapshot order
	Delta geom.Point
}

// Propagate translates the parts that were mounted on shaftID at from by
// to-from. items must already contain the shaft at its new position. If
// shaftID is not a shaft in items, the snapshot is returned unchanged.
func (c Config) Propagate(shaftID string, from, to geom.Point, items []part.Item) Result {
	out := make([]part.Item, len(items))
	copy(out, items)
	res := Result{Items: out, Delta: geom.Sub(to, from)}

	var sp part.ShaftParams
	found := false
	for _, it := range items {
		if it.ID == shaftID {
			sp, found = it.Shaft()
			break
		}
	}
	if !found {
		return res
	}

	for i, it := range out {
		if it.ID == shaftID || !c.MountedOn(it, sp, from) {
			continue
		}
		it.Pos = geom.Add(it.Pos, res.Delta)
		out[i] = it
		res.Moved = append(res.Moved, it.ID)
	}
	return res
}
