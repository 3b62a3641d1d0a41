package plan

import (
	"encoding/json"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/part"
	"github.com/matzehuels/gearbox/pkg/snap"
	"github.com/matzehuels/gearbox/pkg/viewport"
)

type jsonOutput struct {
	Viewport    viewport.Viewport `json:"viewport"`
	ZoomPercent int               `json:"zoom_percent"`
	SnapEnabled bool              `json:"snap_enabled"`
	Selected    string            `json:"selected,omitempty"`
	Guides      *snap.Guides      `json:"guides,omitempty"`
	Items       []jsonItem        `json:"items"`
}

type jsonItem struct {
	ID       string      `json:"id"`
	Type     part.Type   `json:"type"`
	Family   string      `json:"family"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Rotation int         `json:"rotation"`
	Bounds   [4]float64  `json:"bounds"` // min x, min y, max x, max y
	Params   part.Params `json:"params"`
}

// RenderJSON serializes f for consumption by other tools.
func RenderJSON(f canvas.Frame) ([]byte, error) {
	out := jsonOutput{
		Viewport:    f.Viewport,
		ZoomPercent: f.ZoomPercent,
		SnapEnabled: f.SnapEnabled,
		Selected:    f.Selected,
		Items:       make([]jsonItem, 0, len(f.Items)),
	}
	if !f.Guides.Empty() {
		g := f.Guides
		out.Guides = &g
	}
	for _, it := range f.Items {
		b := it.Bounds()
		out.Items = append(out.Items, jsonItem{
			ID:       it.ID,
			Type:     it.Type,
			Family:   it.Type.Family().String(),
			X:        it.Pos.X,
			Y:        it.Pos.Y,
			Rotation: it.Rotation,
			Bounds:   [4]float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y},
			Params:   it.Params,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
