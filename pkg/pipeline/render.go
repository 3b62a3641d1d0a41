package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/observability"
	"github.com/matzehuels/gearbox/pkg/render"
	"github.com/matzehuels/gearbox/pkg/render/plan"
	"github.com/matzehuels/gearbox/pkg/render/topology"
)

// Render generates output artifacts for result in the requested formats.
func Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.View, opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, result, opts, format)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderFormat renders one format with render hooks around it.
func renderFormat(ctx context.Context, result *Result, opts Options, format string) ([]byte, error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var data []byte
	var err error
	if opts.IsTopology() {
		data, err = renderTopology(ctx, result, opts, format)
	} else {
		data, err = renderPlan(result, opts, format)
	}

	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, errors.Wrap(code, err, "render %s %s", opts.View, format)
	}
	return data, nil
}

func renderPlan(result *Result, opts Options, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return plan.RenderSVG(result.Frame), nil
	case FormatPNG:
		return render.ToPNG(plan.RenderSVG(result.Frame), opts.Scale)
	case FormatPDF:
		return render.ToPDF(plan.RenderSVG(result.Frame))
	case FormatJSON:
		return plan.RenderJSON(result.Frame)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported plan format: %s", format)
	}
}

func renderTopology(ctx context.Context, result *Result, opts Options, format string) ([]byte, error) {
	dot := topology.ToDOT(result.Topology, topology.Options{
		Detailed: opts.Detailed,
		All:      opts.All,
		Names:    invert(result.Aliases),
	})

	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return topology.RenderSVG(ctx, dot)
	case FormatPNG, FormatPDF:
		svg, err := topology.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		if format == FormatPNG {
			return render.ToPNG(svg, opts.Scale)
		}
		return render.ToPDF(svg)
	case FormatJSON:
		return marshalTopology(result.Topology)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported topology format: %s", format)
	}
}

type jsonEdge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Kind     string   `json:"kind"`
	Distance float64  `json:"distance,omitempty"`
	Ratio    *float64 `json:"ratio,omitempty"`
}

func marshalTopology(g topology.Graph) ([]byte, error) {
	edges := make([]jsonEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		je := jsonEdge{From: e.From, To: e.To, Kind: e.Kind.String(), Distance: e.Distance}
		if r, ok := g.Ratio(e); ok {
			je.Ratio = &r
		}
		edges = append(edges, je)
	}
	return json.MarshalIndent(struct {
		Edges []jsonEdge `json:"edges"`
	}{edges}, "", "  ")
}

func invert(aliases map[string]string) map[string]string {
	out := make(map[string]string, len(aliases))
	for alias, id := range aliases {
		out[id] = alias
	}
	return out
}
