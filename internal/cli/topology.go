package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gearbox/pkg/pipeline"
)

// topologyCommand creates the topology command, which replays a scenario
// and renders the drivetrain graph of the final layout.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{View: pipeline.ViewTopology}

	cmd := &cobra.Command{
		Use:   "topology [scene.toml]",
		Short: "Render the drivetrain graph of a replayed scenario",
		Long: `Render the drivetrain graph of a replayed scenario.

Nodes are the items of the final layout. Solid edges connect a shaft to the
parts mounted on it; dashed edges connect gear pairs at exact meshing
distance. With --detailed, edges carry the transmission ratio and nodes
their parameters.

Formats: svg (default), png, pdf, dot, json.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ScriptPath = args[0]
			opts.Formats = parseFormats(formats)
			return c.runPipeline(cmd.Context(), opts, output, "topology", noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with parameters and edges with ratios")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include items with no connections")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion(pipeline.ViewTopology))

	return cmd
}
