package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gearbox/pkg/pipeline"
)

// replayCommand creates the replay command, which plays a scenario script
// and renders the resulting plan view.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{View: pipeline.ViewPlan}

	cmd := &cobra.Command{
		Use:   "replay [scene.toml]",
		Short: "Replay a scenario script and render the plan view",
		Long: `Replay a scenario script and render the plan view.

A scenario is a TOML file of pointer, wheel and edit events that is played
into a fresh canvas exactly as a user would perform them: drops, drags with
shaft, mesh and grid snapping, pans, zooms and parameter edits. The final
layout is rendered to SVG (default), PNG, PDF or JSON.

Use -o - to write a single format to stdout.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ScriptPath = args[0]
			opts.Formats = parseFormats(formats)
			return c.runPipeline(cmd.Context(), opts, output, "", noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion(pipeline.ViewPlan))

	return cmd
}

// runPipeline executes one pipeline run and writes every artifact.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options, output, suffix string, noCache bool) error {
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if output == "-" && len(opts.Formats) > 1 {
		return fmt.Errorf("stdout output takes a single format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+opts.ScriptPath+"...")
	opts.Progress = spinner.SetMessage
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, opts.ScriptPath, suffix, opts.Formats)
	written := make([]string, 0, len(paths))
	for _, format := range opts.Formats {
		path := paths[format]
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Replayed %d events", result.Stats.Applied))

	if output == "-" {
		return nil
	}
	printSuccess("Rendered %s view", opts.View)
	sort.Strings(written)
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.Items, len(result.Topology.Edges), result.Stats.Applied, result.Stats.CacheHits == len(opts.Formats))
	if opts.View == pipeline.ViewPlan {
		printNewline()
		printNextStep("Drivetrain graph", appName+" topology "+opts.ScriptPath)
	}
	return nil
}

// writeArtifact writes data to path, or to stdout when path is "-".
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
