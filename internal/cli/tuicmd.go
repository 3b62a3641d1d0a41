package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/pipeline"
	"github.com/matzehuels/gearbox/pkg/script"
)

// tuiCommand creates the interactive plan view.
func (c *CLI) tuiCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "tui [scene.toml]",
		Short: "Arrange components interactively in the terminal",
		Long: `Arrange components interactively in the terminal.

The plan view is drawn with one terminal cell per 8x16 device pixels. Drag
items with the left mouse button, pan by dragging empty space or scrolling,
and zoom with ctrl+scroll or +/-. Number keys add components from the
palette at the pointer. When a scenario is given it is replayed first.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeScene,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runTUI(cmd.Context(), path, summary)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", true, "print the final layout after quitting")

	return cmd
}

// runTUI starts the interactive program on a fresh or replayed controller.
func (c *CLI) runTUI(ctx context.Context, path string, summary bool) error {
	ctrl, err := c.tuiController(ctx, path)
	if err != nil {
		return err
	}

	// Log output would corrupt the alternate screen.
	prev := c.Logger.GetLevel()
	c.SetLogLevel(LogFatal)
	defer c.SetLogLevel(prev)

	p := tea.NewProgram(NewCanvasModel(ctrl),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session: %w", err)
	}

	if !summary {
		return nil
	}
	f := ctrl.Frame()
	if len(f.Items) == 0 {
		printInfo("Canvas is empty")
		return nil
	}
	fmt.Println(itemTable(f.Items, f.Selected))
	if path != "" {
		printNewline()
		printNextStep("Render the replayed scene", appName+" replay "+path)
	}
	return nil
}

func (c *CLI) tuiController(ctx context.Context, path string) (*canvas.Controller, error) {
	if path == "" {
		return pipeline.NewController(c.Config, c.Logger), nil
	}
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(true)
	if err != nil {
		return nil, err
	}
	_, ctrl, err := runner.Replay(ctx, s)
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}
