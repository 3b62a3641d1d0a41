package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the gearbox CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The root command carries two persistent flags:
//   - --config (-c): configuration file (default: the user config directory)
//   - --verbose (-v): debug logging, overriding the configured level
//
// The configuration is loaded once in PersistentPreRunE, before any
// subcommand runs, so every command sees the same effective settings.
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).Command().ExecuteContext(ctx)
}

// Command returns the root command with persistent flags attached.
func (c *CLI) Command() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (TOML)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.loadConfig(configPath, verbose)
	}
	return root
}
