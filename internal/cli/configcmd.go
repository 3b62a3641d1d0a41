package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gearbox/pkg/config"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output is a complete configuration file: redirect it to the default
location to start customizing snap thresholds, zoom limits or the home view.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.Encode(os.Stdout)
		},
	}
}

// configPathCommand prints where configuration is read from.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.ConfigPath != "" {
				printFile(c.ConfigPath)
				return nil
			}
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			printInfo("No configuration file found, using built-in defaults")
			printFile(path)
			return nil
		},
	}
}
