package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mrcvol/pkg/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

// configInitCommand writes the default configuration.
func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = defaultConfigPath()
			}
			if path == "" {
				return fmt.Errorf("no home directory: pass a config path")
			}
			if err := config.CreateDefaultConfigFile(path); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote %s", path)
			return nil
		},
	}
}
