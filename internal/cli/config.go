package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chordwheel/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile(args)
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			printSuccess("Config written")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges the defaults, the config file and CHORDWHEEL_* environment
variables, in increasing order of precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}
}

// configFile resolves the target of config init: the argument, then
// --config, then the default location.
func (c *CLI) configFile(args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case c.configPath != "":
		return c.configPath, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("get config path: %w", err)
	}
	return path, nil
}
