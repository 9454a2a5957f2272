// Package cmd provides config command functionality for mkunit CLI
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mkunit/mkunit/internal/config"
)

// ConfigOptions holds config command options.
type ConfigOptions struct {
	Output string
}

// ConfigView is the effective configuration together with its source.
type ConfigView struct {
	ConfigFile string           `json:"configFile,omitempty" yaml:"configFile,omitempty"`
	Settings   *config.Settings `json:"settings" yaml:"settings"`
}

// ConfigCommand represents the config command.
type ConfigCommand struct{}

// NewConfigCommand creates a new ConfigCommand.
func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{}
}

// GetCobraCommand returns the cobra command for showing the configuration.
func (c *ConfigCommand) GetCobraCommand() *cobra.Command {
	var opts ConfigOptions

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Display current configuration",
		Long: `Display the effective configuration including defaults, the configuration
file, MKUNIT_* environment variables and global flags.`,
		Args: exactArgs(0),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(opts.Output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.Run(cmd.Context(), getApp(cmd), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addOutputFlag(configCmd, &opts.Output, "yaml")

	return configCmd
}

// Run executes the config command.
func (c *ConfigCommand) Run(_ context.Context, app *App, opts ConfigOptions) error {
	view := ConfigView{
		ConfigFile: app.ConfigProvider.ConfigFileUsed(),
		Settings:   app.Config,
	}

	if opts.Output != "text" {
		return PrintOutput(app.Printer.Out, opts.Output, view)
	}

	p := app.Printer
	if view.ConfigFile != "" {
		p.Printf("# %s\n", view.ConfigFile)
	} else {
		p.Println("# no configuration file, using defaults")
	}
	return PrintOutput(p.Out, "yaml", view.Settings)
}
