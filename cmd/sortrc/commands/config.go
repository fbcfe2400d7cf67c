package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sortrc configuration",
	}

	cmd.AddCommand(newConfigInitCmd(ro), newConfigPathCmd(ro))

	return cmd
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd(ro *opts.RootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to edit",
		Long: `Init writes the built-in default configuration to the per-user config
location (or the path given with --config) so it can be edited.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if _, err := os.Stat(ro.ConfigPath); err == nil && !force {
				return errors.Errorf("config already exists at %s (use --force to overwrite)", ro.ConfigPath)
			}

			if err := config.Save(ctx, ro.ConfigPath, config.Default()); err != nil {
				return errors.Errorf("writing default config: %w", err)
			}

			ro.UserLogger.Successf("Wrote default config to %s", ro.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// newConfigPathCmd creates the config path command
func newConfigPathCmd(ro *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(ro.ConfigPath)
			return nil
		},
	}
}
