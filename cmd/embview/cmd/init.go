/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/config"
)

// newInitCmd represents the init command
func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with default settings.

The file goes to --config, or ~/.config/embview/config.yaml when that flag
is not set. An existing file is kept unless --force is given.

Examples:
  embview init
  embview init --config ./embview.yaml --data-dir ./snapshots`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			force, _ := cmd.Flags().GetBool("force")

			if config.ConfigExists(path) && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s. Use --force to overwrite.\n", path)
				return nil
			}

			cfg, err := config.BootstrapConfig(path, container.Config().DataDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Data directory: %s\n", cfg.DataDir)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	return initCmd
}
