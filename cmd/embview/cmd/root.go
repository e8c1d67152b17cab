/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/embview/pkg/config"
	"github.com/ssargent/embview/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container the commands run against.
func SetContainer(c *di.Container) {
	container = c
}

// newRootCmd builds the base command when called without any subcommands
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "embview",
		Short: "embview - inspect and edit binary buffers as typed arrays",
		Long: `embview views a file as an array of fixed-width integers. It can print
the array in a human-readable text format, apply edits written in the same
format back to the file, compute CRC-32 checksums, and keep snapshots of
buffers in a local store.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/embview/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the snapshot store")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(),
		newCrcCmd(),
		newDumpCmd(),
		newApplyCmd(),
		newSnapshotCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes one command line and releases the container afterwards,
// whether or not the command succeeded.
func run(args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if container != nil {
		err = errors.CombineErrors(err, container.Close())
	}
	return err
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return path
}

// loadConfig reads the config file when there is one, applies flag
// overrides and installs the result in the container.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if container == nil {
		return errors.New("dependency container not initialized")
	}

	cfg := config.DefaultConfig()
	path := configPath(cmd)
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}

	if err := container.Configure(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}
	logger := container.Logger()
	logger.Debug().Str("config", path).Str("data_dir", cfg.DataDir).Msg("configuration loaded")
	return nil
}
