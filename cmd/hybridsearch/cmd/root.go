// Package cmd provides the CLI commands for hybridsearch.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/verdantcart/hybridsearch/pkg/version"
)

var (
	configDir string
	debugMode bool
)

// NewRootCmd creates the root command for the hybridsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hybridsearch",
		Short: "Hybrid product search engine",
		Long: `Hybridsearch fuses semantic embedding retrieval, keyword retrieval,
and graph relationship signals into a single ranked product result list.

Run 'hybridsearch serve' to start the HTTP API, or 'hybridsearch search'
to query from the command line.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("hybridsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "Directory containing hybridsearch.yaml")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
