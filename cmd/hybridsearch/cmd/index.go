package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the search indexes from the catalog",
		Long: `Build the keyword and vector indexes from the configured catalog
and seed the relationship graph. Useful for verifying a catalog before
starting the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd)
		},
	}
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.engine.IndexCatalog(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products in %s\n",
		stats.ProductCount, stats.BuildTime.Round(time.Millisecond))
	return nil
}
