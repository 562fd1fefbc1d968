package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewchch/jira-dependency-viewer/internal/cli/formatter"
)

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the issue cache",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts, expired counts and approximate size",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.CacheOps.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, formatter.FormatCacheStats(s, app.interactive()))
			return nil
		},
	}

	var expiredOnly bool
	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed int
			var err error
			if expiredOnly {
				removed, err = app.CacheOps.ClearExpired(cmd.Context())
			} else {
				removed, err = app.CacheOps.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Removed %d cache entries\n", removed)
			return nil
		},
	}
	clear.Flags().BoolVar(&expiredOnly, "expired", false, "remove only expired entries")

	cmd.AddCommand(stats, clear)
	return cmd
}
