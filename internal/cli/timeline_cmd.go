package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewchch/jira-dependency-viewer/internal/cli/formatter"
	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

func newTimelineCmd(app *App) *cobra.Command {
	var flags graphFlags
	var todayStr string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Compute a dependency-ordered timeline for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.TimelineRequest{GraphRequest: flags.request()}
			if todayStr != "" {
				t, err := time.Parse("2006-01-02", todayStr)
				if err != nil {
					return fmt.Errorf("parsing --today: %w", err)
				}
				req.Today = &t
			}

			result, err := app.Timelines.BuildTimeline(cmd.Context(), req)
			if err != nil {
				return err
			}

			if flags.asJSON {
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprint(app.Out, formatter.FormatTimeline(result, app.interactive()))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&todayStr, "today", "", "reference date YYYY-MM-DD (defaults to the current date)")
	return cmd
}
