package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewchch/jira-dependency-viewer/internal/cli/formatter"
	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

type graphFlags struct {
	project      string
	text         string
	statuses     []string
	jql          string
	highlightJQL string
	maxResults   int
	tree         bool
	childBlock   bool
	asJSON       bool
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.project, "project", "", "project key filter")
	cmd.Flags().StringVar(&f.text, "text", "", "free-text filter")
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "status filter, repeatable")
	cmd.Flags().StringVar(&f.jql, "jql", "", "raw JQL (overrides other filters)")
	cmd.Flags().StringVar(&f.highlightJQL, "highlight-jql", "", "secondary query marking nodes for emphasis")
	cmd.Flags().IntVar(&f.maxResults, "max-results", 0, "seed result limit (0 uses the configured default)")
	cmd.Flags().BoolVar(&f.tree, "tree", false, "traverse the full dependency tree instead of immediate blockers")
	cmd.Flags().BoolVar(&f.childBlock, "child-blocking", false, "treat subtasks as blocking their parent")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit machine-readable JSON")
}

func (f *graphFlags) request() service.GraphRequest {
	return service.GraphRequest{
		Project:            f.project,
		Text:               f.text,
		Statuses:           f.statuses,
		JQL:                f.jql,
		HighlightJQL:       f.highlightJQL,
		MaxResults:         f.maxResults,
		ShowDependencyTree: f.tree,
		ChildAsBlocking:    f.childBlock,
	}
}

func newGraphCmd(app *App) *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build and print the dependency graph for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Graphs.BuildGraph(cmd.Context(), flags.request())
			if err != nil {
				return err
			}

			if flags.asJSON {
				enc := json.NewEncoder(app.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprint(app.Out, formatter.FormatGraph(result, app.interactive()))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
