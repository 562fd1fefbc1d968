package cli

import (
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

// App holds references to the service interfaces used by CLI commands.
type App struct {
	Graphs    service.GraphService
	Timelines service.TimelineService
	CacheOps  service.CacheAdminService

	// APIHandler serves the JSON API for the serve command.
	APIHandler http.Handler
	// ServerAddr is the configured listen address.
	ServerAddr string

	// Out is where command output goes; defaults to stdout.
	Out io.Writer
	// IsInteractive reports whether output goes to a terminal, which
	// gates colored output.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "depviz" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "depviz",
		Short: "Jira dependency graph and timeline viewer",
	}

	root.AddCommand(
		newServeCmd(app),
		newGraphCmd(app),
		newTimelineCmd(app),
		newCacheCmd(app),
	)

	return root
}
