package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
	"github.com/andrewchch/jira-dependency-viewer/internal/cli"
	"github.com/andrewchch/jira-dependency-viewer/internal/config"
	"github.com/andrewchch/jira-dependency-viewer/internal/graph"
	"github.com/andrewchch/jira-dependency-viewer/internal/jira"
	"github.com/andrewchch/jira-dependency-viewer/internal/schedule"
	"github.com/andrewchch/jira-dependency-viewer/internal/server"
	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("DEPVIZ_CONFIG")
	if configPath == "" {
		configPath = "depviz.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))

	// Open the configured cache backend.
	var store cache.Store
	switch cfg.Cache.Backend {
	case "sqlite":
		store, err = cache.NewSQLiteStore(cfg.Cache.Path)
	default:
		store, err = cache.NewFileStore(cfg.Cache.Dir)
	}
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	issueCache := cache.New(store, cfg.Cache.DefaultTTL.Duration)
	defer issueCache.Close()

	var fetchObserver jira.FetchObserver = jira.NoopObserver{}
	if cfg.Log.FetchCalls {
		fetchObserver = jira.NewLogObserver(os.Stderr)
	}

	fieldMap := jira.FieldMap{
		StartDate:   cfg.Jira.StartDateField,
		EndDate:     cfg.Jira.EndDateField,
		StoryPoints: cfg.Jira.StoryPointsField,
	}
	client := jira.NewClient(jira.ClientConfig{
		Server:     cfg.Jira.Server,
		Email:      cfg.Jira.Email,
		APIToken:   cfg.Jira.APIToken,
		Timeout:    cfg.Jira.Timeout.Duration,
		MaxRetries: cfg.Jira.MaxRetries,
		FieldNames: []string{
			"summary", "status", "issuetype", "issuelinks", "subtasks",
			cfg.Jira.StartDateField, cfg.Jira.EndDateField, cfg.Jira.StoryPointsField,
		},
	}, fetchObserver)
	source := jira.NewCachedSource(client, issueCache, cfg.Cache.DefaultTTL.Duration, fetchObserver)
	normalizer := jira.NewNormalizer(cfg.Jira.Server, fieldMap)
	builder := graph.NewBuilder(source, normalizer, cfg.Build.Workers)

	observer := service.NewLogUseCaseObserver(os.Stderr)
	graphs := service.NewGraphService(source, builder, service.BuildOptions{
		MaxDepth:   cfg.Build.MaxDepth,
		MaxResults: cfg.Build.MaxResults,
	}, observer)
	timelines := service.NewTimelineService(graphs, schedule.NewEngine(), observer)
	cacheOps := service.NewCacheAdminService(issueCache, observer)

	api := server.New(graphs, timelines, cacheOps, logger)

	app := &cli.App{
		Graphs:     graphs,
		Timelines:  timelines,
		CacheOps:   cacheOps,
		APIHandler: api.Handler(),
		ServerAddr: cfg.Server.Addr,
		Out:        os.Stdout,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
