package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
	"github.com/andrewchch/jira-dependency-viewer/internal/graph"
	"github.com/andrewchch/jira-dependency-viewer/internal/jira"
)

// BuildOptions carries the operator-configured traversal bounds.
type BuildOptions struct {
	MaxDepth   int
	MaxResults int
}

type graphService struct {
	source   SeedSource
	builder  *graph.Builder
	opts     BuildOptions
	observer UseCaseObserver
}

// NewGraphService wires the seed source and builder into the graph
// use case.
func NewGraphService(source SeedSource, builder *graph.Builder, opts BuildOptions, observer UseCaseObserver) GraphService {
	if opts.MaxDepth < 1 {
		opts.MaxDepth = graph.DefaultMaxDepth
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = 50
	}
	return &graphService{
		source:   source,
		builder:  builder,
		opts:     opts,
		observer: observerOrNoop(observer),
	}
}

func (s *graphService) BuildGraph(ctx context.Context, req GraphRequest) (*GraphResult, error) {
	start := time.Now()
	requestID := uuid.NewString()

	result, err := s.buildGraph(ctx, req)

	event := UseCaseEvent{
		Name:      "build_graph",
		RequestID: requestID,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
	}
	if result != nil {
		event.Fields = map[string]any{
			"node_count":    len(result.Snapshot.Nodes),
			"edge_count":    len(result.Snapshot.Edges),
			"failure_count": len(result.Failures),
		}
	}
	s.observer.ObserveUseCase(ctx, event)
	return result, err
}

func (s *graphService) buildGraph(ctx context.Context, req GraphRequest) (*GraphResult, error) {
	jql := req.JQL
	if jql == "" {
		jql = jira.BuildJQL(req.Project, req.Text, req.Statuses)
	}
	maxResults := req.MaxResults
	if maxResults < 1 || maxResults > s.opts.MaxResults {
		maxResults = s.opts.MaxResults
	}

	params := jira.SearchParams{
		JQL:             jql,
		HighlightJQL:    req.HighlightJQL,
		MaxResults:      maxResults,
		ChildAsBlocking: req.ChildAsBlocking,
		DependencyTree:  req.ShowDependencyTree,
	}

	seeds, err := s.source.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("searching seed issues: %w", err)
	}

	var failures []domain.FetchFailure
	highlightIDs, hfail := s.highlightIDs(ctx, req, maxResults)
	if hfail != nil {
		failures = append(failures, *hfail)
	}

	maxDepth := 1
	if req.ShowDependencyTree {
		maxDepth = s.opts.MaxDepth
	}

	snapshot, buildFailures, err := s.builder.Build(ctx, graph.Request{
		Seeds:           seeds,
		HighlightIDs:    highlightIDs,
		MaxDepth:        maxDepth,
		ChildAsBlocking: req.ChildAsBlocking,
	})
	if err != nil {
		// Cancellation still yields the partial graph built so far.
		return &GraphResult{Snapshot: snapshot, Failures: append(failures, buildFailures...)}, err
	}
	return &GraphResult{Snapshot: snapshot, Failures: append(failures, buildFailures...)}, nil
}

// highlightIDs resolves the secondary emphasis query. Its failure is a
// warning, never fatal: the graph renders fine without highlights.
func (s *graphService) highlightIDs(ctx context.Context, req GraphRequest, maxResults int) (map[string]bool, *domain.FetchFailure) {
	if req.HighlightJQL == "" {
		return nil, nil
	}
	results, err := s.source.Search(ctx, jira.SearchParams{
		JQL:        req.HighlightJQL,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, &domain.FetchFailure{
			ID:        "highlight-query",
			Reason:    err.Error(),
			Transient: true,
		}
	}
	ids := make(map[string]bool, len(results))
	for _, payload := range results {
		if raw, err := jira.DecodeIssue(payload); err == nil && raw.Key != "" {
			ids[raw.Key] = true
		}
	}
	return ids, nil
}
