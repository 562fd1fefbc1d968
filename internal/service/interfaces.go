package service

import (
	"context"
	"time"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
	"github.com/andrewchch/jira-dependency-viewer/internal/jira"
)

// GraphRequest describes one graph build from caller-facing filters.
// JQL, when set, overrides the project/text/status filters.
type GraphRequest struct {
	Project            string
	Text               string
	Statuses           []string
	JQL                string
	HighlightJQL       string
	MaxResults         int
	ShowDependencyTree bool
	ChildAsBlocking    bool
}

// GraphResult is a usable graph plus whatever went wrong building it.
// Failures are warnings: the snapshot is valid without the failed nodes.
type GraphResult struct {
	Snapshot *domain.GraphSnapshot `json:"snapshot"`
	Failures []domain.FetchFailure `json:"failures,omitempty"`
}

// TimelineRequest extends a graph build with a schedule computation.
// Today defaults to the current date when nil.
type TimelineRequest struct {
	GraphRequest
	Today *time.Time
}

// TimelineResult carries both the schedule and the graph it derives from,
// so callers can fall back to graph-only display when CycleIDs is
// non-empty.
type TimelineResult struct {
	Snapshot *domain.GraphSnapshot  `json:"snapshot"`
	Failures []domain.FetchFailure  `json:"failures,omitempty"`
	Tasks    []domain.ScheduledTask `json:"tasks"`
	Links    []domain.TimelineLink  `json:"links"`
	CycleIDs []string               `json:"cycleIds,omitempty"`
}

type GraphService interface {
	BuildGraph(ctx context.Context, req GraphRequest) (*GraphResult, error)
}

type TimelineService interface {
	BuildTimeline(ctx context.Context, req TimelineRequest) (*TimelineResult, error)
}

// CacheAdminService is the operational surface over the cache.
type CacheAdminService interface {
	Stats(ctx context.Context) (cache.Stats, error)
	Clear(ctx context.Context) (int, error)
	ClearExpired(ctx context.Context) (int, error)
}

// SeedSource supplies seed and traversal payloads. Production wires the
// cache-through Jira source here.
type SeedSource interface {
	Search(ctx context.Context, params jira.SearchParams) ([][]byte, error)
	FetchByID(ctx context.Context, id string) ([]byte, error)
}
