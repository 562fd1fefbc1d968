package domain

import (
	"sort"
	"time"
)

// Issue is one tracked work item as it appears in a graph snapshot.
// StoryPoints, StartOverride and EndOverride are nil when the tracker has no
// value for them; override dates, when present, are authoritative for
// scheduling.
type Issue struct {
	ID            string     `json:"id"`
	Key           string     `json:"key"`
	Summary       string     `json:"summary"`
	Status        string     `json:"status"`
	StoryPoints   *float64   `json:"storyPoints,omitempty"`
	StartOverride *time.Time `json:"start,omitempty"`
	EndOverride   *time.Time `json:"end,omitempty"`
	URL           string     `json:"url"`
	Origin        Origin     `json:"origin"`
	Highlighted   bool       `json:"highlighted"`
}

// DependencyEdge is a directed "source blocks target" relation between two
// issues present in the same snapshot.
type DependencyEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// GraphSnapshot is the deduplicated node/edge set produced by one graph
// build. It is handed to consumers read-only.
type GraphSnapshot struct {
	Nodes []Issue          `json:"nodes"`
	Edges []DependencyEdge `json:"edges"`
}

// Node returns the issue with the given ID, or nil.
func (g *GraphSnapshot) Node(id string) *Issue {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Sort orders nodes by ID and edges by (source, target, label) so that
// serialized snapshots are deterministic.
func (g *GraphSnapshot) Sort() {
	sort.Slice(g.Nodes, func(i, j int) bool {
		return g.Nodes[i].ID < g.Nodes[j].ID
	})
	sort.Slice(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Label < b.Label
	})
}

// FetchFailure records one issue reference that could not be materialized
// during a graph build. Failures are collected alongside the partial graph;
// they never abort a build.
type FetchFailure struct {
	ID        string `json:"id"`
	Reason    string `json:"reason"`
	Transient bool   `json:"transient"`
}
