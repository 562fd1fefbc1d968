// Package graph assembles dependency graph snapshots from seed issues by
// traversing blocking links outward through a cache-backed issue source.
package graph

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
	"github.com/andrewchch/jira-dependency-viewer/internal/jira"
)

// DefaultMaxDepth bounds full dependency-tree traversal.
const DefaultMaxDepth = 10

// defaultWorkers bounds concurrent per-level fetches.
const defaultWorkers = 4

// Fetcher retrieves one raw issue payload by key. In production this is
// the cache-through source; tests inject fakes.
type Fetcher interface {
	FetchByID(ctx context.Context, id string) ([]byte, error)
}

// Request describes one graph build.
type Request struct {
	// Seeds are the raw payloads matched by the primary query.
	Seeds [][]byte
	// HighlightIDs marks nodes matched by the secondary emphasis query.
	// Highlighting never alters topology.
	HighlightIDs map[string]bool
	// MaxDepth is the traversal bound in hops from any seed. Values
	// below 1 mean immediate links only.
	MaxDepth int
	// ChildAsBlocking treats subtasks as blocking their parent.
	ChildAsBlocking bool
}

// Builder expands a seed set into a deduplicated node/edge snapshot.
type Builder struct {
	fetcher Fetcher
	norm    *jira.Normalizer
	workers int
}

// NewBuilder creates a Builder. workers bounds per-level fetch concurrency;
// values below 1 use the default.
func NewBuilder(fetcher Fetcher, norm *jira.Normalizer, workers int) *Builder {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Builder{fetcher: fetcher, norm: norm, workers: workers}
}

// Build traverses blocking links breadth-first from the seeds, one level at
// a time, up to the depth bound. A visited set keyed by issue ID guarantees
// termination on cyclic link graphs and merges re-discoveries into a single
// node. Unfetchable references are collected as failures and their edges
// dropped; they never abort the build. Cancellation is honored between
// levels: the current level's in-flight fetches complete, no further level
// starts, and the partial snapshot is returned alongside ctx.Err().
func (b *Builder) Build(ctx context.Context, req Request) (*domain.GraphSnapshot, []domain.FetchFailure, error) {
	maxDepth := req.MaxDepth
	if maxDepth < 1 {
		maxDepth = 1
	}

	nodes := make(map[string]domain.Issue)
	refsByID := make(map[string][]jira.BlockRef)
	visited := make(map[string]bool)
	var failures []domain.FetchFailure

	// Seed nodes come pre-fetched from the search query.
	for _, payload := range req.Seeds {
		raw, err := jira.DecodeIssue(payload)
		if err != nil || raw.Key == "" {
			failures = append(failures, domain.FetchFailure{Reason: "undecodable seed payload"})
			continue
		}
		if visited[raw.Key] {
			continue
		}
		visited[raw.Key] = true
		issue := b.norm.Normalize(raw)
		issue.Origin = domain.OriginSeed
		nodes[raw.Key] = issue
		refsByID[raw.Key] = b.norm.BlockingRefs(raw, req.ChildAsBlocking)
	}

	frontier := nextFrontier(refsByID, visited, mapKeys(refsByID))

	depth := 0
	var buildErr error
	for len(frontier) > 0 && depth < maxDepth {
		if err := ctx.Err(); err != nil {
			buildErr = err
			break
		}
		depth++

		var expanded []string
		for _, res := range b.fetchLevel(ctx, frontier) {
			if res.err != nil {
				failures = append(failures, domain.FetchFailure{
					ID:        res.id,
					Reason:    res.err.Error(),
					Transient: errors.Is(res.err, jira.ErrTransient),
				})
				continue
			}
			raw, err := jira.DecodeIssue(res.payload)
			if err != nil || raw.Key == "" {
				failures = append(failures, domain.FetchFailure{ID: res.id, Reason: "undecodable payload"})
				continue
			}
			issue := b.norm.Normalize(raw)
			issue.Origin = domain.OriginDiscovered
			nodes[raw.Key] = issue
			refsByID[raw.Key] = b.norm.BlockingRefs(raw, req.ChildAsBlocking)
			expanded = append(expanded, raw.Key)
		}

		frontier = nextFrontier(refsByID, visited, expanded)
	}

	for id := range req.HighlightIDs {
		if node, ok := nodes[id]; ok {
			node.Highlighted = true
			nodes[id] = node
		}
	}

	snapshot := assemble(nodes, refsByID)
	return snapshot, failures, buildErr
}

// nextFrontier collects the not-yet-visited far ends of the given issues'
// links, marking them visited at enqueue time so an ID discovered through
// two paths is fetched once.
func nextFrontier(refsByID map[string][]jira.BlockRef, visited map[string]bool, from []string) []string {
	var next []string
	for _, id := range from {
		for _, ref := range refsByID[id] {
			if ref.Other == "" || visited[ref.Other] {
				continue
			}
			visited[ref.Other] = true
			next = append(next, ref.Other)
		}
	}
	sort.Strings(next)
	return next
}

type fetchResult struct {
	id      string
	payload []byte
	err     error
}

// fetchLevel retrieves one traversal level's issues with a bounded worker
// pool. Work beyond the bound queues on the jobs channel. Results are
// returned in ID order for deterministic processing.
func (b *Builder) fetchLevel(ctx context.Context, ids []string) []fetchResult {
	workers := b.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan string)
	out := make(chan fetchResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				payload, err := b.fetcher.FetchByID(ctx, id)
				out <- fetchResult{id: id, payload: payload, err: err}
			}
		}()
	}
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]fetchResult, 0, len(ids))
	for res := range out {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].id < results[j].id })
	return results
}

// assemble materializes the snapshot: every known node, plus each relation
// whose endpoints are both materialized, deduplicated per
// (source, target, label) and with self-loops dropped.
func assemble(nodes map[string]domain.Issue, refsByID map[string][]jira.BlockRef) *domain.GraphSnapshot {
	snapshot := &domain.GraphSnapshot{
		Nodes: make([]domain.Issue, 0, len(nodes)),
		Edges: []domain.DependencyEdge{},
	}
	for _, node := range nodes {
		snapshot.Nodes = append(snapshot.Nodes, node)
	}

	seen := make(map[domain.DependencyEdge]bool)
	for _, refs := range refsByID {
		for _, ref := range refs {
			if ref.Source == ref.Target {
				continue
			}
			if _, ok := nodes[ref.Source]; !ok {
				continue
			}
			if _, ok := nodes[ref.Target]; !ok {
				continue
			}
			edge := domain.DependencyEdge{Source: ref.Source, Target: ref.Target, Label: ref.Label}
			if seen[edge] {
				continue
			}
			seen[edge] = true
			snapshot.Edges = append(snapshot.Edges, edge)
		}
	}

	snapshot.Sort()
	return snapshot
}

func mapKeys(m map[string][]jira.BlockRef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
