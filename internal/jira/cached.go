package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
)

// SearchParams is the normalized parameter set identifying one search
// request. Its fingerprint keys the search-result cache, so two requests
// that differ only in parameter order share an entry.
type SearchParams struct {
	JQL             string `json:"jql"`
	HighlightJQL    string `json:"highlightJql"`
	MaxResults      int    `json:"maxResults"`
	ChildAsBlocking bool   `json:"childAsBlocking"`
	DependencyTree  bool   `json:"dependencyTree"`
}

// Fingerprint returns the cache key for these parameters.
func (p SearchParams) Fingerprint() (string, error) {
	return cache.Fingerprint(p)
}

// CachedSource wraps an IssueSource with read-through caching. Issue
// payloads are cached per key, search result sets per query fingerprint.
// The cache is consulted and updated outside any lock, so slow upstream
// fetches never block unrelated cache access.
type CachedSource struct {
	src      IssueSource
	cache    *cache.Cache
	ttl      time.Duration
	observer FetchObserver
}

// NewCachedSource layers c over src. A zero ttl uses the cache default;
// a nil observer disables telemetry.
func NewCachedSource(src IssueSource, c *cache.Cache, ttl time.Duration, observer FetchObserver) *CachedSource {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &CachedSource{src: src, cache: c, ttl: ttl, observer: observer}
}

// FetchByID returns the cached payload when present, fetching and caching
// on a miss. Keys the cache rejects bypass caching and go straight to the
// upstream source.
func (s *CachedSource) FetchByID(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	payload, ok, err := s.cache.Get(ctx, cache.BucketIssues, id)
	cacheable := !errors.Is(err, cache.ErrInvalidKey)
	if ok {
		s.observer.OnFetch(FetchEvent{Key: id, Source: "cache", LatencyMs: time.Since(start).Milliseconds(), Success: true})
		return payload, nil
	}

	payload, err = s.src.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		// A failed write costs a future cache miss, nothing more.
		_ = s.cache.Put(ctx, cache.BucketIssues, id, payload, s.ttl)
	}
	return payload, nil
}

// Search returns cached results for an equivalent earlier query, or runs
// the search and caches the full result set under the query fingerprint.
func (s *CachedSource) Search(ctx context.Context, params SearchParams) ([][]byte, error) {
	key, err := params.Fingerprint()
	if err != nil {
		return nil, err
	}

	if blob, ok, _ := s.cache.Get(ctx, cache.BucketSearches, key); ok {
		var raws []json.RawMessage
		if err := json.Unmarshal(blob, &raws); err == nil {
			results := make([][]byte, len(raws))
			for i, r := range raws {
				results[i] = []byte(r)
			}
			s.observer.OnFetch(FetchEvent{Key: params.JQL, Source: "cache", Success: true})
			return results, nil
		}
	}

	results, err := s.src.Search(ctx, params.JQL, params.MaxResults)
	if err != nil {
		return nil, err
	}

	raws := make([]json.RawMessage, len(results))
	for i, r := range results {
		raws[i] = json.RawMessage(r)
	}
	blob, err := json.Marshal(raws)
	if err != nil {
		return nil, fmt.Errorf("encoding search results: %w", err)
	}
	_ = s.cache.Put(ctx, cache.BucketSearches, key, blob, s.ttl)

	// Seed the per-issue bucket too, so traversal re-reads hit the cache.
	for _, r := range results {
		if raw, err := DecodeIssue(r); err == nil && raw.Key != "" {
			_ = s.cache.Put(ctx, cache.BucketIssues, raw.Key, r, s.ttl)
		}
	}
	return results, nil
}
