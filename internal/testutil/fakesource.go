package testutil

import (
	"context"
	"sync"

	"github.com/andrewchch/jira-dependency-viewer/internal/jira"
)

// FakeSource is an in-memory IssueSource backed by canned payloads.
type FakeSource struct {
	mu sync.Mutex

	// Issues maps issue key to raw payload.
	Issues map[string][]byte
	// Searches maps a JQL string to the payloads it returns.
	Searches map[string][][]byte
	// Errors maps issue keys to a forced fetch error.
	Errors map[string]error

	// FetchCalls records every FetchByID key, in order.
	FetchCalls []string
	// SearchCalls records every Search JQL, in order.
	SearchCalls []string
}

// NewFakeSource builds a FakeSource from issue payloads keyed by issue key.
func NewFakeSource(payloads ...[]byte) *FakeSource {
	f := &FakeSource{
		Issues:   make(map[string][]byte),
		Searches: make(map[string][][]byte),
		Errors:   make(map[string]error),
	}
	for _, p := range payloads {
		raw, err := jira.DecodeIssue(p)
		if err != nil {
			panic(err)
		}
		f.Issues[raw.Key] = p
	}
	return f
}

func (f *FakeSource) FetchByID(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCalls = append(f.FetchCalls, id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errors[id]; ok {
		return nil, err
	}
	payload, ok := f.Issues[id]
	if !ok {
		return nil, jira.ErrNotFound
	}
	return payload, nil
}

func (f *FakeSource) Search(ctx context.Context, jql string, limit int) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SearchCalls = append(f.SearchCalls, jql)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := f.Searches[jql]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
