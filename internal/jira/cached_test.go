package jira

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
)

// stubSource counts upstream calls and serves canned payloads.
type stubSource struct {
	issues     map[string][]byte
	searches   map[string][][]byte
	fetchCalls int
	searchCall int
}

func (s *stubSource) FetchByID(_ context.Context, id string) ([]byte, error) {
	s.fetchCalls++
	payload, ok := s.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return payload, nil
}

func (s *stubSource) Search(_ context.Context, jql string, _ int) ([][]byte, error) {
	s.searchCall++
	return s.searches[jql], nil
}

func newTestCachedSource(t *testing.T, src *stubSource) *CachedSource {
	t.Helper()
	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	c := cache.New(store, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return NewCachedSource(src, c, time.Hour, nil)
}

func TestCachedSource_FetchByIDReadThrough(t *testing.T) {
	src := &stubSource{issues: map[string][]byte{
		"PROJ-1": []byte(`{"key":"PROJ-1","fields":{}}`),
	}}
	cached := newTestCachedSource(t, src)
	ctx := context.Background()

	first, err := cached.FetchByID(ctx, "PROJ-1")
	require.NoError(t, err)
	second, err := cached.FetchByID(ctx, "PROJ-1")
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, src.fetchCalls, "second read must come from the cache")
}

func TestCachedSource_FetchByIDPropagatesNotFound(t *testing.T) {
	cached := newTestCachedSource(t, &stubSource{issues: map[string][]byte{}})

	_, err := cached.FetchByID(context.Background(), "PROJ-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedSource_UncacheableKeyStillFetches(t *testing.T) {
	src := &stubSource{issues: map[string][]byte{
		"weird key!": []byte(`{"key":"weird key!","fields":{}}`),
	}}
	cached := newTestCachedSource(t, src)
	ctx := context.Background()

	// The key fails sanitization, so both reads go upstream.
	_, err := cached.FetchByID(ctx, "weird key!")
	require.NoError(t, err)
	_, err = cached.FetchByID(ctx, "weird key!")
	require.NoError(t, err)

	assert.Equal(t, 2, src.fetchCalls)
}

func TestCachedSource_SearchCachesByFingerprint(t *testing.T) {
	jql := `project = "PROJ"`
	src := &stubSource{searches: map[string][][]byte{
		jql: {
			[]byte(`{"key":"PROJ-1","fields":{}}`),
			[]byte(`{"key":"PROJ-2","fields":{}}`),
		},
	}}
	cached := newTestCachedSource(t, src)
	ctx := context.Background()
	params := SearchParams{JQL: jql, MaxResults: 50}

	first, err := cached.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := cached.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, 1, src.searchCall, "repeat search must hit the cache")
}

func TestCachedSource_SearchSeedsIssueBucket(t *testing.T) {
	jql := `project = "PROJ"`
	src := &stubSource{
		issues: map[string][]byte{},
		searches: map[string][][]byte{
			jql: {[]byte(`{"key":"PROJ-1","fields":{"summary":"from search"}}`)},
		},
	}
	cached := newTestCachedSource(t, src)
	ctx := context.Background()

	_, err := cached.Search(ctx, SearchParams{JQL: jql, MaxResults: 50})
	require.NoError(t, err)

	// The search result seeded the per-issue cache, so a follow-up fetch
	// never goes upstream.
	payload, err := cached.FetchByID(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), "from search")
	assert.Equal(t, 0, src.fetchCalls)
}

func TestCachedSource_DistinctParamsDistinctEntries(t *testing.T) {
	src := &stubSource{searches: map[string][][]byte{
		`project = "A"`: {[]byte(`{"key":"A-1","fields":{}}`)},
		`project = "B"`: {[]byte(`{"key":"B-1","fields":{}}`)},
	}}
	cached := newTestCachedSource(t, src)
	ctx := context.Background()

	a, err := cached.Search(ctx, SearchParams{JQL: `project = "A"`})
	require.NoError(t, err)
	b, err := cached.Search(ctx, SearchParams{JQL: `project = "B"`})
	require.NoError(t, err)

	assert.NotEqual(t, string(a[0]), string(b[0]))
	assert.Equal(t, 2, src.searchCall)
}
