package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewchch/jira-dependency-viewer/internal/cache"
	"github.com/andrewchch/jira-dependency-viewer/internal/graph"
	"github.com/andrewchch/jira-dependency-viewer/internal/jira"
	"github.com/andrewchch/jira-dependency-viewer/internal/schedule"
	"github.com/andrewchch/jira-dependency-viewer/internal/service"
	"github.com/andrewchch/jira-dependency-viewer/internal/testutil"
)

// newTestHandler assembles the full API over a fake upstream.
func newTestHandler(t *testing.T, fake *testutil.FakeSource) http.Handler {
	t.Helper()
	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	c := cache.New(store, time.Hour)
	t.Cleanup(func() { _ = c.Close() })

	cached := jira.NewCachedSource(fake, c, time.Hour, nil)
	norm := jira.NewNormalizer("https://example.atlassian.net", jira.DefaultFieldMap())
	builder := graph.NewBuilder(cached, norm, 2)

	graphs := service.NewGraphService(cached, builder, service.BuildOptions{MaxDepth: 10, MaxResults: 50}, nil)
	timelines := service.NewTimelineService(graphs, schedule.NewEngine(), nil)
	cacheOps := service.NewCacheAdminService(c, nil)

	return New(graphs, timelines, cacheOps, nil).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "response must be JSON: %s", rec.Body.String())
	return rec.Code, body
}

func TestHandleSearch(t *testing.T) {
	fake := testutil.NewFakeSource(testutil.IssuePayload("PROJ-2", testutil.WithStatus("Done")))
	fake.Searches[`project = "PROJ"`] = [][]byte{
		testutil.IssuePayload("PROJ-1", testutil.WithBlocks("PROJ-2")),
	}
	handler := newTestHandler(t, fake)

	code, body := doJSON(t, handler, http.MethodGet, "/api/search?project=PROJ")

	assert.Equal(t, http.StatusOK, code)
	nodes := body["nodes"].([]any)
	require.Len(t, nodes, 2)
	first := nodes[0].(map[string]any)
	assert.Equal(t, "PROJ-1", first["id"])
	assert.Equal(t, "seed", first["origin"])

	edges := body["edges"].([]any)
	require.Len(t, edges, 1)
	edge := edges[0].(map[string]any)
	assert.Equal(t, "PROJ-1", edge["source"])
	assert.Equal(t, "PROJ-2", edge["target"])
	assert.Equal(t, "blocks", edge["label"])
}

func TestHandleSearch_QueryParamsForwarded(t *testing.T) {
	fake := testutil.NewFakeSource()
	fake.Searches[`project = "PROJ" AND text ~ "widget" AND status in ("To Do")`] = [][]byte{
		testutil.IssuePayload("PROJ-1"),
	}
	handler := newTestHandler(t, fake)

	code, body := doJSON(t, handler, http.MethodGet,
		"/api/search?project=PROJ&text=widget&statuses=To+Do")

	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body["nodes"].([]any), 1)
}

func TestHandleSchedule(t *testing.T) {
	fake := testutil.NewFakeSource()
	fake.Searches[`project = "PROJ"`] = [][]byte{
		testutil.IssuePayload("PROJ-A",
			testutil.WithBlocks("PROJ-B"),
			testutil.WithField("customfield_10005", 1),
		),
		testutil.IssuePayload("PROJ-B",
			testutil.WithField("customfield_10005", 2),
		),
	}
	handler := newTestHandler(t, fake)

	code, body := doJSON(t, handler, http.MethodGet, "/api/schedule?project=PROJ&today=2026-03-02")

	assert.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body, "error")

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 2)
	first := tasks[0].(map[string]any)
	assert.Equal(t, "PROJ-A", first["issueId"])
	assert.Equal(t, float64(1), first["durationDays"])

	links := body["links"].([]any)
	require.Len(t, links, 1)
}

func TestHandleSchedule_CycleReportedInBody(t *testing.T) {
	fake := testutil.NewFakeSource()
	fake.Searches[`project = "PROJ"`] = [][]byte{
		testutil.IssuePayload("PROJ-A", testutil.WithBlocks("PROJ-B")),
		testutil.IssuePayload("PROJ-B", testutil.WithBlocks("PROJ-A")),
	}
	handler := newTestHandler(t, fake)

	code, body := doJSON(t, handler, http.MethodGet, "/api/schedule?project=PROJ")

	assert.Equal(t, http.StatusOK, code, "a cycle is a degraded result, not a failed request")
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "CYCLE_DETECTED", errBody["code"])
	assert.ElementsMatch(t, []any{"PROJ-A", "PROJ-B"}, errBody["issueIds"].([]any))
	assert.Empty(t, body["tasks"])
}

func TestHandleSchedule_BadTodayRejected(t *testing.T) {
	handler := newTestHandler(t, testutil.NewFakeSource())

	code, body := doJSON(t, handler, http.MethodGet, "/api/schedule?today=yesterday")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "YYYY-MM-DD")
}

func TestHandleCacheStatsAndClear(t *testing.T) {
	fake := testutil.NewFakeSource()
	fake.Searches[`project = "PROJ"`] = [][]byte{testutil.IssuePayload("PROJ-1")}
	handler := newTestHandler(t, fake)

	// Populate the cache through a search.
	code, _ := doJSON(t, handler, http.MethodGet, "/api/search?project=PROJ")
	require.Equal(t, http.StatusOK, code)

	code, stats := doJSON(t, handler, http.MethodGet, "/api/cache/stats")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), stats["totalEntries"], "one search entry and one seeded issue entry")

	code, cleared := doJSON(t, handler, http.MethodPost, "/api/cache/clear")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), cleared["removed"])

	code, stats = doJSON(t, handler, http.MethodGet, "/api/cache/stats")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), stats["totalEntries"])
}

func TestHandleCacheClear_ExpiredOnly(t *testing.T) {
	handler := newTestHandler(t, testutil.NewFakeSource())

	code, body := doJSON(t, handler, http.MethodPost, "/api/cache/clear?expired=true")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["removed"])
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, testutil.NewFakeSource())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache/clear", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
