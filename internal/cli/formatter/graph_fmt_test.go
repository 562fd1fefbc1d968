package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

func pts(v float64) *float64 { return &v }

func TestFormatGraph(t *testing.T) {
	result := &service.GraphResult{
		Snapshot: &domain.GraphSnapshot{
			Nodes: []domain.Issue{
				{ID: "PROJ-1", Key: "PROJ-1", Summary: "Build the widget", Status: "In Progress", StoryPoints: pts(3), Origin: domain.OriginSeed},
				{ID: "PROJ-2", Key: "PROJ-2", Summary: "Ship the widget", Status: "To Do", Origin: domain.OriginDiscovered},
			},
			Edges: []domain.DependencyEdge{
				{Source: "PROJ-1", Target: "PROJ-2", Label: domain.LabelBlocks},
			},
		},
	}

	out := FormatGraph(result, false)

	assert.Contains(t, out, "GRAPH: 2 ISSUES, 1 DEPENDENCIES")
	assert.Contains(t, out, "PROJ-1")
	assert.Contains(t, out, "Build the widget")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "PROJ-1 blocks PROJ-2")
	assert.Contains(t, out, "seed")
	assert.Contains(t, out, "discovered")
	assert.NotContains(t, out, "WARNINGS")
}

func TestFormatGraph_MissingPointsRenderDash(t *testing.T) {
	result := &service.GraphResult{
		Snapshot: &domain.GraphSnapshot{
			Nodes: []domain.Issue{{ID: "PROJ-1", Key: "PROJ-1", Summary: "x", Status: "To Do"}},
		},
	}

	out := FormatGraph(result, false)

	assert.Contains(t, out, "-")
}

func TestFormatGraph_LongSummaryTruncated(t *testing.T) {
	long := strings.Repeat("x", 80)
	result := &service.GraphResult{
		Snapshot: &domain.GraphSnapshot{
			Nodes: []domain.Issue{{ID: "PROJ-1", Key: "PROJ-1", Summary: long, Status: "To Do"}},
		},
	}

	out := FormatGraph(result, false)

	assert.NotContains(t, out, long)
	assert.Contains(t, out, "…")
}

func TestFormatFailures(t *testing.T) {
	out := FormatFailures([]domain.FetchFailure{
		{ID: "PROJ-9", Reason: "issue not found"},
		{ID: "PROJ-10", Reason: "status 503", Transient: true},
	}, false)

	assert.Contains(t, out, "WARNINGS (2)")
	assert.Contains(t, out, "PROJ-9: issue not found")
	assert.Contains(t, out, "PROJ-10: status 503")

	assert.Empty(t, FormatFailures(nil, false))
}

func TestFormatTimeline(t *testing.T) {
	result := &service.TimelineResult{
		Tasks: []domain.ScheduledTask{
			{IssueID: "PROJ-1", DurationDays: 3, Progress: 0.5},
		},
	}

	out := FormatTimeline(result, false)

	assert.Contains(t, out, "TIMELINE: 1 TASKS")
	assert.Contains(t, out, "PROJ-1")
	assert.Contains(t, out, "3d")
	assert.Contains(t, out, "50%")
}

func TestFormatTimeline_CycleWarning(t *testing.T) {
	result := &service.TimelineResult{
		CycleIDs: []string{"PROJ-A", "PROJ-B"},
	}

	out := FormatTimeline(result, false)

	assert.Contains(t, out, "Dependency cycle")
	assert.Contains(t, out, "PROJ-A, PROJ-B")
}
