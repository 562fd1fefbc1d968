package formatter

import (
	"fmt"
	"strings"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

// FormatGraph renders a graph build result for the terminal.
func FormatGraph(result *service.GraphResult, color bool) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Graph: %d issues, %d dependencies", len(result.Snapshot.Nodes), len(result.Snapshot.Edges)), color))
	b.WriteString("\n")

	rows := make([][]string, 0, len(result.Snapshot.Nodes))
	for _, node := range result.Snapshot.Nodes {
		points := "-"
		if node.StoryPoints != nil {
			points = strings.TrimSuffix(fmt.Sprintf("%.1f", *node.StoryPoints), ".0")
		}
		rows = append(rows, []string{
			node.Key,
			truncate(node.Summary, 60),
			node.Status,
			points,
			OriginIndicator(node, color),
		})
	}
	b.WriteString(RenderTable([]string{"KEY", "SUMMARY", "STATUS", "POINTS", "ORIGIN"}, rows, color))

	if len(result.Snapshot.Edges) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Dependencies", color))
		b.WriteString("\n")
		for _, edge := range result.Snapshot.Edges {
			b.WriteString(fmt.Sprintf("%s %s %s\n", edge.Source, edge.Label, edge.Target))
		}
	}

	b.WriteString(FormatFailures(result.Failures, color))
	return b.String()
}

// FormatFailures lists dropped references, or nothing when the build was
// clean.
func FormatFailures(failures []domain.FetchFailure, color bool) string {
	if len(failures) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(Header(fmt.Sprintf("Warnings (%d)", len(failures)), color))
	b.WriteString("\n")
	for _, f := range failures {
		line := fmt.Sprintf("%s: %s", f.ID, f.Reason)
		if color {
			line = StyleYellow.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
