package formatter

import (
	"fmt"
	"strings"

	"github.com/andrewchch/jira-dependency-viewer/internal/service"
)

// FormatTimeline renders a schedule computation for the terminal. When the
// graph contains a cycle, the affected issues are listed and the rest of
// the timeline still prints.
func FormatTimeline(result *service.TimelineResult, color bool) string {
	var b strings.Builder

	if len(result.CycleIDs) > 0 {
		warning := fmt.Sprintf("Dependency cycle, no dates computed for: %s", strings.Join(result.CycleIDs, ", "))
		if color {
			warning = StyleRed.Render(warning)
		}
		b.WriteString(warning + "\n\n")
	}

	b.WriteString(Header(fmt.Sprintf("Timeline: %d tasks", len(result.Tasks)), color))
	b.WriteString("\n")

	rows := make([][]string, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		rows = append(rows, []string{
			task.IssueID,
			task.Start.Format("2006-01-02"),
			task.End.Format("2006-01-02"),
			fmt.Sprintf("%dd", task.DurationDays),
			fmt.Sprintf("%3.0f%%", task.Progress*100),
		})
	}
	b.WriteString(RenderTable([]string{"ISSUE", "START", "END", "DURATION", "PROGRESS"}, rows, color))

	b.WriteString(FormatFailures(result.Failures, color))
	return b.String()
}
