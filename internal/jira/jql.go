package jira

import (
	"fmt"
	"strings"
)

// BuildJQL composes a JQL query from simple filter inputs. An empty filter
// set falls back to a recency ordering so a bare search still returns
// something useful.
func BuildJQL(project, text string, statuses []string) string {
	var parts []string
	if project != "" {
		parts = append(parts, fmt.Sprintf("project = %q", project))
	}
	if text != "" {
		q := strings.ReplaceAll(text, `"`, `\"`)
		parts = append(parts, fmt.Sprintf("text ~ \"%s\"", q))
	}
	if len(statuses) > 0 {
		var quoted []string
		for _, s := range statuses {
			s = strings.TrimSpace(s)
			if s != "" {
				quoted = append(quoted, fmt.Sprintf("%q", s))
			}
		}
		if len(quoted) > 0 {
			parts = append(parts, fmt.Sprintf("status in (%s)", strings.Join(quoted, ", ")))
		}
	}
	if len(parts) == 0 {
		return "ORDER BY updated DESC"
	}
	return strings.Join(parts, " AND ")
}
