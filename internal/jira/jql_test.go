package jira

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildJQL(t *testing.T) {
	cases := []struct {
		name     string
		project  string
		text     string
		statuses []string
		want     string
	}{
		{
			name: "empty filters fall back to recency ordering",
			want: "ORDER BY updated DESC",
		},
		{
			name:    "project only",
			project: "PROJ",
			want:    `project = "PROJ"`,
		},
		{
			name: "text only",
			text: "payment flow",
			want: `text ~ "payment flow"`,
		},
		{
			name: "text with embedded quotes is escaped",
			text: `say "hello"`,
			want: `text ~ "say \"hello\""`,
		},
		{
			name:     "statuses",
			statuses: []string{"To Do", "In Progress"},
			want:     `status in ("To Do", "In Progress")`,
		},
		{
			name:     "blank statuses dropped",
			statuses: []string{" ", ""},
			want:     "ORDER BY updated DESC",
		},
		{
			name:     "all filters joined with AND",
			project:  "PROJ",
			text:     "widget",
			statuses: []string{"Done"},
			want:     `project = "PROJ" AND text ~ "widget" AND status in ("Done")`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildJQL(tc.project, tc.text, tc.statuses))
		})
	}
}
