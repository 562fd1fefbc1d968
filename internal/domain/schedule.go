package domain

import "time"

// ScheduledTask is the derived timeline entry for one issue. Tasks are
// computed on demand from a graph snapshot plus a reference date and are
// never mutated afterwards.
type ScheduledTask struct {
	IssueID      string    `json:"issueId"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"durationDays"`
	// Progress is the completion fraction in [0,1] derived from issue status.
	Progress float64 `json:"progress"`
}

// TimelineLink mirrors a dependency edge in the shape timeline-rendering
// clients consume.
type TimelineLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
