// Package schedule derives a feasible project timeline from a graph
// snapshot via dependency-ordered forward propagation.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
)

// CycleError reports a dependency cycle. IDs holds the member node set,
// sorted, so callers can present a diagnostic instead of a wrong timeline.
type CycleError struct {
	IDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving %s", strings.Join(e.IDs, ", "))
}

// Plan is the computed timeline for one snapshot. When Cycle is non-nil
// the affected nodes carry no tasks and callers should fall back to
// displaying the graph without a timeline.
type Plan struct {
	Tasks []domain.ScheduledTask `json:"tasks"`
	Links []domain.TimelineLink  `json:"links"`
	Cycle *CycleError            `json:"-"`
}

// node visit states for cycle-guarded date derivation.
const (
	stateUnvisited = iota
	stateInProgress
	stateDone
)

// Engine computes start/end dates from story-point estimates and
// dependency ordering. It is purely computational and operates over an
// immutable snapshot; one call, one goroutine, no suspension.
type Engine struct {
	Durations DurationTable
	Progress  ProgressTable
}

// NewEngine returns an Engine with the default duration and progress
// tables.
func NewEngine() *Engine {
	return &Engine{Durations: DefaultDurations(), Progress: DefaultProgress()}
}

// Schedule assigns every node a start and end date. A node with no
// predecessors starts at today; otherwise it starts at the latest end date
// among its direct predecessors (edge source blocks edge target). Explicit
// start/end overrides on an issue are authoritative.
//
// Derivation is depth-first with an explicit in-progress marker separate
// from the done memo: revisiting an in-progress node is a cycle, detected
// immediately rather than recursing forever or reusing a half-computed
// date. Members of cyclic components get no tasks; the rest of the graph
// still schedules.
func (e *Engine) Schedule(snapshot *domain.GraphSnapshot, today time.Time) *Plan {
	today = today.Truncate(24 * time.Hour)

	issues := make(map[string]*domain.Issue, len(snapshot.Nodes))
	for i := range snapshot.Nodes {
		issues[snapshot.Nodes[i].ID] = &snapshot.Nodes[i]
	}

	preds := make(map[string][]string)
	for _, edge := range snapshot.Edges {
		preds[edge.Target] = append(preds[edge.Target], edge.Source)
	}

	state := make(map[string]int, len(issues))
	starts := make(map[string]time.Time, len(issues))
	ends := make(map[string]time.Time, len(issues))
	tainted := make(map[string]bool)
	cycleIDs := make(map[string]bool)
	var stack []string

	// visit computes the end date for id, returning false when id is part
	// of, or downstream of, a cycle.
	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case stateDone:
			return !tainted[id]
		case stateInProgress:
			// Revisited while being computed: every node from the first
			// occurrence on the stack back to here is a cycle member.
			for i := len(stack) - 1; i >= 0; i-- {
				cycleIDs[stack[i]] = true
				if stack[i] == id {
					break
				}
			}
			return false
		}

		state[id] = stateInProgress
		stack = append(stack, id)

		start := today
		ok := true
		for _, p := range preds[id] {
			if _, known := issues[p]; !known {
				continue
			}
			if !visit(p) {
				ok = false
				continue
			}
			if end := ends[p]; end.After(start) {
				start = end
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = stateDone

		if !ok {
			tainted[id] = true
			return false
		}

		issue := issues[id]
		days := e.Durations.Days(issue.StoryPoints)
		if issue.StartOverride != nil {
			start = *issue.StartOverride
		}
		end := start.AddDate(0, 0, days)
		if issue.EndOverride != nil {
			end = *issue.EndOverride
		}
		starts[id] = start
		ends[id] = end
		return true
	}

	for id := range issues {
		if state[id] == stateUnvisited {
			visit(id)
		}
	}

	plan := &Plan{Tasks: []domain.ScheduledTask{}, Links: []domain.TimelineLink{}}
	for id, issue := range issues {
		if tainted[id] || cycleIDs[id] {
			continue
		}
		plan.Tasks = append(plan.Tasks, domain.ScheduledTask{
			IssueID:      id,
			Start:        starts[id],
			End:          ends[id],
			DurationDays: int(ends[id].Sub(starts[id]).Hours() / 24),
			Progress:     e.Progress.Fraction(issue.Status),
		})
	}
	sort.Slice(plan.Tasks, func(i, j int) bool {
		a, b := plan.Tasks[i], plan.Tasks[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.IssueID < b.IssueID
	})

	for _, edge := range snapshot.Edges {
		plan.Links = append(plan.Links, domain.TimelineLink{Source: edge.Source, Target: edge.Target})
	}

	if len(cycleIDs) > 0 {
		ids := make([]string, 0, len(cycleIDs))
		for id := range cycleIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		plan.Cycle = &CycleError{IDs: ids}
	}
	return plan
}
