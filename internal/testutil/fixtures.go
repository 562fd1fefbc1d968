package testutil

import (
	"encoding/json"
	"fmt"
)

// rawPayload mirrors the tracker's issue JSON shape for building fixtures.
type rawPayload struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// IssueOption mutates an issue payload under construction.
type IssueOption func(*rawPayload)

func WithSummary(s string) IssueOption {
	return func(p *rawPayload) {
		p.Fields["summary"] = s
	}
}

func WithStatus(name string) IssueOption {
	return func(p *rawPayload) {
		p.Fields["status"] = map[string]any{"name": name}
	}
}

// WithField sets an arbitrary field, typically a custom field like story
// points or a start date.
func WithField(name string, value any) IssueOption {
	return func(p *rawPayload) {
		p.Fields[name] = value
	}
}

// WithBlocks adds an outward "blocks" link from this issue to other.
func WithBlocks(other string) IssueOption {
	return func(p *rawPayload) {
		p.Fields["issuelinks"] = append(links(p), map[string]any{
			"type":         map[string]any{"name": "Blocks", "inward": "is blocked by", "outward": "blocks"},
			"outwardIssue": map[string]any{"key": other},
		})
	}
}

// WithBlockedBy adds an inward link recording that other blocks this issue.
func WithBlockedBy(other string) IssueOption {
	return func(p *rawPayload) {
		p.Fields["issuelinks"] = append(links(p), map[string]any{
			"type":        map[string]any{"name": "Blocks", "inward": "is blocked by", "outward": "blocks"},
			"inwardIssue": map[string]any{"key": other},
		})
	}
}

// WithSubtask adds a subtask reference to child.
func WithSubtask(child string) IssueOption {
	return func(p *rawPayload) {
		existing, _ := p.Fields["subtasks"].([]any)
		p.Fields["subtasks"] = append(existing, map[string]any{"key": child})
	}
}

func links(p *rawPayload) []any {
	existing, _ := p.Fields["issuelinks"].([]any)
	return existing
}

// IssuePayload builds a raw issue JSON document for the given key.
func IssuePayload(key string, opts ...IssueOption) []byte {
	p := &rawPayload{
		ID:  key,
		Key: key,
		Fields: map[string]any{
			"summary": fmt.Sprintf("Summary for %s", key),
			"status":  map[string]any{"name": "To Do"},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	data, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	return data
}
