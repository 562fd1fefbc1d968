package jira

import (
	"encoding/json"
	"fmt"
)

// RawIssue is the semi-structured issue payload as returned by the REST API
// and as stored in the cache. Both origins decode identically, which is
// what lets the rest of the system treat cached and live data uniformly.
type RawIssue struct {
	ID     string    `json:"id"`
	Key    string    `json:"key"`
	Fields RawFields `json:"fields"`
}

// RawFields holds the handful of typed fields the core reads, plus an
// overflow map for everything else. Custom fields (start date, end date,
// story points) live in the overflow and are resolved by configured name.
type RawFields struct {
	Summary  string        `json:"summary"`
	Status   *RawNamed     `json:"status"`
	Links    []RawLink     `json:"issuelinks"`
	Subtasks []RawIssueRef `json:"subtasks"`

	extra map[string]json.RawMessage
}

// RawNamed is any nested object of which only the name matters.
type RawNamed struct {
	Name string `json:"name"`
}

// RawLinkType carries the relation spelling in all three directions Jira
// reports it ("Blocks" / "blocks" / "is blocked by").
type RawLinkType struct {
	Name    string `json:"name"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// RawLink is one typed link attached to an issue. Exactly one of
// OutwardIssue and InwardIssue is set on well-formed payloads; the
// normalizer tolerates either or both being absent.
type RawLink struct {
	Type         *RawLinkType `json:"type"`
	OutwardIssue *RawIssueRef `json:"outwardIssue"`
	InwardIssue  *RawIssueRef `json:"inwardIssue"`
}

// RawIssueRef is a shallow reference to another issue.
type RawIssueRef struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (f *RawFields) UnmarshalJSON(data []byte) error {
	type plain RawFields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "summary")
	delete(all, "status")
	delete(all, "issuelinks")
	delete(all, "subtasks")
	*f = RawFields(p)
	f.extra = all
	return nil
}

// Extra returns the raw JSON for a field not covered by the typed struct,
// such as a custom field. The second return is false when the field is
// absent or null.
func (f *RawFields) Extra(name string) (json.RawMessage, bool) {
	raw, ok := f.extra[name]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// DecodeIssue parses a raw payload. It errors only on malformed JSON;
// missing or partial fields are fine and degrade to zero values.
func DecodeIssue(payload []byte) (*RawIssue, error) {
	var raw RawIssue
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decoding issue payload: %w", err)
	}
	return &raw, nil
}
