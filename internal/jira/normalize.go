package jira

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
)

// FieldMap names the tracker fields that carry dates and estimates. Start
// and end dates are usually custom fields, so the names are configurable;
// the defaults match a stock Jira Cloud instance.
type FieldMap struct {
	StartDate   string
	EndDate     string
	StoryPoints string
}

// DefaultFieldMap returns the conventional custom field names.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		StartDate:   "customfield_10015",
		EndDate:     "customfield_10016",
		StoryPoints: "customfield_10005",
	}
}

// Normalizer converts raw payloads into canonical domain issues. It is
// total over well-formed JSON: absent fields become nil or zero values and
// absent collections become empty slices, regardless of whether the payload
// came from a live fetch or the cache.
type Normalizer struct {
	ServerURL string
	Fields    FieldMap
}

// NewNormalizer builds a Normalizer for the given tracker base URL.
func NewNormalizer(serverURL string, fields FieldMap) *Normalizer {
	return &Normalizer{ServerURL: strings.TrimRight(serverURL, "/"), Fields: fields}
}

// Normalize produces the canonical Issue for a raw payload. The issue key
// doubles as the graph node ID, matching how edges reference nodes.
func (n *Normalizer) Normalize(raw *RawIssue) domain.Issue {
	issue := domain.Issue{
		ID:      raw.Key,
		Key:     raw.Key,
		Summary: raw.Fields.Summary,
		Status:  "-",
	}
	if raw.Fields.Status != nil && raw.Fields.Status.Name != "" {
		issue.Status = raw.Fields.Status.Name
	}
	if n.ServerURL != "" {
		issue.URL = n.ServerURL + "/browse/" + raw.Key
	}
	issue.StoryPoints = n.numberField(&raw.Fields, n.Fields.StoryPoints)
	issue.StartOverride = n.dateField(&raw.Fields, n.Fields.StartDate)
	issue.EndOverride = n.dateField(&raw.Fields, n.Fields.EndDate)
	return issue
}

// BlockRef is one resolved blocking relation attached to an issue: Source
// blocks Target, and Other is the far end from the issue the relation was
// read from.
type BlockRef struct {
	Source string
	Target string
	Other  string
	Label  string
}

// BlockingRefs extracts the directed blocking relations from a raw issue.
// Jira reports the relation as name="Blocks", outward="blocks",
// inward="is blocked by"; matching is case-insensitive on all three.
// When childAsBlocking is set, subtasks are treated as blocking their
// parent.
func (n *Normalizer) BlockingRefs(raw *RawIssue, childAsBlocking bool) []BlockRef {
	refs := []BlockRef{}
	for _, link := range raw.Fields.Links {
		if link.Type == nil {
			continue
		}
		name := strings.ToLower(link.Type.Name)
		outward := strings.ToLower(link.Type.Outward)
		inward := strings.ToLower(link.Type.Inward)

		// outwardIssue present: this issue blocks the other one.
		if link.OutwardIssue != nil && link.OutwardIssue.Key != "" {
			if name == "blocks" || outward == "blocks" {
				refs = append(refs, BlockRef{
					Source: raw.Key,
					Target: link.OutwardIssue.Key,
					Other:  link.OutwardIssue.Key,
					Label:  domain.LabelBlocks,
				})
			}
		}

		// inwardIssue present: the other issue blocks this one.
		if link.InwardIssue != nil && link.InwardIssue.Key != "" {
			if name == "blocks" || inward == "is blocked by" {
				refs = append(refs, BlockRef{
					Source: link.InwardIssue.Key,
					Target: raw.Key,
					Other:  link.InwardIssue.Key,
					Label:  domain.LabelBlocks,
				})
			}
		}
	}

	if childAsBlocking {
		for _, sub := range raw.Fields.Subtasks {
			if sub.Key == "" {
				continue
			}
			refs = append(refs, BlockRef{
				Source: sub.Key,
				Target: raw.Key,
				Other:  sub.Key,
				Label:  domain.LabelSubtask,
			})
		}
	}
	return refs
}

func (n *Normalizer) numberField(f *RawFields, name string) *float64 {
	raw, ok := f.Extra(name)
	if !ok {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
		return nil
	}
	return &v
}

// dateField parses a date-bearing custom field. Jira serializes these
// either as "2006-01-02" or as a full timestamp.
func (n *Normalizer) dateField(f *RawFields, name string) *time.Time {
	raw, ok := f.Extra(name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000-0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
