package schedule

import "strings"

// ProgressTable maps issue statuses to completion fractions. Which status
// spellings count as done or in progress varies per tracker instance, so
// the sets are configuration, not constants.
type ProgressTable struct {
	Done       []string
	InProgress []string
}

// DefaultProgress covers the stock Jira status names.
func DefaultProgress() ProgressTable {
	return ProgressTable{
		Done:       []string{"done", "closed", "resolved"},
		InProgress: []string{"in progress"},
	}
}

// Fraction returns the completion fraction for a status: 1.0 for done
// statuses, 0.5 for in-progress ones, 0.0 otherwise. Matching is
// case-insensitive.
func (p ProgressTable) Fraction(status string) float64 {
	s := strings.ToLower(strings.TrimSpace(status))
	for _, d := range p.Done {
		if s == strings.ToLower(d) {
			return 1.0
		}
	}
	for _, ip := range p.InProgress {
		if s == strings.ToLower(ip) {
			return 0.5
		}
	}
	return 0.0
}
