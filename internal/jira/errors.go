package jira

import "errors"

var (
	// ErrNotFound indicates the tracker has no issue with the given key.
	// During graph builds this drops the referencing edge; it is never
	// fatal to the build.
	ErrNotFound = errors.New("jira: issue not found")

	// ErrTransient indicates a network, auth or rate-limit failure. The
	// client retries a bounded number of times; past that the error is
	// surfaced as a partial-build warning, not retried further.
	ErrTransient = errors.New("jira: transient error")
)

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrTransient):
		return "TRANSIENT"
	default:
		return "UNKNOWN"
	}
}
