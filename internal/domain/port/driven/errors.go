package driven

import (
	"errors"
	"fmt"
)

// ErrAuthentication marks a rejected credential. Fatal: the run aborts
// before any repository is processed.
var ErrAuthentication = errors.New("authentication rejected")

// ErrIssueNotFound marks an unknown or deleted issue key. Non-fatal: the
// affected row proceeds with empty issue fields.
var ErrIssueNotFound = errors.New("issue not found")

// UpstreamError is a non-success response from an upstream API. It aborts
// processing of the current repository only; the run continues with the
// remaining repositories.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}
