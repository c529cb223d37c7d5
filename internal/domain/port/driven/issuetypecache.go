package driven

import "context"

// IssueTypeCache defines the driven port for memoizing resolved issue types
// keyed by issue key. Lookups are idempotent within a run; entries are never
// invalidated. Implementations must be safe for concurrent use.
type IssueTypeCache interface {
	// Get returns the cached type for the key and whether it was present.
	Get(ctx context.Context, issueKey string) (string, bool, error)
	// Put records the final resolved type for the key.
	Put(ctx context.Context, issueKey, issueType string) error
}
