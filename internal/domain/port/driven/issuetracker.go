package driven

import (
	"context"

	"github.com/ericfisherdev/qareport/internal/domain/model"
)

// IssueTracker defines the driven port for the issue tracker upstream.
type IssueTracker interface {
	// FetchIssue looks up a single issue by key. An unknown or deleted
	// key wraps ErrIssueNotFound.
	FetchIssue(ctx context.Context, key string) (model.Issue, error)
}
