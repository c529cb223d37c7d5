// Package driven defines the driven ports of the audit pipeline: the
// Bitbucket and Jira upstreams, the issue-type cache, and the report sink.
package driven

import (
	"context"
	"iter"

	"github.com/ericfisherdev/qareport/internal/domain/model"
)

// BitbucketClient defines the driven port for the source-control review API.
//
// The two listing methods return lazy sequences that follow the upstream's
// "next" cursor page by page; nothing beyond the current page is buffered,
// and breaking out of the range stops further fetches. A page failure yields
// a non-nil error as the sequence's final element.
type BitbucketClient interface {
	// CurrentUser resolves the authenticated reviewer's identity.
	// A rejected credential wraps ErrAuthentication.
	CurrentUser(ctx context.Context) (model.ReviewerIdentity, error)

	// MergedPullRequests lists merged, commented, non-self-authored pull
	// requests of one repository, in server page order. The reviewer is
	// used for the server-side authorship filter; participant approval is
	// the caller's concern.
	MergedPullRequests(ctx context.Context, repoSlug string, reviewer model.ReviewerIdentity) iter.Seq2[model.PullRequest, error]

	// ReviewerComments lists the reviewer's own comments on a pull
	// request, in the API's stable creation order.
	ReviewerComments(ctx context.Context, repoSlug string, prID int, reviewer model.ReviewerIdentity) iter.Seq2[model.ReviewComment, error]
}
