// Package model contains the pure domain types of the QA review audit.
package model

// PRStateMerged is the Bitbucket state string for a merged pull request.
const PRStateMerged = "MERGED"

// Participant is an account recorded against a pull request with its
// approval flag.
type Participant struct {
	UserID   string
	Approved bool
}

// PullRequest is a pull request as discovered from a repository listing.
// Values are never mutated after the adapter produces them.
type PullRequest struct {
	ID           int
	RepoSlug     string
	Title        string
	SourceBranch string
	URL          string
	AuthorID     string
	State        string
	CommentCount int
	Participants []Participant
}

// ApprovedBy reports whether the given account appears among the PR's
// participants with approved set.
func (pr PullRequest) ApprovedBy(userID string) bool {
	for _, p := range pr.Participants {
		if p.UserID == userID && p.Approved {
			return true
		}
	}
	return false
}

// IsCandidate reports whether the PR is eligible for comment analysis:
// merged, commented on, not authored by the reviewer, and approved by the
// reviewer. The listing endpoint pushes the first three predicates
// server-side, but they are re-checked here so correctness does not depend
// on the server honoring the query.
func (pr PullRequest) IsCandidate(reviewer ReviewerIdentity) bool {
	return pr.State == PRStateMerged &&
		pr.CommentCount > 0 &&
		pr.AuthorID != reviewer.ID &&
		pr.ApprovedBy(reviewer.ID)
}
