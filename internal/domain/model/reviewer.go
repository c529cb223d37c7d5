package model

// ReviewerIdentity is the authenticated reviewer whose QA approvals are being
// audited. Resolved once at startup and never mutated afterwards.
type ReviewerIdentity struct {
	// ID is the account's stable opaque identifier (a Bitbucket UUID,
	// braces included, e.g. "{1234-...}").
	ID string
}
