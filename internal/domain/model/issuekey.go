package model

import "regexp"

// issueKeyPattern matches issue tracker keys such as "ABC-123".
var issueKeyPattern = regexp.MustCompile(`[A-Z]+-[0-9]+`)

// ExtractIssueKey derives an issue key from a PR's title or, failing that,
// its source branch name. The leftmost match wins when several keys appear.
// Returns "" when neither contains a key; absence is not an error, it only
// means the row goes unenriched.
func ExtractIssueKey(title, sourceBranch string) string {
	if key := issueKeyPattern.FindString(title); key != "" {
		return key
	}
	return issueKeyPattern.FindString(sourceBranch)
}
