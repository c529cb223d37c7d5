package model

import "time"

// ReviewComment is a single pull request comment. Only comments authored by
// the audited reviewer are ever fetched; they live just long enough to be
// matched against the QA pattern.
type ReviewComment struct {
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
