package model

import "time"

// QAFinding is a candidate PR confirmed, via comment text, to carry a
// QA-style approval from the reviewer. Produced at most once per PR; QADate
// comes from the first matching comment in API order.
type QAFinding struct {
	RepoSlug string
	PRID     int
	Title    string
	URL      string
	QADate   time.Time
}
