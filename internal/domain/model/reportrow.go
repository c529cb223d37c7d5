package model

import "time"

// ReportRow is one record of the final report. Repository, PRID, Title, URL
// and QADate are always populated; IssueKey and IssueType are empty when
// extraction or resolution did not produce a value.
type ReportRow struct {
	Repository string
	PRID       int
	IssueKey   string
	IssueType  string
	Title      string
	URL        string
	QADate     time.Time
}
