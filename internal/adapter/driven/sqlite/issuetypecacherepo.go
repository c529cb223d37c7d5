package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueTypeCache = (*IssueTypeCacheRepo)(nil)

// IssueTypeCacheRepo is the SQLite implementation of the IssueTypeCache
// port. Entries persist across runs; issue types are assumed stable.
type IssueTypeCacheRepo struct {
	db *sql.DB
}

// NewIssueTypeCacheRepo creates an IssueTypeCacheRepo backed by the given DB.
func NewIssueTypeCacheRepo(db *sql.DB) *IssueTypeCacheRepo {
	return &IssueTypeCacheRepo{db: db}
}

// Get returns the cached type for the key and whether it was present.
func (r *IssueTypeCacheRepo) Get(ctx context.Context, issueKey string) (string, bool, error) {
	const query = `SELECT issue_type FROM issue_type_cache WHERE issue_key = ?`

	var issueType string
	err := r.db.QueryRowContext(ctx, query, issueKey).Scan(&issueType)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get issue type %s: %w", issueKey, err)
	}
	return issueType, true, nil
}

// Put records the resolved type for the key, replacing any previous entry.
func (r *IssueTypeCacheRepo) Put(ctx context.Context, issueKey, issueType string) error {
	const query = `
		INSERT INTO issue_type_cache (issue_key, issue_type)
		VALUES (?, ?)
		ON CONFLICT(issue_key) DO UPDATE SET
			issue_type = excluded.issue_type,
			resolved_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, issueKey, issueType); err != nil {
		return fmt.Errorf("put issue type %s: %w", issueKey, err)
	}
	return nil
}
