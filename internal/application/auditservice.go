// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/qareport/internal/domain/model"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// qaPattern matches a QA approval mention in a comment body. Deliberately
// plain substring semantics with no word-boundary anchors: "QA", "qa" and
// "DEV QA" all match, and so does "qa" inside a longer word, mirroring the
// report this tool replaces.
var qaPattern = regexp.MustCompile(`(?i)(DEV )?QA`)

// AuditService walks every configured repository for merged pull requests
// the reviewer QA-approved and aggregates the enriched report rows.
type AuditService struct {
	source      driven.BitbucketClient
	resolver    *IssueTypeResolver // nil disables issue-type enrichment.
	repoSlugs   []string
	concurrency int
}

// NewAuditService creates an AuditService. repoSlugs order determines output
// order. concurrency bounds how many repositories are audited in parallel;
// values below 1 mean sequential.
func NewAuditService(source driven.BitbucketClient, resolver *IssueTypeResolver, repoSlugs []string, concurrency int) *AuditService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AuditService{
		source:      source,
		resolver:    resolver,
		repoSlugs:   repoSlugs,
		concurrency: concurrency,
	}
}

// Run executes the audit. The reviewer identity is resolved exactly once up
// front; a rejected credential is fatal and nothing else is requested. Each
// repository is then audited independently: a repository-level failure is
// logged and skipped without affecting the others. Rows come back ordered
// by configured repository order, then PR discovery order.
func (s *AuditService) Run(ctx context.Context) ([]model.ReportRow, error) {
	reviewer, err := s.source.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving reviewer identity: %w", err)
	}
	slog.Info("reviewer resolved", "reviewer_id", reviewer.ID)

	perRepo := make([][]model.ReportRow, len(s.repoSlugs))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, repoSlug := range s.repoSlugs {
		g.Go(func() error {
			rows, err := s.auditRepo(ctx, repoSlug, reviewer)
			if err != nil {
				// Observable but never fatal to the batch.
				slog.Error("repository skipped", "repo", repoSlug, "error", err)
				return nil
			}
			perRepo[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := []model.ReportRow{}
	for _, rows := range perRepo {
		report = append(report, rows...)
	}
	return report, nil
}

// auditRepo yields the report rows of a single repository. Any upstream
// failure aborts this repository: no rows from it are returned.
func (s *AuditService) auditRepo(ctx context.Context, repoSlug string, reviewer model.ReviewerIdentity) ([]model.ReportRow, error) {
	start := time.Now()
	var rows []model.ReportRow
	var candidates int

	for pr, err := range s.source.MergedPullRequests(ctx, repoSlug, reviewer) {
		if err != nil {
			return nil, err
		}
		if !pr.IsCandidate(reviewer) {
			continue
		}
		candidates++

		finding, err := s.findQAApproval(ctx, pr, reviewer)
		if err != nil {
			return nil, err
		}
		if finding == nil {
			continue
		}

		slog.Debug("qa approval found", "repo", repoSlug, "pr", pr.ID, "title", pr.Title)
		rows = append(rows, s.buildRow(ctx, pr, *finding))
	}

	slog.Info("repository audited",
		"repo", repoSlug,
		"candidates", candidates,
		"findings", len(rows),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return rows, nil
}

// findQAApproval scans the reviewer's comments on a PR for the QA pattern.
// The first matching comment in API order supplies the QA date; once it is
// found no further comment pages are fetched. Returns nil when no comment
// matches.
func (s *AuditService) findQAApproval(ctx context.Context, pr model.PullRequest, reviewer model.ReviewerIdentity) (*model.QAFinding, error) {
	for comment, err := range s.source.ReviewerComments(ctx, pr.RepoSlug, pr.ID, reviewer) {
		if err != nil {
			return nil, err
		}
		// Authorship is filtered server-side; re-check in case the
		// server ignored the query.
		if comment.AuthorID != reviewer.ID {
			continue
		}
		if qaPattern.MatchString(comment.Body) {
			return &model.QAFinding{
				RepoSlug: pr.RepoSlug,
				PRID:     pr.ID,
				Title:    pr.Title,
				URL:      pr.URL,
				QADate:   comment.CreatedAt,
			}, nil
		}
	}
	return nil, nil
}

// buildRow enriches a finding with its issue key and type. Extraction and
// resolution failures degrade to empty issue fields; they never drop the
// row, which always carries the five mandatory fields.
func (s *AuditService) buildRow(ctx context.Context, pr model.PullRequest, finding model.QAFinding) model.ReportRow {
	row := model.ReportRow{
		Repository: finding.RepoSlug,
		PRID:       finding.PRID,
		Title:      finding.Title,
		URL:        finding.URL,
		QADate:     finding.QADate,
	}

	row.IssueKey = model.ExtractIssueKey(pr.Title, pr.SourceBranch)
	if row.IssueKey == "" || s.resolver == nil {
		return row
	}

	issueType, err := s.resolver.Resolve(ctx, row.IssueKey)
	if err != nil {
		slog.Warn("issue type unresolved",
			"repo", pr.RepoSlug,
			"pr", pr.ID,
			"issue_key", row.IssueKey,
			"error", err,
		)
		return row
	}
	row.IssueType = issueType
	return row
}
