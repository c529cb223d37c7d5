package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ericfisherdev/qareport/internal/domain/model"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// IssueTypeResolver resolves issue keys to their reporting type, following
// the sub-task to parent fallback, and memoizes final results in an
// injectable cache. Concurrent resolutions of the same key coalesce into a
// single tracker call.
type IssueTypeResolver struct {
	tracker driven.IssueTracker
	cache   driven.IssueTypeCache
	group   singleflight.Group
}

// NewIssueTypeResolver creates a resolver backed by the given tracker and cache.
func NewIssueTypeResolver(tracker driven.IssueTracker, cache driven.IssueTypeCache) *IssueTypeResolver {
	return &IssueTypeResolver{tracker: tracker, cache: cache}
}

// Resolve returns the reporting type for the key. A sub-task resolves to
// its parent's type; sub-tasks are never nested, so the fallback is a
// single hop. Resolving the same key twice in one run performs exactly one
// tracker fetch.
func (r *IssueTypeResolver) Resolve(ctx context.Context, key string) (string, error) {
	if issueType, ok, err := r.cache.Get(ctx, key); err != nil {
		return "", fmt.Errorf("cache get %s: %w", key, err)
	} else if ok {
		return issueType, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolve(ctx, key)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// resolve performs the fetch, fallback and cache fill for one key.
func (r *IssueTypeResolver) resolve(ctx context.Context, key string) (string, error) {
	issue, err := r.tracker.FetchIssue(ctx, key)
	if err != nil {
		return "", err
	}

	issueType := issue.Type
	if issue.Subtask {
		issueType, err = r.parentType(ctx, issue)
		if err != nil {
			return "", err
		}
	}

	// The final resolved type is cached under the original key, so a
	// sub-task's entry already points at its parent's type.
	if err := r.cache.Put(ctx, key, issueType); err != nil {
		return "", fmt.Errorf("cache put %s: %w", key, err)
	}
	return issueType, nil
}

// parentType returns the type to report for a sub-task. The tracker usually
// embeds the parent's type; only when it does not is the parent fetched,
// and in that case its type is cached under the parent key too so sibling
// sub-tasks reuse it.
func (r *IssueTypeResolver) parentType(ctx context.Context, issue model.Issue) (string, error) {
	if issue.ParentType != "" {
		return issue.ParentType, nil
	}
	if issue.ParentKey == "" {
		// A sub-task with no parent reference at all; its own type is
		// the best available answer.
		return issue.Type, nil
	}

	if issueType, ok, err := r.cache.Get(ctx, issue.ParentKey); err != nil {
		return "", fmt.Errorf("cache get %s: %w", issue.ParentKey, err)
	} else if ok {
		return issueType, nil
	}

	parent, err := r.tracker.FetchIssue(ctx, issue.ParentKey)
	if err != nil {
		return "", err
	}
	if err := r.cache.Put(ctx, issue.ParentKey, parent.Type); err != nil {
		return "", fmt.Errorf("cache put %s: %w", issue.ParentKey, err)
	}
	return parent.Type, nil
}
