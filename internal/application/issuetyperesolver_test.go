package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/qareport/internal/adapter/driven/memcache"
	"github.com/ericfisherdev/qareport/internal/application"
	"github.com/ericfisherdev/qareport/internal/domain/model"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

func TestResolve_PlainIssue(t *testing.T) {
	tracker := newFakeTracker(model.Issue{Key: "ABC-1", Type: "Bug"})
	resolver := application.NewIssueTypeResolver(tracker, memcache.NewIssueTypeCache())

	issueType, err := resolver.Resolve(context.Background(), "ABC-1")

	require.NoError(t, err)
	assert.Equal(t, "Bug", issueType)
}

func TestResolve_SecondLookupHitsCache(t *testing.T) {
	tracker := newFakeTracker(model.Issue{Key: "ABC-1", Type: "Task"})
	resolver := application.NewIssueTypeResolver(tracker, memcache.NewIssueTypeCache())

	first, err := resolver.Resolve(context.Background(), "ABC-1")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "ABC-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, tracker.calls["ABC-1"], "exactly one fetch for repeated resolutions")
}

func TestResolve_SubtaskFallsBackToEmbeddedParentType(t *testing.T) {
	tracker := newFakeTracker(model.Issue{
		Key:        "ABC-2",
		Type:       "Sub-task",
		Subtask:    true,
		ParentKey:  "ABC-1",
		ParentType: "Story",
	})
	cache := memcache.NewIssueTypeCache()
	resolver := application.NewIssueTypeResolver(tracker, cache)

	issueType, err := resolver.Resolve(context.Background(), "ABC-2")

	require.NoError(t, err)
	assert.Equal(t, "Story", issueType)
	assert.Zero(t, tracker.calls["ABC-1"], "embedded parent type needs no extra fetch")

	cached, ok, err := cache.Get(context.Background(), "ABC-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Story", cached, "the final type is cached under the sub-task key")
}

func TestResolve_SubtaskFetchesParentWhenNotEmbedded(t *testing.T) {
	tracker := newFakeTracker(
		model.Issue{Key: "ABC-2", Type: "Sub-task", Subtask: true, ParentKey: "ABC-1"},
		model.Issue{Key: "ABC-3", Type: "Sub-task", Subtask: true, ParentKey: "ABC-1"},
		model.Issue{Key: "ABC-1", Type: "Story"},
	)
	cache := memcache.NewIssueTypeCache()
	resolver := application.NewIssueTypeResolver(tracker, cache)

	issueType, err := resolver.Resolve(context.Background(), "ABC-2")
	require.NoError(t, err)
	assert.Equal(t, "Story", issueType)
	assert.Equal(t, 1, tracker.calls["ABC-1"])

	// A sibling sub-task reuses the parent's cached type.
	siblingType, err := resolver.Resolve(context.Background(), "ABC-3")
	require.NoError(t, err)
	assert.Equal(t, "Story", siblingType)
	assert.Equal(t, 1, tracker.calls["ABC-1"], "parent fetched once for all siblings")
}

func TestResolve_SubtaskWithoutParentDataKeepsOwnType(t *testing.T) {
	tracker := newFakeTracker(model.Issue{Key: "ABC-4", Type: "Sub-task", Subtask: true})
	resolver := application.NewIssueTypeResolver(tracker, memcache.NewIssueTypeCache())

	issueType, err := resolver.Resolve(context.Background(), "ABC-4")

	require.NoError(t, err)
	assert.Equal(t, "Sub-task", issueType)
}

func TestResolve_UnknownKeyReturnsNotFound(t *testing.T) {
	resolver := application.NewIssueTypeResolver(newFakeTracker(), memcache.NewIssueTypeCache())

	_, err := resolver.Resolve(context.Background(), "NOPE-1")

	require.ErrorIs(t, err, driven.ErrIssueNotFound)
}

func TestResolve_SeededCacheSkipsTracker(t *testing.T) {
	tracker := newFakeTracker()
	cache := memcache.NewIssueTypeCache()
	require.NoError(t, cache.Put(context.Background(), "ABC-9", "Epic"))

	resolver := application.NewIssueTypeResolver(tracker, cache)
	issueType, err := resolver.Resolve(context.Background(), "ABC-9")

	require.NoError(t, err)
	assert.Equal(t, "Epic", issueType)
	assert.Empty(t, tracker.calls)
}
