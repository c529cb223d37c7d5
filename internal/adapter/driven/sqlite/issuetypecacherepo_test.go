package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTypeCacheRepo_GetMiss(t *testing.T) {
	repo := NewIssueTypeCacheRepo(setupTestDB(t))

	issueType, ok, err := repo.Get(context.Background(), "ABC-1")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, issueType)
}

func TestIssueTypeCacheRepo_PutThenGet(t *testing.T) {
	repo := NewIssueTypeCacheRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "ABC-1", "Story"))

	issueType, ok, err := repo.Get(ctx, "ABC-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Story", issueType)
}

func TestIssueTypeCacheRepo_PutReplacesExisting(t *testing.T) {
	repo := NewIssueTypeCacheRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "ABC-1", "Sub-task"))
	require.NoError(t, repo.Put(ctx, "ABC-1", "Story"))

	issueType, ok, err := repo.Get(ctx, "ABC-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Story", issueType)
}

func TestIssueTypeCacheRepo_KeysAreIndependent(t *testing.T) {
	repo := NewIssueTypeCacheRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "ABC-1", "Story"))
	require.NoError(t, repo.Put(ctx, "XYZ-9", "Bug"))

	issueType, ok, err := repo.Get(ctx, "XYZ-9")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bug", issueType)
}
