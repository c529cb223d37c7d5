package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every QAREPORT_ env var that Load() reads.
var allConfigKeys = []string{
	"QAREPORT_BITBUCKET_EMAIL",
	"QAREPORT_BITBUCKET_TOKEN",
	"QAREPORT_BITBUCKET_WORKSPACE",
	"QAREPORT_REPOSITORIES",
	"QAREPORT_JIRA_BASE_URL",
	"QAREPORT_JIRA_EMAIL",
	"QAREPORT_JIRA_TOKEN",
	"QAREPORT_OUTPUT",
	"QAREPORT_DB_PATH",
	"QAREPORT_CONCURRENCY",
	"QAREPORT_HTTP_TIMEOUT",
}

// isolateConfigEnv saves and unsets all QAREPORT_ env vars so tests don't
// inherit values from the host environment.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func setRequired(t *testing.T) {
	t.Setenv("QAREPORT_BITBUCKET_EMAIL", "auditor@example.com")
	t.Setenv("QAREPORT_BITBUCKET_TOKEN", "bb-token")
	t.Setenv("QAREPORT_BITBUCKET_WORKSPACE", "acme")
	t.Setenv("QAREPORT_REPOSITORIES", "repo1, repo2 ,,repo3")
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("QAREPORT_OUTPUT", "/tmp/report.csv")
	t.Setenv("QAREPORT_DB_PATH", "/tmp/cache.db")
	t.Setenv("QAREPORT_CONCURRENCY", "4")
	t.Setenv("QAREPORT_HTTP_TIMEOUT", "10s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "auditor@example.com", cfg.BitbucketEmail)
	assert.Equal(t, "acme", cfg.BitbucketWorkspace)
	assert.Equal(t, []string{"repo1", "repo2", "repo3"}, cfg.Repositories)
	assert.Equal(t, "/tmp/report.csv", cfg.OutputPath)
	assert.Equal(t, "/tmp/cache.db", cfg.DBPath)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.HasJiraCredentials())
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "qa_reviews_report.csv", cfg.OutputPath)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("QAREPORT_BITBUCKET_EMAIL", "auditor@example.com")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "QAREPORT_BITBUCKET_TOKEN")
	assert.Contains(t, err.Error(), "QAREPORT_BITBUCKET_WORKSPACE")
	assert.Contains(t, err.Error(), "QAREPORT_REPOSITORIES")
}

func TestLoad_EmptyRepositoryListIsMissing(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("QAREPORT_REPOSITORIES", " , ,")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "QAREPORT_REPOSITORIES")
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)

	for _, bad := range []string{"zero", "0", "-2"} {
		t.Setenv("QAREPORT_CONCURRENCY", bad)
		_, err := Load()
		assert.Error(t, err, "concurrency %q", bad)
	}
}

func TestLoad_JiraCredentialsDetected(t *testing.T) {
	isolateConfigEnv(t)
	setRequired(t)
	t.Setenv("QAREPORT_JIRA_BASE_URL", "https://acme.atlassian.net")
	t.Setenv("QAREPORT_JIRA_EMAIL", "auditor@example.com")
	t.Setenv("QAREPORT_JIRA_TOKEN", "jira-token")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.HasJiraCredentials())
	assert.Equal(t, "https://acme.atlassian.net", cfg.JiraBaseURL)
}
