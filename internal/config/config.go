// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment
// variables (optionally seeded from a .env file in the working directory).
type Config struct {
	BitbucketEmail     string
	BitbucketToken     string
	BitbucketWorkspace string
	Repositories       []string // Audit order follows this list.
	JiraBaseURL        string
	JiraEmail          string
	JiraToken          string
	OutputPath         string
	DBPath             string // Empty means the in-memory issue-type cache.
	Concurrency        int
	HTTPTimeout        time.Duration
}

// HasJiraCredentials returns true when all three Jira settings are present.
// Without them the audit still runs; rows just carry empty issue types.
func (c *Config) HasJiraCredentials() bool {
	return c.JiraBaseURL != "" && c.JiraEmail != "" && c.JiraToken != ""
}

// Load reads configuration from a .env file (if present) and the
// environment, and returns a validated Config. Required:
// QAREPORT_BITBUCKET_EMAIL, QAREPORT_BITBUCKET_TOKEN,
// QAREPORT_BITBUCKET_WORKSPACE, QAREPORT_REPOSITORIES (comma-separated).
// Optional with defaults: QAREPORT_OUTPUT (qa_reviews_report.csv),
// QAREPORT_DB_PATH (empty), QAREPORT_CONCURRENCY (1),
// QAREPORT_HTTP_TIMEOUT (30s), and the QAREPORT_JIRA_* trio.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone may be complete.
	_ = godotenv.Load()

	cfg := &Config{
		BitbucketEmail:     os.Getenv("QAREPORT_BITBUCKET_EMAIL"),
		BitbucketToken:     os.Getenv("QAREPORT_BITBUCKET_TOKEN"),
		BitbucketWorkspace: os.Getenv("QAREPORT_BITBUCKET_WORKSPACE"),
		JiraBaseURL:        os.Getenv("QAREPORT_JIRA_BASE_URL"),
		JiraEmail:          os.Getenv("QAREPORT_JIRA_EMAIL"),
		JiraToken:          os.Getenv("QAREPORT_JIRA_TOKEN"),
		OutputPath:         "qa_reviews_report.csv",
		Concurrency:        1,
		HTTPTimeout:        30 * time.Second,
	}

	var missing []string
	if cfg.BitbucketEmail == "" {
		missing = append(missing, "QAREPORT_BITBUCKET_EMAIL")
	}
	if cfg.BitbucketToken == "" {
		missing = append(missing, "QAREPORT_BITBUCKET_TOKEN")
	}
	if cfg.BitbucketWorkspace == "" {
		missing = append(missing, "QAREPORT_BITBUCKET_WORKSPACE")
	}

	repos := os.Getenv("QAREPORT_REPOSITORIES")
	for _, slug := range strings.Split(repos, ",") {
		if slug = strings.TrimSpace(slug); slug != "" {
			cfg.Repositories = append(cfg.Repositories, slug)
		}
	}
	if len(cfg.Repositories) == 0 {
		missing = append(missing, "QAREPORT_REPOSITORIES")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if v, ok := os.LookupEnv("QAREPORT_OUTPUT"); ok && v != "" {
		cfg.OutputPath = v
	}
	if v, ok := os.LookupEnv("QAREPORT_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("QAREPORT_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("QAREPORT_CONCURRENCY has invalid value %q: want a positive integer", v)
		}
		cfg.Concurrency = n
	}
	if v, ok := os.LookupEnv("QAREPORT_HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("QAREPORT_HTTP_TIMEOUT has invalid duration %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}
