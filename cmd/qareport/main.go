package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericfisherdev/qareport/internal/adapter/driven/bitbucket"
	"github.com/ericfisherdev/qareport/internal/adapter/driven/csvreport"
	"github.com/ericfisherdev/qareport/internal/adapter/driven/jira"
	"github.com/ericfisherdev/qareport/internal/adapter/driven/memcache"
	sqliteadapter "github.com/ericfisherdev/qareport/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/qareport/internal/application"
	"github.com/ericfisherdev/qareport/internal/config"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, driven.ErrAuthentication) {
			slog.Error("authentication failed, check Bitbucket credentials", "error", err)
		} else {
			slog.Error("fatal error", "error", err)
		}
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"workspace", cfg.BitbucketWorkspace,
		"repositories", len(cfg.Repositories),
		"output", cfg.OutputPath,
		"concurrency", cfg.Concurrency,
		"jira_enabled", cfg.HasJiraCredentials(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Pick the issue-type cache backend: persistent SQLite when a DB
	// path is configured, plain in-memory otherwise.
	var cache driven.IssueTypeCache = memcache.NewIssueTypeCache()
	if cfg.DBPath != "" {
		db, err := sqliteadapter.NewDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing cache database", "error", closeErr)
			}
		}()
		if err := sqliteadapter.RunMigrations(db); err != nil {
			return err
		}
		cache = sqliteadapter.NewIssueTypeCacheRepo(db)
		slog.Info("persistent issue type cache enabled", "path", cfg.DBPath)
	}

	// 4. Wire adapters.
	source := bitbucket.NewClient(cfg.BitbucketWorkspace, cfg.BitbucketEmail, cfg.BitbucketToken, cfg.HTTPTimeout)

	var resolver *application.IssueTypeResolver
	if cfg.HasJiraCredentials() {
		tracker := jira.NewClient(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraToken, cfg.HTTPTimeout)
		resolver = application.NewIssueTypeResolver(tracker, cache)
	} else {
		slog.Warn("jira credentials absent, issue type column will be empty")
	}

	// 5. Run the audit.
	audit := application.NewAuditService(source, resolver, cfg.Repositories, cfg.Concurrency)
	rows, err := audit.Run(ctx)
	if err != nil {
		return err
	}

	// 6. Write the report.
	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := csvreport.NewWriter(out).WriteReport(rows); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	slog.Info("report written", "path", cfg.OutputPath, "rows", len(rows))
	return nil
}
