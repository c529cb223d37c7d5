// Package jira implements the IssueTracker port against the Jira REST API v2.
package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/qareport/internal/adapter/driven/transport"
	"github.com/ericfisherdev/qareport/internal/domain/model"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IssueTracker = (*Client)(nil)

// Client implements the driven.IssueTracker port.
type Client struct {
	http    *http.Client
	baseURL string
	email   string
	token   string
}

// NewClient creates a Jira API client with the same transport stack as the
// Bitbucket adapter: httpcache under retry-with-backoff. Authentication is
// HTTP basic with the account email and an API token.
func NewClient(baseURL, email, token string, timeout time.Duration) *Client {
	rt := transport.NewRetry(httpcache.NewMemoryCacheTransport())
	return &Client{
		http:    &http.Client{Transport: rt, Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// base URL, for tests backed by an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, email, token string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
	}
}

// FetchIssue looks up one issue by key, requesting only the issue type and
// the parent field. When the issue is a sub-task Jira embeds the parent's
// key and type in the same response, so the resolver usually needs no
// second call.
func (c *Client) FetchIssue(ctx context.Context, key string) (model.Issue, error) {
	if key == "" {
		return model.Issue{}, errors.New("empty issue key")
	}

	u := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=issuetype,parent", c.baseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Issue{}, fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Issue{}, fmt.Errorf("fetching issue %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.Issue{}, fmt.Errorf("issue %s: %w", key, driven.ErrIssueNotFound)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return model.Issue{}, fmt.Errorf("fetching issue %s: %w", key, &driven.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	var issue issueJSON
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return model.Issue{}, fmt.Errorf("decoding issue %s: %w", key, err)
	}
	return mapIssue(issue), nil
}

// --- Wire types ---

type issueJSON struct {
	Key    string     `json:"key"`
	Fields fieldsJSON `json:"fields"`
}

type fieldsJSON struct {
	IssueType issueTypeJSON `json:"issuetype"`
	Parent    *parentJSON   `json:"parent"`
}

type issueTypeJSON struct {
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

type parentJSON struct {
	Key    string `json:"key"`
	Fields struct {
		IssueType issueTypeJSON `json:"issuetype"`
	} `json:"fields"`
}

// mapIssue converts a Jira wire issue to the domain model.
func mapIssue(issue issueJSON) model.Issue {
	out := model.Issue{
		Key:     issue.Key,
		Type:    issue.Fields.IssueType.Name,
		Subtask: issue.Fields.IssueType.Subtask,
	}
	if issue.Fields.Parent != nil {
		out.ParentKey = issue.Fields.Parent.Key
		out.ParentType = issue.Fields.Parent.Fields.IssueType.Name
	}
	return out
}
