// Package bitbucket implements the BitbucketClient port against the
// Bitbucket Cloud 2.0 REST API.
package bitbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/qareport/internal/adapter/driven/transport"
	"github.com/ericfisherdev/qareport/internal/domain/model"
	"github.com/ericfisherdev/qareport/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BitbucketClient = (*Client)(nil)

const (
	defaultBaseURL = "https://api.bitbucket.org/2.0"
	pageLen        = 50
)

// Field projections keep the listing payloads down to what the pipeline
// actually reads; "next" must always be requested or pagination breaks.
const (
	prFields      = "values.id,values.title,values.state,values.comment_count,values.author.uuid,values.links.html.href,values.source.branch.name,values.participants,next"
	commentFields = "values.user.uuid,values.content.raw,values.created_on,next"
)

// Client implements the driven.BitbucketClient port.
type Client struct {
	http      *http.Client
	baseURL   string
	workspace string
	email     string
	token     string
}

// NewClient creates a Bitbucket API client with the following transport stack:
//  1. httpcache (conditional request caching on ETags)
//  2. retry middleware (exponential backoff on 429/5xx)
//
// Authentication is HTTP basic with the account email and an API token.
func NewClient(workspace, email, token string, timeout time.Duration) *Client {
	rt := transport.NewRetry(httpcache.NewMemoryCacheTransport())
	return &Client{
		http:      &http.Client{Transport: rt, Timeout: timeout},
		baseURL:   defaultBaseURL,
		workspace: workspace,
		email:     email,
		token:     token,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// base URL. This constructor is intended for testing, allowing injection of
// an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, workspace, email, token string) *Client {
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		workspace: workspace,
		email:     email,
		token:     token,
	}
}

// CurrentUser resolves the authenticated reviewer's identity with a single
// GET /user call. A 401 or 403 wraps driven.ErrAuthentication; the caller
// treats that as fatal to the whole run.
func (c *Client) CurrentUser(ctx context.Context) (model.ReviewerIdentity, error) {
	var user accountJSON
	if err := c.getJSON(ctx, c.baseURL+"/user", &user); err != nil {
		var ue *driven.UpstreamError
		if errors.As(err, &ue) && (ue.StatusCode == http.StatusUnauthorized || ue.StatusCode == http.StatusForbidden) {
			return model.ReviewerIdentity{}, fmt.Errorf("resolving current user: %w", driven.ErrAuthentication)
		}
		return model.ReviewerIdentity{}, fmt.Errorf("resolving current user: %w", err)
	}
	return model.ReviewerIdentity{ID: user.UUID}, nil
}

// MergedPullRequests lists merged pull requests of one repository that have
// comments and were not authored by the reviewer. Those three predicates
// are pushed into the server-side q filter as an optimization; the caller
// re-checks them along with participant approval, which Bitbucket cannot
// filter on.
func (c *Client) MergedPullRequests(ctx context.Context, repoSlug string, reviewer model.ReviewerIdentity) iter.Seq2[model.PullRequest, error] {
	query := fmt.Sprintf(`state="MERGED" AND comment_count > 0 AND author.uuid != %q`, reviewer.ID)
	params := url.Values{
		"q":       {query},
		"pagelen": {strconv.Itoa(pageLen)},
		"fields":  {prFields},
	}
	first := fmt.Sprintf("%s/repositories/%s/%s/pullrequests?%s",
		c.baseURL, c.workspace, repoSlug, params.Encode())

	return func(yield func(model.PullRequest, error) bool) {
		for pr, err := range followPages[prJSON](ctx, c, first) {
			if err != nil {
				yield(model.PullRequest{}, fmt.Errorf("listing pull requests for %s: %w", repoSlug, err))
				return
			}
			if !yield(mapPullRequest(pr, repoSlug), nil) {
				return
			}
		}
	}
}

// ReviewerComments lists the reviewer's own comments on a pull request, in
// the API's creation order. Authorship is filtered server-side via q.
func (c *Client) ReviewerComments(ctx context.Context, repoSlug string, prID int, reviewer model.ReviewerIdentity) iter.Seq2[model.ReviewComment, error] {
	params := url.Values{
		"q":       {fmt.Sprintf(`user.uuid = %q`, reviewer.ID)},
		"pagelen": {strconv.Itoa(pageLen)},
		"fields":  {commentFields},
	}
	first := fmt.Sprintf("%s/repositories/%s/%s/pullrequests/%d/comments?%s",
		c.baseURL, c.workspace, repoSlug, prID, params.Encode())

	return func(yield func(model.ReviewComment, error) bool) {
		for comment, err := range followPages[commentJSON](ctx, c, first) {
			if err != nil {
				yield(model.ReviewComment{}, fmt.Errorf("listing comments for %s#%d: %w", repoSlug, prID, err))
				return
			}
			if !yield(mapComment(comment), nil) {
				return
			}
		}
	}
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
// Any non-2xx status becomes a *driven.UpstreamError carrying a truncated
// body for diagnostics.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &driven.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// --- Wire types ---

type accountJSON struct {
	UUID string `json:"uuid"`
}

type prJSON struct {
	ID           int               `json:"id"`
	Title        string            `json:"title"`
	State        string            `json:"state"`
	CommentCount int               `json:"comment_count"`
	Author       accountJSON       `json:"author"`
	Links        linksJSON         `json:"links"`
	Source       sourceJSON        `json:"source"`
	Participants []participantJSON `json:"participants"`
}

type linksJSON struct {
	HTML hrefJSON `json:"html"`
}

type hrefJSON struct {
	Href string `json:"href"`
}

type sourceJSON struct {
	Branch branchJSON `json:"branch"`
}

type branchJSON struct {
	Name string `json:"name"`
}

type participantJSON struct {
	User     accountJSON `json:"user"`
	Approved bool        `json:"approved"`
}

type commentJSON struct {
	User      accountJSON `json:"user"`
	Content   contentJSON `json:"content"`
	CreatedOn time.Time   `json:"created_on"`
}

type contentJSON struct {
	Raw string `json:"raw"`
}

// mapPullRequest converts a Bitbucket wire pull request to the domain model.
func mapPullRequest(pr prJSON, repoSlug string) model.PullRequest {
	participants := make([]model.Participant, 0, len(pr.Participants))
	for _, p := range pr.Participants {
		participants = append(participants, model.Participant{
			UserID:   p.User.UUID,
			Approved: p.Approved,
		})
	}

	return model.PullRequest{
		ID:           pr.ID,
		RepoSlug:     repoSlug,
		Title:        pr.Title,
		SourceBranch: pr.Source.Branch.Name,
		URL:          pr.Links.HTML.Href,
		AuthorID:     pr.Author.UUID,
		State:        pr.State,
		CommentCount: pr.CommentCount,
		Participants: participants,
	}
}

// mapComment converts a Bitbucket wire comment to the domain model.
func mapComment(c commentJSON) model.ReviewComment {
	return model.ReviewComment{
		AuthorID:  c.User.UUID,
		Body:      c.Content.Raw,
		CreatedAt: c.CreatedOn,
	}
}
