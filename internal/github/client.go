package github

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/reviewlens/reviewlens/internal/logging"
	"github.com/reviewlens/reviewlens/internal/review"
)

const perPage = 100

// PullRequest carries the metadata the report header needs.
type PullRequest struct {
	Ref    PRRef
	Title  string
	Author string
	State  string
}

// Client fetches pull request review activity from one GitHub-compatible
// host. Construct a fresh one per host; the API base URL is fixed at
// construction.
type Client struct {
	gh  *gh.Client
	log logging.Logger
}

// NewClient builds an authenticated client. An empty token yields an
// unauthenticated client, which works for public repositories at reduced
// rate limits. A non-empty apiBaseURL switches to an enterprise host.
func NewClient(token, apiBaseURL string, log logging.Logger) (*Client, error) {
	var httpClient *http.Client
	if token == "" {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = 30 * time.Second
	}

	client := gh.NewClient(httpClient)
	if apiBaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(apiBaseURL, apiBaseURL)
		if err != nil {
			return nil, fmt.Errorf("configure enterprise endpoint %s: %w", apiBaseURL, err)
		}
	}
	return &Client{gh: client, log: log}, nil
}

// RateLimit reports the remaining core API quota. config-check uses it to
// verify the endpoint and credentials actually work.
func (c *Client) RateLimit(ctx context.Context) (remaining, limit int, err error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("check github connectivity: %w", err)
	}
	core := limits.GetCore()
	return core.Remaining, core.Limit, nil
}

// FetchPR returns the pull request metadata for ref.
func (c *Client) FetchPR(ctx context.Context, ref PRRef) (PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return PullRequest{}, fmt.Errorf("fetch pull request %s: %w", ref.Slug(), err)
	}
	return PullRequest{
		Ref:    ref,
		Title:  pr.GetTitle(),
		Author: pr.GetUser().GetLogin(),
		State:  pr.GetState(),
	}, nil
}

// FetchComments collects every piece of review feedback on the pull
// request: inline review comments, PR-level conversation comments, and
// review summaries with a non-empty body. The merged list is sorted by
// creation time ascending so downstream grouping preserves the real
// conversation order.
func (c *Client) FetchComments(ctx context.Context, ref PRRef) ([]review.Comment, error) {
	var comments []review.Comment

	inline, err := c.fetchInlineComments(ctx, ref)
	if err != nil {
		return nil, err
	}
	comments = append(comments, inline...)

	conversation, err := c.fetchIssueComments(ctx, ref)
	if err != nil {
		return nil, err
	}
	comments = append(comments, conversation...)

	summaries, err := c.fetchReviewSummaries(ctx, ref)
	if err != nil {
		return nil, err
	}
	comments = append(comments, summaries...)

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp < comments[j].Timestamp
	})

	c.log.Info("fetched review activity",
		"pr", ref.Slug(),
		"inline", len(inline),
		"conversation", len(conversation),
		"summaries", len(summaries),
	)
	return comments, nil
}

func (c *Client) fetchInlineComments(ctx context.Context, ref PRRef) ([]review.Comment, error) {
	opts := &gh.PullRequestListCommentsOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var out []review.Comment
	for {
		page, resp, err := c.gh.PullRequests.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("list review comments for %s: %w", ref.Slug(), err)
		}
		for _, pc := range page {
			out = append(out, review.Comment{
				Author:    pc.GetUser().GetLogin(),
				Content:   pc.GetBody(),
				Timestamp: pc.GetCreatedAt().UTC().Format(time.RFC3339),
				FilePath:  pc.GetPath(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) fetchIssueComments(ctx context.Context, ref PRRef) ([]review.Comment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var out []review.Comment
	for {
		page, resp, err := c.gh.Issues.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("list conversation comments for %s: %w", ref.Slug(), err)
		}
		for _, ic := range page {
			out = append(out, review.Comment{
				Author:    ic.GetUser().GetLogin(),
				Content:   ic.GetBody(),
				Timestamp: ic.GetCreatedAt().UTC().Format(time.RFC3339),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) fetchReviewSummaries(ctx context.Context, ref PRRef) ([]review.Comment, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var out []review.Comment
	for {
		page, resp, err := c.gh.PullRequests.ListReviews(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("list reviews for %s: %w", ref.Slug(), err)
		}
		for _, rv := range page {
			if strings.TrimSpace(rv.GetBody()) == "" {
				continue
			}
			out = append(out, review.Comment{
				Author:    rv.GetUser().GetLogin(),
				Content:   rv.GetBody(),
				Timestamp: rv.GetSubmittedAt().UTC().Format(time.RFC3339),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}
