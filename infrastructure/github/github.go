// Package github implements the comment and release surfaces of the pipeline
// against the GitHub API.
package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

const perPage = 100

// Client talks to the GitHub API for one pull request. It implements both
// domain.CommentAPI (issue comments on the PR) and domain.ReleaseSource
// (releases of arbitrary upstream repositories).
type Client struct {
	client *gh.Client
	owner  string
	repo   string
	pull   int
}

var (
	_ domain.CommentAPI    = (*Client)(nil)
	_ domain.ReleaseSource = (*Client)(nil)
)

// NewClient creates a client scoped to one pull request of the given
// "owner/name" repository. An empty token yields an unauthenticated client,
// enough for the release-listing needs of the generate command.
func NewClient(token, repository string, pull int) (*Client, error) {
	owner, repo, err := splitSlug(repository)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{client: client, owner: owner, repo: repo, pull: pull}, nil
}

// ListComments returns all comments on the pull request, ordered by ID
// ascending, fetched page by page.
func (c *Client) ListComments(ctx context.Context) ([]domain.Comment, error) {
	var all []domain.Comment
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, c.pull, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments on PR #%d: %w", c.pull, err)
		}

		for _, comment := range comments {
			all = append(all, domain.Comment{
				ID:   comment.GetID(),
				Body: comment.GetBody(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (c *Client) CreateComment(ctx context.Context, body string) (int64, error) {
	comment, _, err := c.client.Issues.CreateComment(
		ctx, c.owner, c.repo, c.pull, &gh.IssueComment{Body: gh.String(body)},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create comment on PR #%d: %w", c.pull, err)
	}
	return comment.GetID(), nil
}

func (c *Client) UpdateComment(ctx context.Context, id int64, body string) error {
	_, _, err := c.client.Issues.EditComment(
		ctx, c.owner, c.repo, id, &gh.IssueComment{Body: gh.String(body)},
	)
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	if _, err := c.client.Issues.DeleteComment(ctx, c.owner, c.repo, id); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return nil
}

// ListReleases returns the releases of an upstream repository in the order the
// API serves them (most recent first), fetched page by page.
func (c *Client) ListReleases(ctx context.Context, repoSlug string) ([]domain.Release, error) {
	owner, repo, err := splitSlug(repoSlug)
	if err != nil {
		return nil, err
	}

	var all []domain.Release
	opts := &gh.ListOptions{PerPage: perPage}

	for {
		releases, resp, listErr := c.client.Repositories.ListReleases(ctx, owner, repo, opts)
		if listErr != nil {
			return nil, fmt.Errorf("failed to list releases of %q: %w", repoSlug, listErr)
		}

		for _, release := range releases {
			all = append(all, domain.Release{
				TagName: release.GetTagName(),
				Body:    release.GetBody(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func splitSlug(slug string) (string, string, error) {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository slug %q, want owner/name", slug)
	}
	return parts[0], parts[1], nil
}
