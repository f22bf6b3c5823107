// Package github opens pull requests through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

// PullRequest describes a pull request to open
type PullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// PullRequestCreator opens pull requests and returns their HTML URL
type PullRequestCreator interface {
	CreatePullRequest(ctx context.Context, owner, name string, pr PullRequest) (string, error)
}

// Client is a PullRequestCreator backed by go-github
type Client struct {
	gh *gogithub.Client
}

// NewOAuth2HTTPClient creates an HTTP client that sends token as a bearer credential.
func NewOAuth2HTTPClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, ts)
}

// NewClient creates an authenticated client. A non-empty apiURL selects a
// GitHub Enterprise Server instance.
func NewClient(ctx context.Context, token, apiURL string) (*Client, error) {
	gh := gogithub.NewClient(NewOAuth2HTTPClient(ctx, token))

	if apiURL != "" {
		var err error

		gh, err = gh.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
	}

	return &Client{gh: gh}, nil
}

// CreatePullRequest opens pr on owner/name
func (c *Client) CreatePullRequest(ctx context.Context, owner, name string, pr PullRequest) (string, error) {
	created, _, err := c.gh.PullRequests.Create(ctx, owner, name, &gogithub.NewPullRequest{
		Title: gogithub.Ptr(pr.Title),
		Body:  gogithub.Ptr(pr.Body),
		Head:  gogithub.Ptr(pr.Head),
		Base:  gogithub.Ptr(pr.Base),
		Draft: gogithub.Ptr(pr.Draft),
	})
	if err != nil {
		return "", err
	}

	return created.GetHTMLURL(), nil
}

// DescribeError renders err with the API message and field errors GitHub
// returned, or the HTTP status when there was no message.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	var apiErr *gogithub.ErrorResponse
	if !errors.As(err, &apiErr) {
		return msg
	}

	if apiErr.Message != "" {
		msg += " - API Message: " + apiErr.Message

		if len(apiErr.Errors) > 0 {
			msg += " - Details: " + formatFieldErrors(apiErr.Errors)
		}

		return msg
	}

	if apiErr.Response != nil {
		msg += fmt.Sprintf(" - Status: %d", apiErr.Response.StatusCode)
	}

	return msg
}

func formatFieldErrors(errs []gogithub.Error) string {
	parts := make([]string, 0, len(errs))

	for _, e := range errs {
		var b strings.Builder

		if e.Resource != "" {
			b.WriteString(e.Resource)
		}

		if e.Field != "" {
			b.WriteString("." + e.Field)
		}

		if e.Code != "" {
			if b.Len() > 0 {
				b.WriteString(": ")
			}

			b.WriteString(e.Code)
		}

		if e.Message != "" {
			if b.Len() > 0 {
				b.WriteString(" ")
			}

			b.WriteString(e.Message)
		}

		parts = append(parts, b.String())
	}

	return "[" + strings.Join(parts, "; ") + "]"
}
