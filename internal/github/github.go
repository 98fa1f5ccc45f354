// Package github validates GitHub usernames against the public users API.
//
// This is an identity LOOKUP, not authentication: the workshop only needs
// to know that the username a participant typed actually exists. The call
// is a plain GET /users/{username} — 200 means the account exists, 404
// means it doesn't, anything else is GitHub being unhappy.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/sakif/workshop-tracker/internal/apperror"
)

// DefaultBaseURL is the public GitHub API. Tests substitute an httptest
// server.
const DefaultBaseURL = "https://api.github.com"

// Client checks GitHub usernames.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a Client. token is optional: anonymous calls are limited to
// 60/hour per source IP, which a busy workshop can exhaust, so a personal
// access token can be configured to lift the limit. When present, the
// HTTP client is wrapped with an oauth2 static token source.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 10 * time.Second
	}

	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// ValidateUsername confirms the username exists on GitHub.
// Returns apperror.ErrUpstreamRejected when GitHub answers 404 (the
// caller typed a nonexistent username → 400 at the HTTP layer) and
// apperror.ErrUpstream for any other failure.
func (c *Client) ValidateUsername(ctx context.Context, username string) error {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building GitHub request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Upstream("error reaching GitHub", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return apperror.UpstreamRejected("githubUsername", "Invalid GitHub username.")
	default:
		return apperror.Upstream(
			fmt.Sprintf("GitHub returned unexpected status %d", resp.StatusCode),
			fmt.Errorf("status %d from %s", resp.StatusCode, url),
		)
	}
}
