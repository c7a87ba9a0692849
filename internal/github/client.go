package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrNoProfile = errors.New("no github profile found")

// GatewayError marks a transport-level failure talking to the external API.
// The client makes exactly one attempt; retrying is the caller's decision.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "github gateway: " + e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }

type RepoSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	CreatedAt   string `json:"created_at"`
}

type Client struct {
	base     string
	clientID string
	secret   string
	http     *http.Client
}

func NewClient(base, clientID, secret string) *Client {
	if base == "" {
		base = "https://api.github.com"
	}
	return &Client{
		base:     base,
		clientID: clientID,
		secret:   secret,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchPublicRepos lists up to 5 public repos for username, oldest created
// first. Any non-200 answer maps to ErrNoProfile; a failed request maps to
// GatewayError.
func (c *Client) FetchPublicRepos(ctx context.Context, username string) ([]RepoSummary, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.secret)
	}
	u := fmt.Sprintf("%s/users/%s/repos?%s", c.base, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	req.Header.Set("User-Agent", "profile-service")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNoProfile
	}

	var out []RepoSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &GatewayError{Err: err}
	}
	return out, nil
}
