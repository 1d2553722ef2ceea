// Package github is a small read-only client for the public GitHub REST API,
// used to enrich student profiles with repository activity.
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

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "career-matcher/1.0"

// maxRepoPage caps how many recent repositories feed the language counts.
const maxRepoPage = 100

// ErrNotFound is returned when the username does not exist on GitHub.
var ErrNotFound = errors.New("github user not found")

// Error represents an error during a GitHub API call.
type Error struct {
	Username   string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("github request for %s: HTTP %d: %v", e.Username, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("github request for %s: %v", e.Username, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// Token, when set, is sent as a bearer token to lift the unauthenticated
	// rate limit of 60 requests per hour.
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches public profile data from the GitHub API.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	client    *http.Client
}

// NewClient creates a client with defaults filled in for unset options.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:   opts.BaseURL,
		token:     opts.Token,
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
	}
}

// Profile is a GitHub user profile enriched with language usage counts
// across their most recent repositories. Forked repos are ignored.
type Profile struct {
	Login         string         `json:"login"`
	Name          string         `json:"name,omitempty"`
	Bio           string         `json:"bio,omitempty"`
	Company       string         `json:"company,omitempty"`
	Location      string         `json:"location,omitempty"`
	PublicRepos   int            `json:"public_repos"`
	Followers     int            `json:"followers"`
	Following     int            `json:"following"`
	ProfileURL    string         `json:"profile_url,omitempty"`
	AvatarURL     string         `json:"avatar_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	ReposAnalyzed int            `json:"repos_analyzed"`
	Languages     map[string]int `json:"languages"`
	TopLanguage   string         `json:"top_language,omitempty"`
}

type userResponse struct {
	Login       string    `json:"login"`
	Name        *string   `json:"name"`
	Bio         *string   `json:"bio"`
	Company     *string   `json:"company"`
	Location    *string   `json:"location"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	HTMLURL     string    `json:"html_url"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type repoResponse struct {
	Language *string `json:"language"`
	Fork     bool    `json:"fork"`
}

// FetchProfile retrieves the user's profile and aggregates the primary
// language of their most recently updated repositories.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	var user userResponse
	if err := c.getJSON(ctx, username, "/users/"+url.PathEscape(username), &user); err != nil {
		return nil, err
	}

	reposPath := fmt.Sprintf("/users/%s/repos?per_page=%d&sort=updated", url.PathEscape(username), maxRepoPage)
	var repos []repoResponse
	if err := c.getJSON(ctx, username, reposPath, &repos); err != nil {
		return nil, err
	}

	languages := make(map[string]int)
	analyzed := 0
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		analyzed++
		if repo.Language != nil {
			languages[*repo.Language]++
		}
	}

	topLanguage := ""
	best := 0
	for lang, count := range languages {
		if count > best || (count == best && lang < topLanguage) {
			topLanguage = lang
			best = count
		}
	}

	profile := &Profile{
		Login:         user.Login,
		PublicRepos:   user.PublicRepos,
		Followers:     user.Followers,
		Following:     user.Following,
		ProfileURL:    user.HTMLURL,
		AvatarURL:     user.AvatarURL,
		CreatedAt:     user.CreatedAt,
		ReposAnalyzed: analyzed,
		Languages:     languages,
		TopLanguage:   topLanguage,
	}
	if user.Name != nil {
		profile.Name = *user.Name
	}
	if user.Bio != nil {
		profile.Bio = *user.Bio
	}
	if user.Company != nil {
		profile.Company = *user.Company
	}
	if user.Location != nil {
		profile.Location = *user.Location
	}

	return profile, nil
}

func (c *Client) getJSON(ctx context.Context, username, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Username: username, Cause: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Username: username, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return &Error{Username: username, StatusCode: resp.StatusCode, Cause: ErrNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{Username: username, StatusCode: resp.StatusCode, Cause: fmt.Errorf("unexpected status")}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Username: username, StatusCode: resp.StatusCode, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
