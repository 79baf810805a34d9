// Package github talks to the GitHub REST API to record repository
// Actions variables the generated workflow reads at deploy time.
// This is part of the Imperative Shell - handles I/O with the GitHub API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// =============================================================================
// Client Interface
// =============================================================================

// Client defines the source-hosting operations the tool needs.
type Client interface {
	// GetRepository resolves repository metadata.
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)

	// SetRepoVariable creates or updates a repository-level Actions
	// variable.
	SetRepoVariable(ctx context.Context, owner, repo, name, value string) error
}

// Repository is the subset of repository metadata the tool uses.
type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// =============================================================================
// REST Client Implementation
// =============================================================================

// RESTClient implements Client against the GitHub REST API.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// RESTConfig holds configuration for the REST client.
type RESTConfig struct {
	// BaseURL is the API root, https://api.github.com for github.com.
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewRESTClient creates a GitHub REST client. The token is carried by an
// oauth2 transport so every request is authenticated the same way.
func NewRESTClient(cfg RESTConfig, logger *slog.Logger) *RESTClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = cfg.Timeout

	return &RESTClient{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     logger.With("collaborator", "github"),
	}
}

// GetRepository resolves repository metadata.
func (c *RESTClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var out Repository
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode repository response: %w", err)
	}
	return &out, nil
}

// variablePayload is the request body for variable create and update.
type variablePayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SetRepoVariable creates the variable, falling back to an update when
// it already exists. Re-running setup therefore refreshes the value in
// place.
func (c *RESTClient) SetRepoVariable(ctx context.Context, owner, repo, name, value string) error {
	body, err := json.Marshal(variablePayload{Name: name, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal variable payload: %w", err)
	}

	createURL := fmt.Sprintf("%s/repos/%s/%s/actions/variables", c.baseURL, owner, repo)
	resp, err := c.do(ctx, http.MethodPost, createURL, body)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		c.logger.Info("created repository variable", "repo", owner+"/"+repo, "name", name)
		return nil
	case http.StatusConflict:
		// Fall through to update.
	default:
		return apiError(resp)
	}

	updateURL := fmt.Sprintf("%s/repos/%s/%s/actions/variables/%s", c.baseURL, owner, repo, name)
	resp, err = c.do(ctx, http.MethodPatch, updateURL, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	c.logger.Info("updated repository variable", "repo", owner+"/"+repo, "name", name)
	return nil
}

// do sends one API request with the standard GitHub headers.
func (c *RESTClient) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// apiError reports a non-success status with the response body, which
// carries GitHub's error message.
func apiError(resp *http.Response) error {
	respBody, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(respBody))
}

// =============================================================================
// No-Op Client (for dry runs)
// =============================================================================

// NoopClient is a Client that performs no API calls. Used for dry runs
// and when no API token is configured.
type NoopClient struct {
	logger *slog.Logger
}

// NewNoopClient creates a no-op GitHub client.
func NewNoopClient(logger *slog.Logger) *NoopClient {
	return &NoopClient{logger: logger.With("collaborator", "github")}
}

// GetRepository returns placeholder metadata without calling the API.
func (c *NoopClient) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	return &Repository{FullName: owner + "/" + repo, DefaultBranch: "main"}, nil
}

// SetRepoVariable logs the variable it would have set and does nothing.
func (c *NoopClient) SetRepoVariable(ctx context.Context, owner, repo, name, value string) error {
	c.logger.Info("skipping repository variable update (no-op client)",
		"repo", owner+"/"+repo, "name", name)
	return nil
}
