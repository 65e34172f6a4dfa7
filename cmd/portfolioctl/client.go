package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"github.com/udayip/portfolio/project"
)

const (
	projectsPath = "/projects"
	authPath     = "/auth"
	logoutPath   = "/auth/logout"
)

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (%d): %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the portfolio server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	debug      io.Writer
}

// NewClient creates a client for baseURL. An empty token sends no credentials.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func getClient() *Client {
	c := NewClient(getConfigURL(), getConfigToken())
	if flagDebug {
		c.debug = os.Stderr
	}
	return c
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.debug != nil {
		fmt.Fprintf(c.debug, "DEBUG: %s %s\n", req.Method, req.URL.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug != nil {
		fmt.Fprintf(c.debug, "DEBUG: Status %d\n", resp.StatusCode)
		fmt.Fprintf(c.debug, "DEBUG: Body: %s\n", string(body))
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			return &APIError{
				StatusCode: status,
				Message:    msg.String(),
				Details:    gjson.GetBytes(body, "details").String(),
			}
		}
	}
	return &APIError{StatusCode: status, Message: string(bytes.TrimSpace(body))}
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// GetProjects fetches the full collection and its raw JSON.
func (c *Client) GetProjects(ctx context.Context) ([]project.Project, []byte, error) {
	body, err := c.send(ctx, http.MethodGet, projectsPath, nil)
	if err != nil {
		return nil, nil, err
	}
	projects, err := project.DecodeCollection(body)
	if err != nil {
		return nil, nil, fmt.Errorf("unexpected response: %w", err)
	}
	return projects, body, nil
}

// PutProjects replaces the full collection.
func (c *Client) PutProjects(ctx context.Context, projects []project.Project) error {
	body, err := c.send(ctx, http.MethodPut, projectsPath, project.Clone(projects))
	if err != nil {
		return err
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return fmt.Errorf("unexpected response: %s", string(body))
	}
	return nil
}

// LoginResult is the outcome of a password check.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// Login submits password to the auth endpoint.
func (c *Client) Login(ctx context.Context, password string) (*LoginResult, error) {
	body, err := c.send(ctx, http.MethodPost, authPath, map[string]string{"password": password})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// Logout ends the session bound to the client's token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodPost, logoutPath, nil)
	return err
}
