// Package github is a minimal client for the GitHub repository contents API.
// It reads and writes single files, using the blob SHA as the precondition
// for overwrites.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "portfolio-server"
	defaultTimeout   = 30 * time.Second
)

var (
	// ErrFileNotFound is returned when the requested file does not exist.
	ErrFileNotFound = errors.New("github: file not found")

	// ErrConflict matches write rejections caused by a stale or missing SHA.
	ErrConflict = errors.New("github: file changed since it was read")
)

// APIError is a non-2xx response from the contents API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrConflict) match SHA precondition failures.
func (e *APIError) Is(target error) bool {
	if target == ErrConflict {
		return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// Config holds client settings.
type Config struct {
	Token      string
	Repository string // owner/name
	Branch     string // empty means the repository default branch
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
}

// Client talks to the contents API of a single repository.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
	userAgent  string
	owner      string
	repo       string
	branch     string
}

// File is a decoded repository file.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

// PutFileInput describes a create-or-update of a file.
// An empty SHA asks the API to create the file.
type PutFileInput struct {
	Message string
	Content []byte
	SHA     string
}

// NewClient creates a contents API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: token is required")
	}

	owner, repo, err := ParseRepository(cfg.Repository)
	if err != nil {
		return nil, err
	}

	baseURL := defaultBaseURL
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	userAgent := defaultUserAgent
	if cfg.UserAgent != "" {
		userAgent = cfg.UserAgent
	}
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      cfg.Token,
		baseURL:    baseURL,
		userAgent:  userAgent,
		owner:      owner,
		repo:       repo,
		branch:     cfg.Branch,
	}, nil
}

// ParseRepository parses "owner/repo" into owner and repo.
func ParseRepository(repository string) (owner, repo string, err error) {
	parts := strings.SplitN(repository, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("github: invalid repository %q, expected owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// Repository returns the owner/name this client is bound to.
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

type contentResponse struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type putResponse struct {
	Content contentResponse `json:"content"`
}

// GetFile fetches a file and its current SHA.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	u := c.contentsURL(path)
	if c.branch != "" {
		u += "?ref=" + url.QueryEscape(c.branch)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrFileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp, http.MethodGet, path)
	}

	var cr contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("github: failed to decode response: %w", err)
	}
	if cr.Type != "" && cr.Type != "file" {
		return nil, fmt.Errorf("github: %s is a %s, not a file", path, cr.Type)
	}

	file := &File{Path: cr.Path, SHA: cr.SHA}
	if cr.Encoding != "" && cr.Encoding != "base64" {
		return file, fmt.Errorf("github: unsupported content encoding %q", cr.Encoding)
	}
	content, err := DecodeContent(cr.Content)
	if err != nil {
		return file, err
	}
	file.Content = content
	return file, nil
}

// PutFile creates or overwrites a file. The call is made exactly once.
func (c *Client) PutFile(ctx context.Context, path string, input PutFileInput) (*File, error) {
	body := putRequest{
		Message: input.Message,
		Content: base64.StdEncoding.EncodeToString(input.Content),
		SHA:     input.SHA,
		Branch:  c.branch,
	}

	resp, err := c.doRequest(ctx, http.MethodPut, c.contentsURL(path), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.apiError(resp, http.MethodPut, path)
	}

	var pr putResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("github: failed to decode response: %w", err)
	}

	return &File{Path: pr.Content.Path, SHA: pr.Content.SHA, Content: input.Content}, nil
}

// DecodeContent decodes the API's base64 content, which is wrapped with newlines.
func DecodeContent(encoded string) ([]byte, error) {
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(encoded)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("github: failed to decode content: %w", err)
	}
	return data, nil
}

func (c *Client) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, strings.Join(segments, "/"))
}

func (c *Client) doRequest(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("github: failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("github: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: %s request failed: %w", method, err)
	}
	return resp, nil
}

func (c *Client) apiError(resp *http.Response, method, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
