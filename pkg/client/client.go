// Package client provides a Go client for the Folio server API, plus
// an in-memory essay cache mirroring how site frontends consume it.
package client

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	apiPrefix = "/api/v1"
)

// Sentinel errors for API failures.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
)

// Essay is an essay as returned by the API.
type Essay struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	Tags        []string  `json:"tags"`
	Views       int64     `json:"views"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is an account as returned by the API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client talks to a Folio server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the server at baseURL (scheme and host, no
// trailing slash).
func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// SetToken sets the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}

	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}

	c.token = out.AccessToken
	return &out.User, nil
}

// ListEssays returns all essays, or only published ones.
func (c *Client) ListEssays(ctx context.Context, publishedOnly bool) ([]Essay, error) {
	path := "/essays"
	if publishedOnly {
		path += "?published=true"
	}

	var out struct {
		Essays []Essay `json:"essays"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Essays, nil
}

// GetEssay fetches one essay. The server counts the fetch as a view.
func (c *Client) GetEssay(ctx context.Context, id string) (*Essay, error) {
	var out struct {
		Essay Essay `json:"essay"`
	}
	if err := c.do(ctx, http.MethodGet, "/essays/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Essay, nil
}

// CreateEssay creates an essay. Requires a token.
func (c *Client) CreateEssay(ctx context.Context, essay Essay) (*Essay, error) {
	var out struct {
		Essay Essay `json:"essay"`
	}
	if err := c.do(ctx, http.MethodPost, "/essays", essay, &out); err != nil {
		return nil, err
	}
	return &out.Essay, nil
}

// UpdateEssay applies a partial update. The patch is any JSON-marshalable
// value holding only the fields to change. Requires a token.
func (c *Client) UpdateEssay(ctx context.Context, id string, patch any) (*Essay, error) {
	var out struct {
		Essay Essay `json:"essay"`
	}
	if err := c.do(ctx, http.MethodPut, "/essays/"+id, patch, &out); err != nil {
		return nil, err
	}
	return &out.Essay, nil
}

// DeleteEssay removes an essay. Requires a token.
func (c *Client) DeleteEssay(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/essays/"+id, nil, nil)
}

// Subscribe signs an email up for the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/newsletter/subscribe", map[string]string{"email": email}, nil)
}

// Contact submits a contact form message.
func (c *Client) Contact(ctx context.Context, name, email, subject, message string) error {
	body := map[string]string{
		"name":    name,
		"email":   email,
		"subject": subject,
		"message": message,
	}
	return c.do(ctx, http.MethodPost, "/contact", body, nil)
}

// EbookDownloadURL returns a signed, short-lived link to the latest ebook.
func (c *Client) EbookDownloadURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/ebook/download", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// do executes a JSON request against the API and decodes the response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.apiError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// apiError maps an error response to a sentinel, keeping the server's
// message in the wrapped error.
func (c *Client) apiError(status int, data []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	//nolint:errcheck // A malformed error body still maps to a status error below
	_ = json.Unmarshal(data, &body)
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body.Error)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body.Error)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, body.Error)
	default:
		return fmt.Errorf("api error (status %d): %s", status, body.Error)
	}
}
