// Package workspace is an HTTP client for the server's per-session file
// workspace: listing, reading, uploading and resetting files.
package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/deepagents/deepchat/pkg/api"
)

// Client is an HTTP client for the workspace API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// ClientOption is a function for configuring the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new workspace client for the server
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := &Client{
		baseURL: parsedURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an HTTP request and handles common response patterns
func (c *Client) doRequest(ctx context.Context, method, endpoint, sessionID string, body io.Reader, contentType string, result any) error {
	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	return nil
}

// ListFiles retrieves the session's uploaded and generated file paths
func (c *Client) ListFiles(ctx context.Context, sessionID string) (*api.FileListing, error) {
	var listing api.FileListing
	err := c.doRequest(ctx, "GET", "/files", sessionID, nil, "", &listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FileContent retrieves the text content of one workspace file
func (c *Client) FileContent(ctx context.Context, sessionID, filePath string) (string, error) {
	var content api.FileContentResponse
	err := c.doRequest(ctx, "GET", path.Join("/files/content", filePath), sessionID, nil, "", &content)
	if err != nil {
		return "", err
	}
	return content.Content, nil
}

// Upload sends a file into the session's upload area
func (c *Client) Upload(ctx context.Context, sessionID, filename string, content io.Reader) (*api.UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copying file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing form: %w", err)
	}

	var uploaded api.UploadResponse
	err = c.doRequest(ctx, "POST", "/upload", sessionID, &buf, writer.FormDataContentType(), &uploaded)
	if err != nil {
		return nil, err
	}
	return &uploaded, nil
}

// Reset wipes the session's workspace on the server
func (c *Client) Reset(ctx context.Context, sessionID string) error {
	return c.doRequest(ctx, "POST", "/reset", sessionID, nil, "", nil)
}

// DownloadURL returns the browser-facing URL for downloading a file
func (c *Client) DownloadURL(sessionID, filePath string) string {
	u := *c.baseURL
	u.Path = path.Join(u.Path, "/files/download", filePath)
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}
