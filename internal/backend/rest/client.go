// Package rest implements service.Service against the HTTP task API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/service"
)

const (
	// DefaultTimeout is the per-request timeout when none is configured.
	DefaultTimeout = 5 * time.Second

	// RequestIDHeader carries a fresh uuid on every request.
	RequestIDHeader = "X-Request-Id"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:3000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List implements service.Service.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	var dtos []taskDTO
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &dtos); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, len(dtos))
	for i, d := range dtos {
		tasks[i] = d.toTask()
	}
	return tasks, nil
}

// Create implements service.Service.
func (c *Client) Create(ctx context.Context, draft service.Draft) (service.Task, error) {
	body := draftDTO{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      string(draft.Status),
	}
	var dto taskDTO
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &dto); err != nil {
		return service.Task{}, err
	}
	if dto.ID == "" {
		return service.Task{}, fmt.Errorf("%w: created task has no id", service.ErrTransport)
	}
	return dto.toTask(), nil
}

// errNoBody is returned by do when a 2xx response carries no JSON.
var errNoBody = fmt.Errorf("%w: empty response body", service.ErrTransport)

// Update implements service.Service.
func (c *Client) Update(ctx context.Context, id string, changes service.Changes) (service.Task, error) {
	var dto taskDTO
	// Some servers confirm a patch with an empty 200. The caller already
	// holds the changes, so no echo is needed.
	err := c.do(ctx, http.MethodPatch, taskPath(id), newChangesDTO(changes), &dto)
	if err != nil && !errors.Is(err, errNoBody) {
		return service.Task{}, err
	}
	task := dto.toTask()
	if task.ID == "" {
		task.ID = id
	}
	return task, nil
}

// Delete implements service.Service.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// do sends one request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errNoBody
		}
		return fmt.Errorf("%w: decode %s %s: %v", service.ErrTransport, method, path, err)
	}
	return nil
}

// statusError maps a non-2xx response to a service error.
func statusError(method, path string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(data))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", service.ErrNotFound, method, path)
	case resp.StatusCode == http.StatusConflict,
		strings.Contains(strings.ToLower(msg), "already exists"):
		return fmt.Errorf("%w: %s", service.ErrDuplicateTitle, msg)
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("%w: %s %s: %d %s", service.ErrTransport, method, path, resp.StatusCode, msg)
}

// wrapError turns network failures into ErrTransport.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrTransport)
	}
	return fmt.Errorf("%w: %v", service.ErrTransport, err)
}
