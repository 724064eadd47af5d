// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdesk/internal/config"
	"taskdesk/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks fetched per API page.
	PageSize = 100

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Service against a single Google task list.
type Client struct {
	svc      *tasks.Service
	listID   string
	timeout  time.Duration
	endpoint string // overrides the API base URL, for tests
}

// Option configures a Client.
type Option func(*Client)

// WithList selects the task list. Empty means DefaultListID.
func WithList(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.listID = id
		}
	}
}

// WithTimeout sets the per-call timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// OAuthConfig parses oauth_client.json contents for the Tasks scope.
func OAuthConfig(clientJSON []byte) (*oauth2.Config, error) {
	cfg, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return cfg, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadClientConfig(cfg.OAuthClientPath())
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	return NewWithHTTPClient(ctx, httpClient,
		WithList(cfg.Settings.GoogleList),
		WithTimeout(cfg.Settings.Timeout),
	)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	c := &Client{listID: DefaultListID, timeout: APITimeout}
	for _, opt := range opts {
		opt(c)
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(c.endpoint))
	}
	svc, err := tasks.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	c.svc = svc
	return c, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// List returns every task in the list, completed and hidden ones included.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// Create inserts a task at the top of the list.
func (c *Client) Create(ctx context.Context, draft service.Draft) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  draft.Title,
		Notes:  draft.Description,
		Status: toAPIStatus(draft.Status),
	}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(created), nil
}

// Update patches only the fields present in changes.
func (c *Client) Update(ctx context.Context, id string, changes service.Changes) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	patched, err := c.svc.Tasks.Patch(c.listID, id, toAPIPatch(changes)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(patched), nil
}

// Delete deletes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func fromAPI(t *tasks.Task) service.Task {
	status := service.StatusPending
	if t.Status == statusCompleted {
		status = service.StatusCompleted
	}
	return service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Status:      status,
	}
}

// toAPIStatus maps anything not completed to needsAction, the only other
// status Google accepts.
func toAPIStatus(s service.Status) string {
	if s == service.StatusCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

func toAPIPatch(changes service.Changes) *tasks.Task {
	patch := &tasks.Task{}
	if changes.Title != nil {
		patch.Title = *changes.Title
		patch.ForceSendFields = append(patch.ForceSendFields, "Title")
	}
	if changes.Description != nil {
		patch.Notes = *changes.Description
		patch.ForceSendFields = append(patch.ForceSendFields, "Notes")
	}
	if changes.Status != nil {
		patch.Status = toAPIStatus(*changes.Status)
		if patch.Status == statusNeedsAction {
			// Reopening a task must clear its completion timestamp.
			patch.NullFields = append(patch.NullFields, "Completed")
		}
	}
	return patch
}

// wrapError maps API errors onto the service error taxonomy.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", service.ErrTransport)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", service.ErrNotFound, apiErr.Message)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: taskdesk login)", service.ErrTransport)
		}
	}
	return fmt.Errorf("%w: %v", service.ErrTransport, err)
}
