// Package googletasks implements service.Service by mirroring the session's
// tasks into a single Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"anto/internal/config"
	"anto/internal/service"
	"anto/internal/task"
)

const (
	// PageSize is the number of tasks requested per API page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	statusOpen      = "needsAction"
	statusCompleted = "completed"
)

var (
	// ErrAuth indicates missing, expired or revoked credentials.
	ErrAuth = service.ErrAuth

	// ErrNotFound indicates the API could not find the list or task.
	ErrNotFound = errors.New("not found")
)

// Client implements service.Service using the Google Tasks API.
// ids[i] is the Google task ID of the task at index i.
type Client struct {
	svc       *tasks.Service
	listTitle string
	listID    string
	ids       []string
	logger    *log.Logger
}

// New creates a client from the stored OAuth credentials.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid token.json: %v", ErrAuth, err)
	}

	// Create HTTP client with a token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listTitle: cfg.Google.List, logger: logger}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listTitle string, logger *log.Logger) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listTitle: listTitle, logger: logger}, nil
}

// Load resolves (or creates) the configured list and returns its tasks,
// completed ones included, in list position order.
func (c *Client) Load(ctx context.Context) ([]*task.Task, error) {
	listID, err := c.resolveList(ctx)
	if err != nil {
		return nil, err
	}
	c.listID = listID

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []*tasks.Task
	err = c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			items = append(items, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	// Subtasks are flattened; positions are only comparable among siblings,
	// so keep parents ahead of their children.
	positions := make(map[string]string, len(items))
	for _, item := range items {
		positions[item.Id] = item.Position
	}
	sort.SliceStable(items, func(i, j int) bool {
		return sortKey(items[i], positions) < sortKey(items[j], positions)
	})

	c.ids = make([]string, len(items))
	result := make([]*task.Task, len(items))
	for i, item := range items {
		c.ids[i] = item.Id
		result[i] = &task.Task{
			ID:          item.Id,
			Description: item.Title,
			Done:        item.Status == statusCompleted,
		}
	}
	c.logger.Debug("loaded google tasks", "list", c.listTitle, "count", len(result))
	return result, nil
}

// resolveList finds the configured list by title (case-insensitive, trimmed),
// creating it when absent.
func (c *Client) resolveList(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	want := strings.ToLower(strings.TrimSpace(c.listTitle))

	var matches []string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == want {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	switch len(matches) {
	case 0:
		created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: c.listTitle}).Context(ctx).Do()
		if err != nil {
			return "", wrapError(err)
		}
		c.logger.Debug("created google task list", "title", c.listTitle, "id", created.Id)
		return created.Id, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", c.listTitle)
	}
}

// Append implements tasklist.Storage. The new task is placed after the
// current last task.
func (c *Client) Append(ctx context.Context, t *task.Task) error {
	if err := c.checkLoaded(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	item := &tasks.Task{Title: t.Description, Status: statusOpen}
	if t.Done {
		item.Status = statusCompleted
	}

	call := c.svc.Tasks.Insert(c.listID, item).Context(ctx)
	if len(c.ids) > 0 {
		call = call.Previous(c.ids[len(c.ids)-1])
	}
	created, err := call.Do()
	if err != nil {
		return wrapError(err)
	}

	c.ids = append(c.ids, created.Id)
	c.logger.Debug("inserted google task", "id", created.Id)
	return nil
}

// MarkDone implements tasklist.Storage.
func (c *Client) MarkDone(ctx context.Context, index int) error {
	return c.setStatus(ctx, index, statusCompleted)
}

// Unmark implements tasklist.Storage.
func (c *Client) Unmark(ctx context.Context, index int) error {
	return c.setStatus(ctx, index, statusOpen)
}

// Delete implements tasklist.Storage.
func (c *Client) Delete(ctx context.Context, index int) error {
	id, err := c.idAt(index)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}

	c.ids = append(c.ids[:index], c.ids[index+1:]...)
	c.logger.Debug("deleted google task", "id", id)
	return nil
}

// Close implements service.Service.
func (c *Client) Close() error {
	return nil
}

func (c *Client) setStatus(ctx context.Context, index int, status string) error {
	id, err := c.idAt(index)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := &tasks.Task{Status: status}
	if status == statusOpen {
		patch.NullFields = []string{"Completed"}
	}
	if _, err := c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	c.logger.Debug("patched google task", "id", id, "status", status)
	return nil
}

func (c *Client) idAt(index int) (string, error) {
	if err := c.checkLoaded(); err != nil {
		return "", err
	}
	if index < 0 || index >= len(c.ids) {
		return "", fmt.Errorf("no google task at index %d", index)
	}
	return c.ids[index], nil
}

func (c *Client) checkLoaded() error {
	if c.listID == "" {
		return errors.New("google task list not loaded")
	}
	return nil
}

// sortKey orders top-level tasks by position and places subtasks directly
// after their parent.
func sortKey(t *tasks.Task, positions map[string]string) string {
	if t.Parent == "" {
		return t.Position
	}
	return positions[t.Parent] + "/" + t.Position
}

// wrapError maps API errors to user-friendly ones.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrAuth
		case http.StatusNotFound:
			return ErrNotFound
		}
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return ErrAuth
	}

	return err
}

func loadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasks.TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}
