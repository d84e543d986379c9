// Package client talks to the YeaBuddy REST API.
package client

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

	"github.com/claude/yeabuddy/internal/ingest/alpha"
	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/session"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const maxAttempts = 3

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("client: not found")

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: server returned %d: %s", e.Code, e.Body)
}

// Client implements the workout transport over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    time.Duration
}

var (
	_ session.Transport = (*Client)(nil)
	_ alpha.Store       = (*Client)(nil)
)

// New creates a Client targeting baseURL. A zero timeout means DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		backoff:    200 * time.Millisecond,
	}
}

// BaseURL returns the server address requests go to.
func (c *Client) BaseURL() string { return c.baseURL }

// get performs a GET, retrying network errors and 5xx responses with
// exponential backoff.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	wait := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
		if err == nil || !retryable(err) {
			return body, err
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("client: %s: %w", path, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, want int) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	switch {
	case resp.StatusCode == want:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
}

// ListWorkouts fetches every workout, newest first.
func (c *Client) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	body, err := c.get(ctx, "/api/workouts")
	if err != nil {
		return nil, err
	}
	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("client: decode workouts: %w", err)
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return workouts, nil
}

// GetWorkout fetches one workout. Unknown ids return ErrNotFound.
func (c *Client) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	body, err := c.get(ctx, "/api/workouts/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("client: decode workout: %w", err)
	}
	return &w, nil
}

// CreateWorkout posts w and returns the stored workout. It is sent once:
// a retry after a lost response could store the workout twice.
func (c *Client) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	payload, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("client: encode workout: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/api/workouts", payload, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	var created models.Workout
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("client: decode created workout: %w", err)
	}
	return &created, nil
}
