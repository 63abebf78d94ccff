// Package jobmanager talks to the Job Manager REST API that owns jobs and tasks.
package jobmanager

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
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"job-tracker-service/internal/entity"
)

// maxErrorBody bounds how much of an error response is kept in the returned error.
const maxErrorBody = 512

// Client implements workflow.JobManager over HTTP. Every call is made once;
// retries and timeouts beyond the http.Client's own are left to the caller.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// StatusError is returned for unexpected non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("job manager %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse job manager url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("job manager url %q must be absolute", baseURL)
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With().Str("component", "jobmanager").Logger(),
	}, nil
}

// FindTasks posts the filter to /tasks/find. The Job Manager answers 404 for
// an empty result, which is reported as an empty slice.
func (c *Client) FindTasks(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, error) {
	var tasks []entity.Task
	err := c.do(ctx, http.MethodPost, "/tasks/find", filter, &tasks)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return []entity.Task{}, nil
		}
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetJob(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	var job entity.Job
	path := "/jobs/" + jobID.String() + "?shouldReturnTasks=false"
	if err := c.do(ctx, http.MethodGet, path, nil, &job); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("job %s: %w", jobID, entity.ErrNotFound)
		}
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateTask(ctx context.Context, jobID uuid.UUID, req entity.CreateTaskRequest) error {
	err := c.do(ctx, http.MethodPost, "/jobs/"+jobID.String()+"/tasks", req, nil)
	switch {
	case err == nil:
		return nil
	case isStatus(err, http.StatusConflict):
		return fmt.Errorf("%s task for job %s: %w", req.Type, jobID, entity.ErrConflict)
	case isStatus(err, http.StatusNotFound):
		return fmt.Errorf("job %s: %w", jobID, entity.ErrNotFound)
	case isStatus(err, http.StatusBadRequest):
		return fmt.Errorf("%w: %v", entity.ErrBadRequest, err)
	default:
		return err
	}
}

func (c *Client) UpdateJob(ctx context.Context, jobID uuid.UUID, req entity.UpdateJobRequest) error {
	err := c.do(ctx, http.MethodPut, "/jobs/"+jobID.String(), req, nil)
	switch {
	case err == nil:
		return nil
	case isStatus(err, http.StatusNotFound):
		return fmt.Errorf("job %s: %w", jobID, entity.ErrNotFound)
	case isStatus(err, http.StatusBadRequest):
		return fmt.Errorf("%w: %v", entity.ErrBadRequest, err)
	default:
		return err
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	start := time.Now()

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("job manager %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("job manager call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
