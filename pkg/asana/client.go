// Package asana is a read-only client for the Asana REST API, covering the
// three endpoints the exporter needs: task metadata, stories, and subtask
// listings.
package asana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/asanadoc/asanadoc/pkg/model"
)

// DefaultBaseURL is the production Asana API root.
const DefaultBaseURL = "https://app.asana.com/api/1.0"

// Asana's free tier allows 150 requests per minute per token; one request
// every 400ms stays inside that budget.
const requestInterval = 400 * time.Millisecond

var (
	// ErrUnauthorized means the access token was rejected.
	ErrUnauthorized = errors.New("asana: invalid or expired access token")
	// ErrNotFound means the task does not exist or the token cannot see it.
	ErrNotFound = errors.New("asana: task not found or not accessible")
	// ErrRateLimited means Asana throttled the request; retry later.
	ErrRateLimited = errors.New("asana: rate limited")
)

// StatusError reports a non-2xx response not covered by the sentinel errors.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("asana: request failed with status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("asana: request failed with status %d", e.Code)
}

// Client fetches typed resources from the Asana API. A client-side rate
// limiter spaces requests so a long ingestion never trips the API's
// per-token limit.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the production API using the given
// bearer token.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against an alternate API root,
// mainly for tests.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// GetTask fetches the metadata of a single task.
func (c *Client) GetTask(ctx context.Context, gid string) (*model.Task, error) {
	q := url.Values{"opt_fields": {"name,notes,assignee.name,due_on,completed,permalink_url"}}
	var res taskResource
	if err := c.get(ctx, "/tasks/"+gid, q, &res); err != nil {
		return nil, err
	}
	return res.toModel(), nil
}

// GetStories fetches a task's activity entries in API order. No filtering
// happens here; callers decide which subtypes they care about.
func (c *Client) GetStories(ctx context.Context, gid string) ([]model.Activity, error) {
	q := url.Values{"opt_fields": {"text,created_at,created_by.name,resource_subtype"}}
	var res []storyResource
	if err := c.get(ctx, "/tasks/"+gid+"/stories", q, &res); err != nil {
		return nil, err
	}
	activities := make([]model.Activity, 0, len(res))
	for i := range res {
		activities = append(activities, res[i].toModel())
	}
	return activities, nil
}

// GetSubtasks fetches the shallow listing of a task's direct subtasks,
// in list order.
func (c *Client) GetSubtasks(ctx context.Context, gid string) ([]model.TaskRef, error) {
	q := url.Values{"opt_fields": {"name"}}
	var res []taskRefResource
	if err := c.get(ctx, "/tasks/"+gid+"/subtasks", q, &res); err != nil {
		return nil, err
	}
	refs := make([]model.TaskRef, 0, len(res))
	for _, r := range res {
		refs = append(refs, model.TaskRef{GID: r.GID, Name: r.Name})
	}
	return refs, nil
}

// envelope is Asana's standard response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("asana: building request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asana: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("asana: decoding response for %s: %w", path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("asana: decoding resource for %s: %w", path, err)
	}
	return nil
}

// statusError maps an HTTP failure onto the client's error taxonomy.
func statusError(resp *http.Response) error {
	msg := apiMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden, http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

// apiMessage pulls the first error message out of an Asana error body,
// best effort.
func apiMessage(r io.Reader) string {
	var body errorBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	if len(body.Errors) == 0 {
		return ""
	}
	return body.Errors[0].Message
}
