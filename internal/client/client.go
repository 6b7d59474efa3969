// Package client is a thin HTTP client for the activity API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// ErrTransport wraps failures to reach the API at all.
var ErrTransport = errors.New("activity api unreachable")

// ErrMalformed wraps responses whose body could not be decoded.
var ErrMalformed = errors.New("malformed activity api response")

// APIError is a non-2xx answer. Detail is the server's "detail" field and
// may be empty when the body carried none.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("activity api: status %d", e.Status)
	}
	return fmt.Sprintf("activity api: status %d: %s", e.Status, e.Detail)
}

// Client calls the activity API rooted at a base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL (for example "http://localhost:8080").
// A nil httpClient means http.DefaultClient, which applies no timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Activities fetches the whole collection.
func (c *Client) Activities(ctx context.Context) (model.ActivityCollection, error) {
	var out model.ActivityCollection
	if err := c.do(ctx, "list", http.MethodGet, "/activities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Signup registers email for activity and returns the server's message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, "signup", activity, email)
}

// Unregister removes email from activity and returns the server's message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, "unregister", activity, email)
}

// MutationPath builds /activities/{activity}/{action}?email={email} with
// both values percent-encoded.
func MutationPath(activity, action, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action + "?email=" + url.QueryEscape(email)
}

func (c *Client) mutate(ctx context.Context, action, activity, email string) (string, error) {
	var resp model.MessageResponse
	if err := c.do(ctx, action, http.MethodPost, MutationPath(activity, action, email), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.TrackClientCall(op, outcome(err), time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e model.ErrorResponse
		_ = json.Unmarshal(body, &e)
		return &APIError{Status: res.StatusCode, Detail: e.Detail}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}

// Detail returns the server-supplied detail carried by err, or fallback
// when there is none.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
