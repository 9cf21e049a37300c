package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/clubstack/backoffice/pkg/monitoring"
)

// ErrOrderNotFound is returned when the gateway reports 404 for an order id.
// Callers treat it as a recoverable per-transaction issue, not a run failure.
var ErrOrderNotFound = errors.New("order not found")

// ErrProfileNotFound is returned when no customer profile matches an email
var ErrProfileNotFound = errors.New("profile not found")

// RequestError is a non-2xx gateway response, carrying enough of the failed
// exchange to attach to an issue or abort the run.
type RequestError struct {
	URL    string
	Status int
	Body   string
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("commerce gateway request failed: %s returned %d: %s", e.URL, e.Status, e.Body)
}

// Client talks to the commerce platform's REST API with a bearer token.
// All list endpoints are cursor-paginated via nextPageUrl.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a gateway client authenticated with a static bearer token
func NewClient(baseURL string, apiToken string) *Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiToken})

	return &Client{
		BaseURL: baseURL,
		Client:  oauth2.NewClient(context.Background(), source),
	}
}

// getJSON performs one GET and decodes the response body into dest.
// A non-2xx status becomes a *RequestError with the body preserved.
func (c *Client) getJSON(ctx context.Context, url string, operation string, dest interface{}) error {
	start := time.Now()
	err := c.doGetJSON(ctx, url, dest)
	monitoring.RecordExternalCall(ctx, "commerce", operation, time.Since(start), err)
	return err
}

func (c *Client) doGetJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &RequestError{URL: url, Status: res.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
