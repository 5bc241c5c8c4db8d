package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint serves the public station directory.
	DefaultEndpoint = "https://www.radioknop.nl/api.php"

	requestTimeout  = 12 * time.Second
	maxPayloadBytes = 10 * 1024 * 1024
)

// FetchError wraps a network or payload-parse failure for the catalog
// source. It is fatal at startup: without a catalog there is nothing to do.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("catalog fetch: %v", e.Err)
	}
	return fmt.Sprintf("catalog fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches the raw station payload from a directory endpoint.
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
}

// NewClient creates a catalog client. An empty endpoint selects the default
// directory; the user agent is required by public directories.
func NewClient(endpoint, userAgent string) (*Client, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("user agent is required")
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:  endpoint,
		userAgent: userAgent,
		http:      &http.Client{Timeout: requestTimeout},
	}, nil
}

// Endpoint returns the directory URL this client fetches from.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch performs a single GET of the station payload and returns the raw
// bytes. Transport and HTTP-status failures come back as *FetchError.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Endpoint: c.endpoint, Err: fmt.Errorf("request failed: %s", resp.Status)}
	}

	// Cap the body to keep a malformed response from exhausting memory.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, &FetchError{Endpoint: c.endpoint, Err: err}
	}
	return data, nil
}
