package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultRequestTimeout bounds a schema fetch when the caller's context
// carries no deadline of its own.
const defaultRequestTimeout = 15 * time.Second

// HTTPStore retrieves schema documents over HTTP with a plain GET. A
// non-success response fails with the transport's status text; there are
// no retries.
type HTTPStore struct {
	client *http.Client
}

// NewHTTPStore creates a store using the given client. A nil client gets
// a default with a request timeout.
func NewHTTPStore(client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPStore{client: client}
}

// Resolve fetches the textual content of the schema at url.
func (s *HTTPStore) Resolve(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("schema request %s: %w", url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("schema request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("schema request %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("schema request %s: %w", url, err)
	}
	return string(body), nil
}
