package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// LiveClient fetches the live snapshot the poller renders.
type LiveClient interface {
	FetchLive(ctx context.Context) ([]LiveRecord, error)
}

// HTTPLiveClient fetches live records from a JSON endpoint. It performs a
// single attempt per call: the poll cycle itself is the retry mechanism, so
// no backoff is layered underneath it.
type HTTPLiveClient struct {
	client   *http.Client
	endpoint string
}

// NewHTTPLiveClient creates a live client for the given endpoint URL.
func NewHTTPLiveClient(client *http.Client, endpoint string) *HTTPLiveClient {
	return &HTTPLiveClient{client: client, endpoint: endpoint}
}

// FetchLive issues a single GET and decodes the response array. An empty
// array is a valid result, distinct from an error.
func (c *HTTPLiveClient) FetchLive(ctx context.Context) ([]LiveRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live endpoint returned status %d", resp.StatusCode)
	}

	var records []LiveRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode live response: %w", err)
	}
	return records, nil
}
