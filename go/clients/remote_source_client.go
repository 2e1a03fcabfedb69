package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RemoteSourceClient reads the spreadsheet-backed scoreboard snapshot.
type RemoteSourceClient struct {
	*BaseClient
}

// NewRemoteSourceClient creates a client for the snapshot at url. Every
// request asks intermediaries not to serve a cached copy.
func NewRemoteSourceClient(url string, httpClient *http.Client) *RemoteSourceClient {
	client := &RemoteSourceClient{
		BaseClient: NewBaseClient(url, httpClient),
	}

	client.SetHeader("Cache-Control", "no-cache, no-store")
	client.SetHeader("Pragma", "no-cache")
	client.SetHeader("Accept", "application/json")

	return client
}

// FetchSnapshot fetches the remote document and decodes it into generic JSON
// values. The shape is left to the caller.
func (c *RemoteSourceClient) FetchSnapshot(ctx context.Context) (any, error) {
	body, err := c.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote snapshot: %w", err)
	}

	var snapshot any
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode remote snapshot: %w", err)
	}
	return snapshot, nil
}
