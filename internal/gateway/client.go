package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// snapshotClient is the raw HTTP client for the back-office lookup endpoints.
// It knows nothing about breakers or fallbacks; every failure surfaces as an
// error for the Gateway to classify.
type snapshotClient struct {
	baseURL    string
	httpClient *http.Client
}

func newSnapshotClient(baseURL string) *snapshotClient {
	return &snapshotClient{
		baseURL: baseURL,
		// Per-call deadlines come from the breaker's call timeout; the
		// transport itself carries no extra timeout.
		httpClient: &http.Client{},
	}
}

func (c *snapshotClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("getJSON: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("getJSON: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("getJSON: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("getJSON: decode: %w", err)
	}
	return nil
}
