package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HostClient posts bridge messages to the page or app embedding the dashboard.
type HostClient struct {
	url        string
	httpClient *http.Client
}

// NewHostClient creates a client targeting the given webhook URL.
func NewHostClient(url string, timeout time.Duration) *HostClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HostClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL returns the webhook target.
func (c *HostClient) URL() string {
	return c.url
}

// PostMessage sends a bridge message.
// POST {url} with {"message": "region_clicked:Kayanza"} -> any 2xx
func (c *HostClient) PostMessage(ctx context.Context, message string) error {
	jsonData, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach host: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("host returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
