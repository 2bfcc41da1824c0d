package keystone

import (
	"context"
	"fmt"
	"net/http"
)

// Ping checks that the identity endpoint answers at all. No credentials are
// presented; any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("identity endpoint unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
