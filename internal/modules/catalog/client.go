package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches tenant routes from the upstream routes API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchRoutes calls GET {baseURL}?tenantId=N. The upstream sometimes wraps the
// array in a {"data": [...]} envelope; both shapes are accepted.
func (c *Client) FetchRoutes(ctx context.Context, tenantID int64) ([]Route, error) {
	url := fmt.Sprintf("%s?tenantId=%d", c.baseURL, tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("routes: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routes: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routes: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("routes: read response: %w", err)
	}
	return decodeRoutes(body)
}

func decodeRoutes(body []byte) ([]Route, error) {
	var envelope struct {
		Data []Route `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var routes []Route
	if err := json.Unmarshal(body, &routes); err != nil {
		return nil, fmt.Errorf("routes: unmarshal response: %w", err)
	}
	return routes, nil
}
