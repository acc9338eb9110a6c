package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client fetches candidate departure dates from the trips API.
type Client struct {
	tripsBaseURL string
	http         *http.Client
}

func NewClient(tripsBaseURL string) *Client {
	return &Client{
		tripsBaseURL: tripsBaseURL,
		http:         &http.Client{Timeout: 15 * time.Second},
	}
}

type rawDate struct {
	Date      string `json:"date"`
	TripCount int    `json:"trip_count"`
}

// FetchAvailableDates calls GET {trips}/available-dates for one route.
func (c *Client) FetchAvailableDates(ctx context.Context, originCode, destCode string, limit int) ([]rawDate, error) {
	url := fmt.Sprintf("%s/available-dates?origin_code=%s&destination_code=%s&limit=%d",
		c.tripsBaseURL, originCode, destCode, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("available-dates: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("available-dates: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("available-dates: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("available-dates: read response: %w", err)
	}

	var envelope struct {
		Data []rawDate `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	var dates []rawDate
	if err := json.Unmarshal(body, &dates); err != nil {
		return nil, fmt.Errorf("available-dates: unmarshal response: %w", err)
	}
	return dates, nil
}
