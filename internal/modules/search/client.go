package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client queries the upstream trips API.
type Client struct {
	tripsBaseURL string
	http         *http.Client
}

func NewClient(tripsBaseURL string) *Client {
	return &Client{
		tripsBaseURL: tripsBaseURL,
		http:         &http.Client{Timeout: 20 * time.Second},
	}
}

// FetchTrips calls GET {trips}?... with a deterministic sort key and page.
func (c *Client) FetchTrips(ctx context.Context, q Query) ([]rawTrip, error) {
	passengers := q.Passengers
	if passengers <= 0 {
		passengers = 1
	}

	params := url.Values{}
	params.Set("origin_code", q.OriginCode)
	params.Set("destination_code", q.DestCode)
	params.Set("departure_date", q.DepartureDate)
	params.Set("passenger_count", strconv.Itoa(passengers))
	params.Set("vehicle_count", strconv.Itoa(q.Vehicles))
	params.Set("sort", "departureDate")
	params.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tripsBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("trips: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trips: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trips: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trips: read response: %w", err)
	}

	var envelope struct {
		Data []rawTrip `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	var rows []rawTrip
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("trips: unmarshal response: %w", err)
	}
	return rows, nil
}
