package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteProvider implements Assistant against an external conversational
// endpoint that owns its own model. The wire contract is
// POST {messages, context, contextSummary} -> {message}.
type RemoteProvider struct {
	url    string
	client *http.Client
}

func NewRemoteProvider(url string) *RemoteProvider {
	return &RemoteProvider{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type remoteResponse struct {
	Message string `json:"message"`
}

func (p *RemoteProvider) Reply(ctx context.Context, conv Conversation) (string, error) {
	body, err := json.Marshal(conv)
	if err != nil {
		return "", fmt.Errorf("remote assistant: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("remote assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("remote assistant: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("remote assistant: unexpected status %s", resp.Status)
	}

	var rr remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("remote assistant: unmarshal response: %w", err)
	}
	if rr.Message == "" {
		return "", fmt.Errorf("remote assistant: empty message in response")
	}
	return rr.Message, nil
}
