package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// Exercises a running API instance end to end. Skipped unless
// FERRYCHAT_API_BASE_URL points at one, e.g.
//
//	FERRYCHAT_API_BASE_URL=http://localhost:8080 go test ./tests/integration/...
func TestSessionFlowAgainstRunningAPI(t *testing.T) {
	baseURL := strings.TrimRight(os.Getenv("FERRYCHAT_API_BASE_URL"), "/")
	if baseURL == "" {
		t.Skip("FERRYCHAT_API_BASE_URL not set")
	}
	client := &http.Client{Timeout: 60 * time.Second}

	var snap struct {
		ID    string `json:"id"`
		Step  string `json:"step"`
		Turns []struct {
			Content string `json:"content"`
			Options []struct {
				Label string `json:"label"`
				Value string `json:"value"`
			} `json:"options"`
		} `json:"turns"`
	}

	resp := post(t, client, baseURL+"/api/sessions", map[string]any{"tenantId": 1})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	decode(t, resp, &snap)
	if snap.ID == "" || snap.Step != "origin" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Turns) == 0 {
		t.Fatal("no greeting turn")
	}

	// Walk the guided flow as far as the live catalog allows.
	last := snap.Turns[len(snap.Turns)-1]
	if len(last.Options) == 0 {
		t.Log("no origin ports offered; catalog empty or upstream down")
		return
	}
	opt := last.Options[0]
	resp = post(t, client, fmt.Sprintf("%s/api/sessions/%s/quick-replies", baseURL, snap.ID),
		map[string]any{"value": opt.Value, "label": opt.Label})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("quick-reply status = %d", resp.StatusCode)
	}
	decode(t, resp, &snap)
	if snap.Step != "destination" {
		t.Errorf("step after origin = %q", snap.Step)
	}

	resp = post(t, client, fmt.Sprintf("%s/api/sessions/%s/text", baseURL, snap.ID),
		map[string]any{"text": "what routes do you serve?"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("text status = %d", resp.StatusCode)
	}
	decode(t, resp, &snap)
	if got := snap.Turns[len(snap.Turns)-1].Content; got == "" {
		t.Error("empty assistant reply")
	}
}

func post(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
