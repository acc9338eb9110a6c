package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteProviderReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var conv Conversation
		if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if conv.LastUserMessage() != "is there wifi on board?" {
			t.Errorf("last user message = %q", conv.LastUserMessage())
		}
		if conv.ContextSummary != "[CONTEXT: Origin: Batangas]" {
			t.Errorf("context summary = %q", conv.ContextSummary)
		}
		_, _ = w.Write([]byte(`{"message":"Most vessels do, yes!"}`))
	}))
	defer srv.Close()

	reply, err := NewRemoteProvider(srv.URL).Reply(context.Background(), Conversation{
		Messages: []Message{
			{Role: "assistant", Content: "Hi!"},
			{Role: "user", Content: "is there wifi on board?"},
		},
		Context:        map[string]string{"origin": "Batangas"},
		ContextSummary: "[CONTEXT: Origin: Batangas]",
	})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "Most vessels do, yes!" {
		t.Errorf("reply = %q", reply)
	}
}

func TestRemoteProviderErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		}},
		{"empty message", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":""}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			if _, err := NewRemoteProvider(srv.URL).Reply(context.Background(), Conversation{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
