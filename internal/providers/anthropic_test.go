package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropic_Call(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("Missing or wrong x-api-key header")
		}
		if r.Header.Get("anthropic-version") != anthropicAPIVersion {
			t.Error("Missing anthropic-version header")
		}
		json.NewDecoder(r.Body).Decode(&got)

		resp := anthropicResponse{
			Content: []anthropicBlock{
				{Type: "text", Text: "Looks "},
				{Type: "tool_use"},
				{Type: "text", Text: "fine"},
			},
			Usage: anthropicUsage{InputTokens: 10, OutputTokens: 5},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := NewAnthropic(Options{APIKey: "test-key", BaseURL: server.URL, MaxTokens: 256}, server.Client())
	res := a.Call(context.Background(), "Review", "code")
	if !res.OK() {
		t.Fatalf("Call error: %s %s", res.Kind, res.Message)
	}
	if res.Text != "Looks fine" {
		t.Errorf("Text = %q, want %q", res.Text, "Looks fine")
	}
	if res.TokensUsed != 15 {
		t.Errorf("TokensUsed = %d, want 15", res.TokensUsed)
	}
	if got.MaxTokens != 256 {
		t.Errorf("max_tokens = %d, want 256", got.MaxTokens)
	}
	if got.Model != defaultAnthropicModel {
		t.Errorf("model = %q, want default", got.Model)
	}
}

func TestAnthropic_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	a := NewAnthropic(Options{APIKey: "bad-key", BaseURL: server.URL}, server.Client())
	res := a.Call(context.Background(), "test", "")
	if res.Kind != KindProviderUnavailable {
		t.Fatalf("Kind = %q, want %q", res.Kind, KindProviderUnavailable)
	}
	if res.Message == "" {
		t.Error("Expected a message describing the failure")
	}
}

func TestAnthropic_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(anthropicResponse{Content: []anthropicBlock{}})
	}))
	defer server.Close()

	a := NewAnthropic(Options{APIKey: "k", BaseURL: server.URL}, server.Client())
	res := a.Call(context.Background(), "test", "")
	if res.Kind != KindInvalidResponse {
		t.Errorf("Kind = %q, want %q", res.Kind, KindInvalidResponse)
	}
}
