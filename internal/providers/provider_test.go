package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// countingServer serves a fixed status and body and counts requests.
func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("unknown", Options{}, nil)
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestNew_GoogleAlias(t *testing.T) {
	c, err := New("google", Options{}, nil)
	if err != nil {
		t.Fatalf("New(google) error: %v", err)
	}
	if c.Name() != "gemini" {
		t.Errorf("Name() = %q, want %q", c.Name(), "gemini")
	}
}

func TestJoinPrompt(t *testing.T) {
	tests := []struct {
		prompt, code, want string
	}{
		{"Review this function", "", "Review this function"},
		{"Review this function", "   \n", "Review this function"},
		{"Review", "func f() {}", "Review\n\nfunc f() {}"},
	}
	for _, tt := range tests {
		if got := JoinPrompt(tt.prompt, tt.code); got != tt.want {
			t.Errorf("JoinPrompt(%q, %q) = %q, want %q", tt.prompt, tt.code, got, tt.want)
		}
	}
}

func TestMissingCredential_NoOutboundCall(t *testing.T) {
	server, hits := countingServer(t, 200, `{}`)

	clients := []Client{
		NewAnthropic(Options{BaseURL: server.URL}, server.Client()),
		NewOpenAI(Options{BaseURL: server.URL}, server.Client()),
		NewGemini(Options{BaseURL: server.URL}, server.Client()),
	}
	for _, c := range clients {
		res := c.Call(context.Background(), "prompt", "")
		if res.Kind != KindMissingCredential {
			t.Errorf("%s: Kind = %q, want %q", c.Name(), res.Kind, KindMissingCredential)
		}
		if res.Provider != c.Name() {
			t.Errorf("%s: Provider = %q", c.Name(), res.Provider)
		}
	}
	if n := atomic.LoadInt32(hits); n != 0 {
		t.Errorf("Expected 0 outbound calls, got %d", n)
	}
}

func TestStatusVersusParseFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{"server error", 500, `{"error":"boom"}`, KindProviderUnavailable},
		{"rate limited", 429, `{"error":"slow down"}`, KindProviderUnavailable},
		{"malformed body", 200, `not json`, KindInvalidResponse},
		{"wrong envelope", 200, `{"reply":"Looks fine"}`, KindInvalidResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := countingServer(t, tt.status, tt.body)
			clients := []Client{
				NewAnthropic(Options{APIKey: "k", BaseURL: server.URL}, server.Client()),
				NewOpenAI(Options{APIKey: "k", BaseURL: server.URL}, server.Client()),
				NewGemini(Options{APIKey: "k", BaseURL: server.URL}, server.Client()),
			}
			for _, c := range clients {
				res := c.Call(context.Background(), "prompt", "")
				if res.Kind != tt.want {
					t.Errorf("%s: Kind = %q, want %q (message: %s)", c.Name(), res.Kind, tt.want, res.Message)
				}
				if res.Text != "" {
					t.Errorf("%s: Text = %q, want empty", c.Name(), res.Text)
				}
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server, _ := countingServer(t, 200, `{}`)
	url := server.URL
	server.Close()

	o := NewOpenAI(Options{APIKey: "k", BaseURL: url}, nil)
	res := o.Call(context.Background(), "prompt", "")
	if res.Kind != KindProviderUnavailable {
		t.Errorf("Kind = %q, want %q", res.Kind, KindProviderUnavailable)
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(statusError(401, []byte("nope"))) {
		t.Error("401 should be an auth error")
	}
	if IsAuthError(statusError(500, nil)) {
		t.Error("500 should not be an auth error")
	}
	if KindOf(errors.New("plain")) != KindProviderUnavailable {
		t.Error("unclassified errors should be ProviderUnavailable")
	}
}

func TestStatusError_TruncatesBody(t *testing.T) {
	body := make([]byte, maxBodyExcerpt*2)
	for i := range body {
		body[i] = 'x'
	}
	err := statusError(502, body)
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(pe.Message) != maxBodyExcerpt+3 {
		t.Errorf("Message length = %d, want %d", len(pe.Message), maxBodyExcerpt+3)
	}
}

func TestNewSet_Order(t *testing.T) {
	set := NewSet(SetOptions{}, nil)
	if len(set) != len(Names) {
		t.Fatalf("len(set) = %d, want %d", len(set), len(Names))
	}
	for i, c := range set {
		if c.Name() != Names[i] {
			t.Errorf("set[%d] = %q, want %q", i, c.Name(), Names[i])
		}
	}
}
