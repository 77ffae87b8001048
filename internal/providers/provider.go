package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies why a call produced no text. The empty kind means
// success.
type ErrorKind string

const (
	KindMissingCredential   ErrorKind = "MissingCredential"
	KindProviderUnavailable ErrorKind = "ProviderUnavailable"
	KindInvalidResponse     ErrorKind = "InvalidResponse"
)

// DefaultMaxTokens caps generated length when the caller passes zero.
const DefaultMaxTokens = 4096

// Result is the outcome of one provider call. Exactly one of Text or Kind
// is set.
type Result struct {
	Provider   string        `json:"provider"`
	Role       string        `json:"role,omitempty"`
	Text       string        `json:"text,omitempty"`
	Kind       ErrorKind     `json:"errorKind,omitempty"`
	Message    string        `json:"message,omitempty"`
	TokensUsed int           `json:"tokensUsed,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
}

// OK reports whether the call produced text.
func (r Result) OK() bool { return r.Kind == "" }

// Client is one upstream chat-completion backend.
type Client interface {
	Name() string
	Call(ctx context.Context, prompt, code string) Result
}

// Options holds per-provider settings supplied by configuration.
type Options struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// JoinPrompt appends code to prompt separated by a blank line.
func JoinPrompt(prompt, code string) string {
	if strings.TrimSpace(code) == "" {
		return prompt
	}
	return prompt + "\n\n" + code
}

// Names lists the supported providers in registration order.
var Names = []string{"anthropic", "openai", "gemini"}

// New creates a provider client by name.
func New(provider string, opts Options, client *http.Client) (Client, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(opts, client), nil
	case "openai":
		return NewOpenAI(opts, client), nil
	case "gemini", "google":
		return NewGemini(opts, client), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// finish converts a client-side error into a Result. Errors never escape a
// Client.
func finish(name string, start time.Time, text string, tokens int, err error) Result {
	r := Result{Provider: name, Elapsed: time.Since(start)}
	if err != nil {
		r.Kind = KindOf(err)
		r.Message = err.Error()
		return r
	}
	r.Text = text
	r.TokensUsed = tokens
	return r
}

func maxTokens(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}
