package providers

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	anthropicAPIVersion   = "2023-06-01"
)

// Anthropic implements Client for Anthropic's Messages API.
type Anthropic struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

// NewAnthropic creates an Anthropic client. A missing key is reported per
// call.
func NewAnthropic(opts Options, client *http.Client) *Anthropic {
	a := &Anthropic{
		apiKey:    opts.APIKey,
		model:     opts.Model,
		baseURL:   opts.BaseURL,
		maxTokens: maxTokens(opts.MaxTokens),
		client:    defaultClient(client),
	}
	if a.model == "" {
		a.model = defaultAnthropicModel
	}
	if a.baseURL == "" {
		a.baseURL = defaultAnthropicURL
	}
	return a
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Call(ctx context.Context, prompt, code string) Result {
	start := time.Now()
	if a.apiKey == "" {
		return finish(a.Name(), start, "", 0, missingCredential("ANTHROPIC_API_KEY"))
	}

	body := anthropicRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: JoinPrompt(prompt, code)},
		},
	}

	var result anthropicResponse
	err := postJSON(ctx, a.client, a.baseURL, map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}, body, &result)
	if err != nil {
		return finish(a.Name(), start, "", 0, err)
	}

	text, ok := result.text()
	if !ok {
		return finish(a.Name(), start, "", 0, invalidResponse("no text blocks in content"))
	}
	return finish(a.Name(), start, text, result.Usage.InputTokens+result.Usage.OutputTokens, nil)
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
	Usage   anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// text concatenates the text blocks; tool_use and other block types are
// skipped.
func (r anthropicResponse) text() (string, bool) {
	var b strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), b.Len() > 0
}
