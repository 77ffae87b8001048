package providers

import (
	"context"
	"net/http"
	"time"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o"
)

// OpenAI implements Client for OpenAI's Chat Completions API.
type OpenAI struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

// NewOpenAI creates an OpenAI client. A missing key is reported per call.
func NewOpenAI(opts Options, client *http.Client) *OpenAI {
	o := &OpenAI{
		apiKey:    opts.APIKey,
		model:     opts.Model,
		baseURL:   opts.BaseURL,
		maxTokens: maxTokens(opts.MaxTokens),
		client:    defaultClient(client),
	}
	if o.model == "" {
		o.model = defaultOpenAIModel
	}
	if o.baseURL == "" {
		o.baseURL = defaultOpenAIURL
	}
	return o
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Call(ctx context.Context, prompt, code string) Result {
	start := time.Now()
	if o.apiKey == "" {
		return finish(o.Name(), start, "", 0, missingCredential("OPENAI_API_KEY"))
	}

	body := openaiRequest{
		Model: o.model,
		Messages: []openaiMessage{
			{Role: "user", Content: JoinPrompt(prompt, code)},
		},
		MaxTokens: o.maxTokens,
	}

	var result openaiResponse
	err := postJSON(ctx, o.client, o.baseURL, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}, body, &result)
	if err != nil {
		return finish(o.Name(), start, "", 0, err)
	}

	text, ok := result.text()
	if !ok {
		return finish(o.Name(), start, "", 0, invalidResponse("no message content in choices"))
	}
	return finish(o.Name(), start, text, result.Usage.TotalTokens, nil)
}

type openaiRequest struct {
	Model     string          `json:"model"`
	Messages  []openaiMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Message *openaiMessage `json:"message"`
}

type openaiUsage struct {
	TotalTokens int `json:"total_tokens"`
}

func (r openaiResponse) text() (string, bool) {
	if len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return "", false
	}
	content := r.Choices[0].Message.Content
	return content, content != ""
}
