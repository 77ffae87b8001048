package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel = "gemini-2.0-flash"
)

// Gemini implements Client for Google's Gemini generateContent API.
type Gemini struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

// NewGemini creates a Gemini client. BaseURL is the models collection; the
// model and method are appended per call.
func NewGemini(opts Options, client *http.Client) *Gemini {
	g := &Gemini{
		apiKey:    opts.APIKey,
		model:     opts.Model,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		maxTokens: maxTokens(opts.MaxTokens),
		client:    defaultClient(client),
	}
	if g.model == "" {
		g.model = defaultGeminiModel
	}
	if g.baseURL == "" {
		g.baseURL = defaultGeminiURL
	}
	return g
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Call(ctx context.Context, prompt, code string) Result {
	start := time.Now()
	if g.apiKey == "" {
		return finish(g.Name(), start, "", 0, missingCredential("GEMINI_API_KEY"))
	}

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
	body := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: JoinPrompt(prompt, code)}},
			},
		},
		GenerationConfig: &geminiGenConfig{MaxOutputTokens: g.maxTokens},
	}

	var result geminiResponse
	err := postJSON(ctx, g.client, url, map[string]string{
		"x-goog-api-key": g.apiKey,
	}, body, &result)
	if err != nil {
		return finish(g.Name(), start, "", 0, err)
	}

	text, ok := result.text()
	if !ok {
		return finish(g.Name(), start, "", 0, invalidResponse("no content parts in candidates"))
	}
	return finish(g.Name(), start, text, result.UsageMetadata.TotalTokenCount, nil)
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata geminiUsage       `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiUsage struct {
	TotalTokenCount int `json:"totalTokenCount"`
}

func (r geminiResponse) text() (string, bool) {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return "", false
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), b.Len() > 0
}
