package providers

import "net/http"

// Credentials holds one API key per provider, read once at startup.
type Credentials struct {
	Anthropic string
	OpenAI    string
	Gemini    string
}

// Settings holds non-secret per-provider configuration.
type Settings struct {
	Model   string
	BaseURL string
}

// SetOptions configures NewSet.
type SetOptions struct {
	Credentials Credentials
	Anthropic   Settings
	OpenAI      Settings
	Gemini      Settings
	MaxTokens   int
}

// NewSet builds every supported client in registration order. Clients with
// no credential are still returned; their calls fail with
// MissingCredential.
func NewSet(opts SetOptions, client *http.Client) []Client {
	return []Client{
		NewAnthropic(Options{
			APIKey:    opts.Credentials.Anthropic,
			Model:     opts.Anthropic.Model,
			BaseURL:   opts.Anthropic.BaseURL,
			MaxTokens: opts.MaxTokens,
		}, client),
		NewOpenAI(Options{
			APIKey:    opts.Credentials.OpenAI,
			Model:     opts.OpenAI.Model,
			BaseURL:   opts.OpenAI.BaseURL,
			MaxTokens: opts.MaxTokens,
		}, client),
		NewGemini(Options{
			APIKey:    opts.Credentials.Gemini,
			Model:     opts.Gemini.Model,
			BaseURL:   opts.Gemini.BaseURL,
			MaxTokens: opts.MaxTokens,
		}, client),
	}
}
