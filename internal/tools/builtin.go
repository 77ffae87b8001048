package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/chorus/internal/providers"
	"github.com/dshills/chorus/internal/redact"
	"github.com/dshills/chorus/internal/review"
)

// MultiReviewTool is the name of the aggregate review tool.
const MultiReviewTool = "multi_ai_review"

// AskToolName returns the single-provider tool name for a provider.
func AskToolName(provider string) string {
	return "ask_" + provider
}

// InputPolicy prepares user-supplied code before any provider sees it.
type InputPolicy struct {
	MaxInputBytes int
	RedactSecrets bool
	Logger        *slog.Logger
}

// Apply redacts then truncates code.
func (p InputPolicy) Apply(code string) string {
	if code == "" {
		return code
	}
	if p.RedactSecrets {
		var counts map[string]int
		code, counts = redact.Scan(code)
		if len(counts) > 0 && p.Logger != nil {
			p.Logger.Info("redacted secrets from input", "matches", counts)
		}
	}
	return review.Truncate(code, p.MaxInputBytes)
}

var providerTitles = map[string]string{
	"anthropic": "Anthropic Claude",
	"openai":    "OpenAI GPT",
	"gemini":    "Google Gemini",
}

func askDefinition(provider string) ToolDefinition {
	title := providerTitles[provider]
	if title == "" {
		title = provider
	}
	return ToolDefinition{
		Name:        AskToolName(provider),
		Description: fmt.Sprintf("Ask %s a question, optionally about a piece of code, and return its answer.", title),
		Params: ParameterSpec{
			"prompt": {Type: TypeString, Description: "The question or instruction to send", Required: true},
			"code":   {Type: TypeString, Description: "Optional code to include as context"},
		},
	}
}

func reviewDefinition(members []review.Member) ToolDefinition {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Client.Name()
	}
	return ToolDefinition{
		Name: MultiReviewTool,
		Description: fmt.Sprintf("Review code with several AI models in parallel (%s) and return one section per model.",
			strings.Join(names, ", ")),
		Params: ParameterSpec{
			"code": {Type: TypeString, Description: "The code to review", Required: true},
			"focus": {
				Type:        TypeString,
				Description: "Review focus",
				Enum:        review.FocusNames(),
				Default:     string(review.FocusAll),
			},
		},
	}
}

// Builtin returns the static tool table: one ask tool per client, in client
// order, followed by the multi-provider review.
func Builtin(clients []providers.Client, agg *review.Aggregator, policy InputPolicy) []Entry {
	entries := make([]Entry, 0, len(clients)+1)
	for _, c := range clients {
		entries = append(entries, Entry{
			Definition: askDefinition(c.Name()),
			Handler:    askHandler(c, policy),
		})
	}
	entries = append(entries, Entry{
		Definition: reviewDefinition(agg.Members()),
		Handler:    reviewHandler(agg, policy),
	})
	return entries
}

func askHandler(c providers.Client, policy InputPolicy) Handler {
	return func(ctx context.Context, args Args) Result {
		res := c.Call(ctx, args["prompt"], policy.Apply(args["code"]))
		if !res.OK() {
			return Result{
				Kind: res.Kind,
				Text: fmt.Sprintf("%s error [%s]: %s", res.Provider, res.Kind, res.Message),
			}
		}
		return Result{Text: res.Text}
	}
}

func reviewHandler(agg *review.Aggregator, policy InputPolicy) Handler {
	return func(ctx context.Context, args Args) Result {
		focus, err := review.ParseFocus(args["focus"])
		if err != nil {
			return Result{Kind: KindInvalidArguments, Text: err.Error()}
		}
		report := agg.Review(ctx, policy.Apply(args["code"]), focus)
		res := Result{Text: report.Render()}
		if report.Succeeded() == 0 && len(report.Sections) > 0 {
			// Every section failed; report the first kind.
			res.Kind = report.Sections[0].Kind
		}
		return res
	}
}

// ReviewReport runs the aggregate review directly, for callers that want the
// structured report instead of rendered text.
func ReviewReport(ctx context.Context, agg *review.Aggregator, policy InputPolicy, code string, focus review.Focus) *review.CompositeReport {
	return agg.Review(ctx, policy.Apply(code), focus)
}
