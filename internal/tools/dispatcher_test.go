package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/chorus/internal/providers"
	"github.com/dshills/chorus/internal/review"
)

// stubProvider serves one provider's success envelope after a delay and
// records the prompts it received.
type stubProvider struct {
	server *httptest.Server
	hits   int32
	delay  atomic.Int64
	last   atomic.Value
}

func newStub(t *testing.T, provider, reply string) *stubProvider {
	t.Helper()
	s := &stubProvider{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.hits, 1)
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		s.last.Store(body)
		time.Sleep(time.Duration(s.delay.Load()))

		switch provider {
		case "anthropic":
			fmt.Fprintf(w, `{"content":[{"type":"text","text":%q}]}`, reply)
		case "openai":
			fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, reply)
		case "gemini":
			fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, reply)
		}
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubProvider) calls() int32 { return atomic.LoadInt32(&s.hits) }

func (s *stubProvider) setDelay(d time.Duration) { s.delay.Store(int64(d)) }

type harness struct {
	stubs      map[string]*stubProvider
	dispatcher *Dispatcher
}

func newHarness(t *testing.T, creds providers.Credentials, policy InputPolicy) *harness {
	t.Helper()
	h := &harness{stubs: map[string]*stubProvider{}}
	for _, name := range providers.Names {
		h.stubs[name] = newStub(t, name, name+" reply")
	}
	clients := providers.NewSet(providers.SetOptions{
		Credentials: creds,
		Anthropic:   providers.Settings{BaseURL: h.stubs["anthropic"].server.URL},
		OpenAI:      providers.Settings{BaseURL: h.stubs["openai"].server.URL},
		Gemini:      providers.Settings{BaseURL: h.stubs["gemini"].server.URL},
		MaxTokens:   128,
	}, nil)
	agg := review.NewAggregator(review.MembersFor(clients), nil)
	reg, err := NewRegistry(Builtin(clients, agg, policy)...)
	require.NoError(t, err)
	h.dispatcher = NewDispatcher(reg, nil, nil)
	return h
}

func (h *harness) totalCalls() int32 {
	var n int32
	for _, s := range h.stubs {
		n += s.calls()
	}
	return n
}

var allCreds = providers.Credentials{Anthropic: "a-key", OpenAI: "o-key", Gemini: "g-key"}

func TestBuiltin_ToolTable(t *testing.T) {
	h := newHarness(t, allCreds, InputPolicy{})
	defs := h.dispatcher.Registry().List()

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"ask_anthropic", "ask_openai", "ask_gemini", "multi_ai_review"}, names)

	focus := defs[3].Params["focus"]
	assert.Equal(t, []string{"architecture", "security", "quality", "all"}, focus.Enum)
	assert.Equal(t, "all", focus.Default)
	assert.True(t, defs[3].Params["code"].Required)
	assert.True(t, defs[0].Params["prompt"].Required)
	assert.False(t, defs[0].Params["code"].Required)
}

func TestInvoke_UnknownTool(t *testing.T) {
	h := newHarness(t, allCreds, InputPolicy{})
	res := h.dispatcher.Invoke(context.Background(), Request{Tool: "ask_nobody", Arguments: map[string]any{"prompt": "hi"}})

	assert.Equal(t, KindUnknownTool, res.Kind)
	assert.Contains(t, res.Text, "ask_nobody")
	assert.Equal(t, int32(0), h.totalCalls())
}

func TestInvoke_MissingCredential(t *testing.T) {
	h := newHarness(t, providers.Credentials{}, InputPolicy{})
	for _, name := range providers.Names {
		res := h.dispatcher.Invoke(context.Background(), Request{
			Tool:      AskToolName(name),
			Arguments: map[string]any{"prompt": "hi"},
		})
		assert.Equal(t, providers.KindMissingCredential, res.Kind, name)
	}
	assert.Equal(t, int32(0), h.totalCalls())
}

func TestInvoke_AskExample(t *testing.T) {
	openai := newStub(t, "openai", "Looks fine")
	clients := []providers.Client{
		providers.NewOpenAI(providers.Options{APIKey: "k", BaseURL: openai.server.URL}, nil),
	}
	reg, err := NewRegistry(Builtin(clients, review.NewAggregator(review.MembersFor(clients), nil), InputPolicy{})...)
	require.NoError(t, err)

	res := NewDispatcher(reg, nil, nil).Invoke(context.Background(), Request{
		Tool:      "ask_openai",
		Arguments: map[string]any{"prompt": "Review this function"},
	})
	require.False(t, res.IsError(), res.Text)
	assert.Equal(t, "Looks fine", res.Text)
	assert.Equal(t, "ask_openai", res.Tool)

	body := openai.last.Load().(map[string]any)
	msgs := body["messages"].([]any)
	assert.Equal(t, "Review this function", msgs[0].(map[string]any)["content"])
	assert.EqualValues(t, providers.DefaultMaxTokens, body["max_tokens"])
}

func TestInvoke_Validation(t *testing.T) {
	h := newHarness(t, allCreds, InputPolicy{})
	ctx := context.Background()

	res := h.dispatcher.Invoke(ctx, Request{Tool: "ask_gemini", Arguments: map[string]any{"code": "x"}})
	assert.Equal(t, KindInvalidArguments, res.Kind)
	assert.Contains(t, res.Text, "prompt")

	res = h.dispatcher.Invoke(ctx, Request{Tool: "ask_gemini", Arguments: map[string]any{"prompt": "   "}})
	assert.Equal(t, KindInvalidArguments, res.Kind)

	res = h.dispatcher.Invoke(ctx, Request{Tool: "multi_ai_review", Arguments: map[string]any{"code": "x", "focus": "style"}})
	assert.Equal(t, KindInvalidArguments, res.Kind)
	assert.Contains(t, res.Text, "style")

	res = h.dispatcher.Invoke(ctx, Request{Tool: "ask_gemini", Arguments: map[string]any{"prompt": map[string]any{"a": 1}}})
	assert.Equal(t, KindInvalidArguments, res.Kind)

	assert.Equal(t, int32(0), h.totalCalls())

	res = h.dispatcher.Invoke(ctx, Request{Tool: "ask_gemini", Arguments: map[string]any{"prompt": "hi", "temperature": 0.2}})
	assert.False(t, res.IsError(), "unknown arguments must be ignored: %s", res.Text)
}

func TestInvoke_ValidArgumentsAlwaysPass(t *testing.T) {
	spec := reviewDefinition(nil).Params
	for _, focus := range append(review.FocusNames(), "SECURITY", "") {
		_, err := spec.Validate(map[string]any{"code": "x", "focus": focus})
		assert.NoError(t, err, "focus %q", focus)
	}
	args, err := spec.Validate(map[string]any{"code": "x"})
	require.NoError(t, err)
	assert.Equal(t, "all", args["focus"])

	ask := askDefinition("openai").Params
	args, err = ask.Validate(map[string]any{"prompt": 42, "extra": true})
	require.NoError(t, err)
	assert.Equal(t, "42", args["prompt"])
	_, hasExtra := args["extra"]
	assert.False(t, hasExtra)
}

func TestInvoke_MultiReviewPartialFailureOrdered(t *testing.T) {
	creds := providers.Credentials{Anthropic: "a-key", Gemini: "g-key"}
	h := newHarness(t, creds, InputPolicy{})

	for run := 0; run < 5; run++ {
		for _, s := range h.stubs {
			s.setDelay(time.Duration(rand.Intn(30)) * time.Millisecond)
		}
		res := h.dispatcher.Invoke(context.Background(), Request{
			Tool:      "multi_ai_review",
			Arguments: map[string]any{"code": "func f() {}", "focus": "security"},
		})
		require.False(t, res.IsError(), res.Text)

		assert.Equal(t, 3, strings.Count(res.Text, "\n## "))
		a := strings.Index(res.Text, "## anthropic")
		o := strings.Index(res.Text, "## openai")
		g := strings.Index(res.Text, "## gemini")
		require.True(t, a >= 0 && o >= 0 && g >= 0, res.Text)
		assert.True(t, a < o && o < g, "sections out of order:\n%s", res.Text)

		assert.Contains(t, res.Text, "anthropic reply")
		assert.Contains(t, res.Text, "gemini reply")
		assert.Contains(t, res.Text, "[MissingCredential]")
	}
	assert.Equal(t, int32(0), h.stubs["openai"].calls())
}

func TestInvoke_MultiReviewJoinAll(t *testing.T) {
	h := newHarness(t, allCreds, InputPolicy{})
	h.stubs["anthropic"].setDelay(100 * time.Millisecond)
	h.stubs["openai"].setDelay(200 * time.Millisecond)
	h.stubs["gemini"].setDelay(300 * time.Millisecond)

	start := time.Now()
	res := h.dispatcher.Invoke(context.Background(), Request{
		Tool:      "multi_ai_review",
		Arguments: map[string]any{"code": "func f() {}"},
	})
	elapsed := time.Since(start)

	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "openai reply")
	assert.GreaterOrEqual(t, elapsed, 300*time.Millisecond)
	assert.LessOrEqual(t, elapsed, 450*time.Millisecond)
}

func TestInvoke_MultiReviewAllFailed(t *testing.T) {
	h := newHarness(t, providers.Credentials{}, InputPolicy{})
	res := h.dispatcher.Invoke(context.Background(), Request{
		Tool:      "multi_ai_review",
		Arguments: map[string]any{"code": "x"},
	})
	assert.Equal(t, providers.KindMissingCredential, res.Kind)
	assert.Equal(t, 3, strings.Count(res.Text, "[MissingCredential]"))
}

func TestInvoke_InputPolicy(t *testing.T) {
	h := newHarness(t, allCreds, InputPolicy{MaxInputBytes: 40, RedactSecrets: true})
	code := `key := "sk-ant-REDACTED"` + strings.Repeat("\n// padding", 20)

	res := h.dispatcher.Invoke(context.Background(), Request{
		Tool:      "ask_anthropic",
		Arguments: map[string]any{"prompt": "check", "code": code},
	})
	require.False(t, res.IsError(), res.Text)

	body := h.stubs["anthropic"].last.Load().(map[string]any)
	sent := body["messages"].([]any)[0].(map[string]any)["content"].(string)
	assert.NotContains(t, sent, "sk-ant-")
	assert.Contains(t, sent, "[REDACTED]")
	assert.Contains(t, sent, "[truncated")
	assert.True(t, strings.HasPrefix(sent, "check\n\n"))
}

func TestInvoke_HandlerPanic(t *testing.T) {
	reg, err := NewRegistry(
		Entry{
			Definition: ToolDefinition{Name: "explode", Params: ParameterSpec{}},
			Handler:    func(context.Context, Args) Result { panic("kaboom") },
		},
		Entry{
			Definition: ToolDefinition{Name: "fine", Params: ParameterSpec{}},
			Handler:    func(context.Context, Args) Result { return Result{Text: "ok"} },
		},
	)
	require.NoError(t, err)
	d := NewDispatcher(reg, nil, nil)

	res := d.Invoke(context.Background(), Request{Tool: "explode"})
	assert.Equal(t, KindHandlerFailure, res.Kind)
	assert.Contains(t, res.Text, "kaboom")

	res = d.Invoke(context.Background(), Request{Tool: "fine"})
	assert.False(t, res.IsError())
	assert.Equal(t, "ok", res.Text)
}

func TestNewRegistry_Errors(t *testing.T) {
	noop := func(context.Context, Args) Result { return Result{} }

	_, err := NewRegistry(
		Entry{Definition: ToolDefinition{Name: "a"}, Handler: noop},
		Entry{Definition: ToolDefinition{Name: "a"}, Handler: noop},
	)
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewRegistry(Entry{Definition: ToolDefinition{Name: "b"}})
	assert.ErrorContains(t, err, "no handler")

	_, err = NewRegistry(Entry{Handler: noop})
	assert.Error(t, err)

	reg, err := NewRegistry(Entry{Definition: ToolDefinition{Name: "c"}, Handler: noop})
	require.NoError(t, err)
	_, ok := reg.Resolve("c")
	assert.True(t, ok)
	_, ok = reg.Resolve("d")
	assert.False(t, ok)
}

func TestParameterSpec_Names(t *testing.T) {
	spec := ParameterSpec{
		"zeta":  {Type: TypeString},
		"alpha": {Type: TypeString},
		"code":  {Type: TypeString, Required: true},
	}
	assert.Equal(t, []string{"code", "alpha", "zeta"}, spec.Names())
}
