package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/chorus/internal/providers"
	"github.com/dshills/chorus/internal/telemetry"
)

// Dispatcher-level error kinds. Provider kinds pass through unchanged.
const (
	KindUnknownTool      providers.ErrorKind = "UnknownTool"
	KindInvalidArguments providers.ErrorKind = "InvalidArguments"
	KindHandlerFailure   providers.ErrorKind = "HandlerFailure"
)

// Request is one inbound tool call.
type Request struct {
	Tool      string
	Arguments map[string]any
}

// Result is the normalized outcome of a tool call. Errors are data: Text
// always holds something the caller can show.
type Result struct {
	Tool string              `json:"tool"`
	Text string              `json:"text"`
	Kind providers.ErrorKind `json:"errorKind,omitempty"`
}

// IsError reports whether the call failed.
func (r Result) IsError() bool { return r.Kind != "" }

// Dispatcher resolves, validates and runs tool calls.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	observer *telemetry.Observer
}

// NewDispatcher creates a Dispatcher. logger and observer may be nil.
func NewDispatcher(registry *Registry, logger *slog.Logger, observer *telemetry.Observer) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{registry: registry, logger: logger, observer: observer}
}

// Registry returns the tool table the dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Invoke runs one tool call. It never panics and never returns a Go error;
// every failure is reported in the Result.
func (d *Dispatcher) Invoke(ctx context.Context, req Request) (res Result) {
	id := uuid.NewString()
	start := time.Now()
	log := d.logger.With("tool", req.Tool, "invocation", id)

	defer func() {
		elapsed := time.Since(start)
		d.observer.ObserveInvoke(ctx, telemetry.InvokeObservation{
			Tool:         req.Tool,
			InvocationID: id,
			Kind:         string(res.Kind),
			Start:        start,
			Duration:     elapsed,
		})
		if res.IsError() {
			log.Warn("tool failed", "kind", res.Kind, "elapsed", elapsed, "error", res.Text)
			return
		}
		log.Info("tool completed", "elapsed", elapsed, "bytes", len(res.Text))
	}()

	entry, ok := d.registry.Resolve(req.Tool)
	if !ok {
		return failure(req.Tool, KindUnknownTool, fmt.Sprintf("unknown tool: %s", req.Tool))
	}

	args, err := entry.Definition.Params.Validate(req.Arguments)
	if err != nil {
		return failure(req.Tool, KindInvalidArguments, fmt.Sprintf("invalid arguments for %s: %v", req.Tool, err))
	}

	log.Debug("tool started")
	return d.run(ctx, log, req.Tool, entry.Handler, args)
}

func (d *Dispatcher) run(ctx context.Context, log *slog.Logger, tool string, h Handler, args Args) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tool handler panicked", "panic", r, "stack", string(debug.Stack()))
			res = failure(tool, KindHandlerFailure, fmt.Sprintf("%s failed: %v", tool, r))
		}
	}()
	res = h(ctx, args)
	res.Tool = tool
	return res
}

func failure(tool string, kind providers.ErrorKind, text string) Result {
	return Result{Tool: tool, Kind: kind, Text: text}
}
