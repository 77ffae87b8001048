package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dshills/chorus/internal/config"
	"github.com/dshills/chorus/internal/providers"
	"github.com/dshills/chorus/internal/review"
	"github.com/dshills/chorus/internal/telemetry"
	"github.com/dshills/chorus/internal/tools"
)

// app is everything a command needs to invoke tools.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	aggregator *review.Aggregator
	policy     tools.InputPolicy
	dispatcher *tools.Dispatcher
	shutdown   func(context.Context) error
}

// newApp loads configuration and credentials once and builds the provider
// clients, aggregator, tool registry and dispatcher. Logs go to logOut.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(logOut, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if !cfg.Redact() {
		logger.Warn("secret redaction is disabled")
	}

	creds, err := config.LoadCredentials(cfg.EnvFile)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		return nil, err
	}
	observer, err := telemetry.NewGlobal()
	if err != nil {
		return nil, fmt.Errorf("creating telemetry observer: %w", err)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	clients := providers.NewSet(cfg.ProviderSettings(creds), httpClient)
	for _, c := range clients {
		logger.Debug("provider registered", "provider", c.Name(), "credential", hasCredential(creds, c.Name()))
	}

	agg := review.NewAggregator(review.MembersFor(clients), observer)
	policy := tools.InputPolicy{
		MaxInputBytes: cfg.MaxInputBytes,
		RedactSecrets: cfg.Redact(),
		Logger:        logger,
	}
	reg, err := tools.NewRegistry(tools.Builtin(clients, agg, policy)...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		aggregator: agg,
		policy:     policy,
		dispatcher: tools.NewDispatcher(reg, logger, observer),
		shutdown:   shutdown,
	}, nil
}

// close flushes telemetry.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", "error", err)
	}
}

func hasCredential(c providers.Credentials, name string) bool {
	switch name {
	case "anthropic":
		return c.Anthropic != ""
	case "openai":
		return c.OpenAI != ""
	case "gemini":
		return c.Gemini != ""
	}
	return false
}
