package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/providers/llm"
	"github.com/ndk123-web/arthpage/pkg/log"
)

// CredentialLookup is the read side of the settings store.
type CredentialLookup interface {
	Credentials(ctx context.Context, provider core.ProviderKind) (core.Credentials, bool)
}

// AdapterFactory builds a provider adapter; llm.NewAdapter in production.
type AdapterFactory func(ctx context.Context, kind core.ProviderKind, cfg config.ProvidersConfig, apiKey, model string, opts ...llm.Option) (core.Adapter, error)

type Request struct {
	Mode       string
	Provider   string
	Model      string
	Prompt     string
	OfflineURL string
}

type Dispatcher struct {
	creds     CredentialLookup
	providers config.ProvidersConfig
	limit     time.Duration
	factory   AdapterFactory
}

type Option func(*Dispatcher)

func WithLimit(limit time.Duration) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.limit = limit
		}
	}
}

func WithFactory(f AdapterFactory) Option {
	return func(d *Dispatcher) {
		if f != nil {
			d.factory = f
		}
	}
}

func NewDispatcher(creds CredentialLookup, providers config.ProvidersConfig, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		creds:     creds,
		providers: providers,
		limit:     DefaultTimeout,
		factory:   llm.NewAdapter,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes one prompt to the selected backend. It never returns an error:
// every failure is folded into the envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) core.Envelope {
	logger := log.FromCtx(ctx)

	mode, ok := core.ParseMode(req.Mode)
	if !ok {
		logger.Warn().Str("mode", req.Mode).Msg("unknown mode, routing online")
		mode = core.ModeOnline
	}

	if mode == core.ModeOffline {
		return d.dispatchLocal(ctx, req)
	}

	kind, ok := core.ParseProviderKind(req.Provider)
	if !ok {
		logger.Warn().Str("provider", req.Provider).Msg("provider is not configured")
		return core.ErrorEnvelope(core.KindUnconfiguredProvider, UnconfiguredMessage(req.Provider))
	}
	if kind.IsLocal() {
		return d.dispatchLocal(ctx, req)
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = llm.DefaultModel(kind, d.providers)
	}

	creds, found := d.creds.Credentials(ctx, kind)
	if !found || strings.TrimSpace(creds.APIKey) == "" {
		logger.Info().Str("provider", string(kind)).Msg("api key is missing")
		return core.ErrorEnvelope(core.KindMissingCredential, core.MissingCredentialMessage(kind))
	}

	adapter, err := d.factory(ctx, kind, d.providers, creds.APIKey, model)
	if err != nil {
		return d.fail(ctx, kind, model, err)
	}
	return d.run(ctx, kind, model, adapter, req.Prompt)
}

func (d *Dispatcher) dispatchLocal(ctx context.Context, req Request) core.Envelope {
	kind := core.ProviderOllama

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = llm.DefaultModel(kind, d.providers)
	}

	var opts []llm.Option
	if u := strings.TrimSpace(req.OfflineURL); u != "" {
		opts = append(opts, llm.WithBaseURL(u))
	}

	// Key is optional for a local server
	creds, _ := d.creds.Credentials(ctx, kind)

	adapter, err := d.factory(ctx, kind, d.providers, creds.APIKey, model, opts...)
	if err != nil {
		return d.fail(ctx, kind, model, err)
	}
	return d.run(ctx, kind, model, adapter, req.Prompt)
}

func (d *Dispatcher) run(ctx context.Context, kind core.ProviderKind, model string, adapter core.Adapter, prompt string) core.Envelope {
	started := time.Now()

	text, err := WithTimeout(ctx, kind, d.limit, func(ctx context.Context) (string, error) {
		return adapter.Chat(ctx, prompt)
	})
	if err != nil {
		return d.fail(ctx, kind, model, err)
	}

	log.FromCtx(ctx).Debug().
		Str("provider", string(kind)).
		Str("model", model).
		Dur("took", time.Since(started)).
		Int("reply_len", len(text)).
		Msg("dispatch succeeded")

	return core.TextEnvelope(text)
}

func (d *Dispatcher) fail(ctx context.Context, kind core.ProviderKind, model string, err error) core.Envelope {
	env := envelopeFor(kind, err)

	log.FromCtx(ctx).Error().
		Err(err).
		Str("provider", string(kind)).
		Str("model", model).
		Str("kind", string(env.ErrorKind)).
		Msg("dispatch failed")

	return env
}
