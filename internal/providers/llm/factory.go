package llm

import (
	"context"
	"fmt"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/pkg/log"
)

// Constructor builds an adapter with model and key already bound.
type Constructor func(cfg config.ProvidersConfig, apiKey, model string, opts ...Option) core.Adapter

var registry = map[core.ProviderKind]Constructor{
	core.ProviderGemini: func(cfg config.ProvidersConfig, apiKey, model string, opts ...Option) core.Adapter {
		return NewGemini(apiKey, model, prepend(WithBaseURL(cfg.GeminiBaseURL), opts)...)
	},
	core.ProviderOpenAI: func(cfg config.ProvidersConfig, apiKey, model string, opts ...Option) core.Adapter {
		return NewOpenAI(apiKey, model, prepend(WithBaseURL(cfg.OpenAIBaseURL), opts)...)
	},
	core.ProviderDeepSeek: func(cfg config.ProvidersConfig, apiKey, model string, opts ...Option) core.Adapter {
		return NewDeepSeek(apiKey, model, prepend(WithBaseURL(cfg.DeepSeekBaseURL), opts)...)
	},
	core.ProviderClaude: func(cfg config.ProvidersConfig, apiKey, model string, opts ...Option) core.Adapter {
		return NewClaude(apiKey, model, prepend(WithBaseURL(cfg.ClaudeBaseURL), opts)...)
	},
	core.ProviderOllama: func(cfg config.ProvidersConfig, apiKey, model string, opts ...Option) core.Adapter {
		return NewOllama(cfg.OllamaURL, apiKey, model, opts...)
	},
}

// NewAdapter looks kind up in the registry. Unknown kinds yield UnconfiguredProvider.
func NewAdapter(ctx context.Context, kind core.ProviderKind, cfg config.ProvidersConfig, apiKey, model string, opts ...Option) (core.Adapter, error) {
	build, ok := registry[kind]
	if !ok {
		return nil, core.NewError(core.KindUnconfiguredProvider, kind, fmt.Errorf("unknown llm provider: %s", kind))
	}

	log.FromCtx(ctx).Debug().
		Str("provider", string(kind)).
		Str("model", model).
		Msg("building llm adapter")

	return build(cfg, apiKey, model, opts...), nil
}

// Built-in models for when neither the caller nor the env config picked one.
const (
	DefaultGeminiModel   = "gemini-1.5-flash"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
	DefaultDeepSeekModel = "deepseek-chat"
	DefaultClaudeModel   = "claude-3-5-haiku-latest"
)

// DefaultModel is the model used when the caller did not pick one. The env config
// wins over the built-in default.
func DefaultModel(kind core.ProviderKind, cfg config.ProvidersConfig) string {
	switch kind {
	case core.ProviderGemini:
		return orDefault(cfg.GeminiModel, DefaultGeminiModel)
	case core.ProviderOpenAI:
		return orDefault(cfg.OpenAIModel, DefaultOpenAIModel)
	case core.ProviderDeepSeek:
		return orDefault(cfg.DeepSeekModel, DefaultDeepSeekModel)
	case core.ProviderClaude:
		return orDefault(cfg.ClaudeModel, DefaultClaudeModel)
	case core.ProviderOllama:
		return orDefault(cfg.OllamaModel, DefaultOllamaModel)
	default:
		return ""
	}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func prepend(first Option, rest []Option) []Option {
	return append([]Option{first}, rest...)
}
