package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/providers/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCreds map[core.ProviderKind]core.Credentials

func (m mockCreds) Credentials(_ context.Context, kind core.ProviderKind) (core.Credentials, bool) {
	c, ok := m[kind]
	return c, ok
}

type adapterFunc func(ctx context.Context, prompt string) (string, error)

func (f adapterFunc) Chat(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type factoryCall struct {
	kind   core.ProviderKind
	apiKey string
	model  string
	opts   int
}

type mockFactory struct {
	mu      sync.Mutex
	calls   []factoryCall
	adapter core.Adapter
}

func (m *mockFactory) build(_ context.Context, kind core.ProviderKind, _ config.ProvidersConfig, apiKey, model string, opts ...llm.Option) (core.Adapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, factoryCall{kind: kind, apiKey: apiKey, model: model, opts: len(opts)})
	return m.adapter, nil
}

func testProviders() config.ProvidersConfig {
	return config.ProvidersConfig{
		GeminiModel:   "gemini-1.5-flash",
		OpenAIModel:   "gpt-3.5-turbo",
		DeepSeekModel: "deepseek-chat",
		ClaudeModel:   "claude-3-5-haiku-latest",
		OllamaURL:     "http://localhost:11434",
		OllamaModel:   "llama3:instruct",
	}
}

func echo() core.Adapter {
	return adapterFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	allKeys := mockCreds{
		core.ProviderGemini:   {APIKey: "g"},
		core.ProviderOpenAI:   {APIKey: "o"},
		core.ProviderDeepSeek: {APIKey: "d"},
		core.ProviderClaude:   {APIKey: "c"},
	}

	tests := []struct {
		name       string
		creds      mockCreds
		adapter    core.Adapter
		req        Request
		want       core.Envelope
		wantCall   *factoryCall
		wantNoCall bool
	}{
		{
			name:     "online gemini with default model",
			creds:    allKeys,
			adapter:  echo(),
			req:      Request{Mode: "online", Provider: "gemini", Prompt: "hi"},
			want:     core.TextEnvelope("echo: hi"),
			wantCall: &factoryCall{kind: core.ProviderGemini, apiKey: "g", model: "gemini-1.5-flash"},
		},
		{
			name:     "empty mode defaults to online",
			creds:    allKeys,
			adapter:  echo(),
			req:      Request{Provider: "openai", Prompt: "hi"},
			want:     core.TextEnvelope("echo: hi"),
			wantCall: &factoryCall{kind: core.ProviderOpenAI, apiKey: "o", model: "gpt-3.5-turbo"},
		},
		{
			name:     "explicit model wins",
			creds:    allKeys,
			adapter:  echo(),
			req:      Request{Provider: "claude", Model: "claude-3-opus", Prompt: "hi"},
			want:     core.TextEnvelope("echo: hi"),
			wantCall: &factoryCall{kind: core.ProviderClaude, apiKey: "c", model: "claude-3-opus"},
		},
		{
			name:     "offline ignores provider",
			creds:    mockCreds{},
			adapter:  echo(),
			req:      Request{Mode: "offline", Provider: "gemini", Prompt: "hi", OfflineURL: "http://gpu:11434"},
			want:     core.TextEnvelope("echo: hi"),
			wantCall: &factoryCall{kind: core.ProviderOllama, model: "llama3:instruct", opts: 1},
		},
		{
			name:     "local alias online needs no key",
			creds:    mockCreds{},
			adapter:  echo(),
			req:      Request{Mode: "online", Provider: "local", Prompt: "hi"},
			want:     core.TextEnvelope("echo: hi"),
			wantCall: &factoryCall{kind: core.ProviderOllama, model: "llama3:instruct"},
		},
		{
			name:       "unknown provider",
			creds:      allKeys,
			adapter:    echo(),
			req:        Request{Provider: "mistral", Prompt: "hi"},
			want:       core.ErrorEnvelope(core.KindUnconfiguredProvider, "Provider mistral is not configured."),
			wantNoCall: true,
		},
		{
			name:       "missing key yields sentinel",
			creds:      mockCreds{core.ProviderDeepSeek: {APIKey: "  "}},
			adapter:    echo(),
			req:        Request{Provider: "deepseek", Prompt: "hi"},
			want:       core.ErrorEnvelope(core.KindMissingCredential, "Error: DeepSeek API key is missing. Please configure the API key in settings."),
			wantNoCall: true,
		},
		{
			name:  "http error",
			creds: allKeys,
			adapter: adapterFunc(func(context.Context, string) (string, error) {
				return "", core.NewHTTPError(core.ProviderOpenAI, 401, "bad key")
			}),
			req:  Request{Provider: "openai", Prompt: "hi"},
			want: core.ErrorEnvelope(core.KindHTTPError, "Error: OpenAI API request failed with status 401"),
		},
		{
			name:  "empty upstream",
			creds: allKeys,
			adapter: adapterFunc(func(context.Context, string) (string, error) {
				return "", core.NewError(core.KindEmptyUpstreamResponse, core.ProviderGemini, nil)
			}),
			req:  Request{Provider: "gemini", Prompt: "hi"},
			want: core.ErrorEnvelope(core.KindEmptyUpstreamResponse, "Error: Gemini API returned empty response"),
		},
		{
			name:  "network error",
			creds: allKeys,
			adapter: adapterFunc(func(context.Context, string) (string, error) {
				return "", core.NewError(core.KindNetworkError, core.ProviderGemini, errors.New("connection refused"))
			}),
			req:  Request{Provider: "gemini", Prompt: "hi"},
			want: core.ErrorEnvelope(core.KindNetworkError, "Error: Gemini API request failed. connection refused"),
		},
		{
			name:  "adapter panic is recovered",
			creds: allKeys,
			adapter: adapterFunc(func(context.Context, string) (string, error) {
				panic("boom")
			}),
			req:  Request{Provider: "gemini", Prompt: "hi"},
			want: core.ErrorEnvelope(core.KindNetworkError, "Error: Gemini Request Failed. adapter panic: boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &mockFactory{adapter: tt.adapter}
			d := NewDispatcher(tt.creds, testProviders(), WithFactory(f.build))

			got := d.Dispatch(context.Background(), tt.req)

			assert.Equal(t, tt.want, got)
			if tt.wantNoCall {
				assert.Empty(t, f.calls)
			}
			if tt.wantCall != nil {
				require.Len(t, f.calls, 1)
				assert.Equal(t, *tt.wantCall, f.calls[0])
			}
		})
	}
}

func TestDispatcher_DefaultModelsWithoutEnvConfig(t *testing.T) {
	creds := mockCreds{
		core.ProviderGemini:   {APIKey: "g"},
		core.ProviderOpenAI:   {APIKey: "o"},
		core.ProviderDeepSeek: {APIKey: "d"},
		core.ProviderClaude:   {APIKey: "c"},
	}

	tests := []struct {
		provider string
		model    string
	}{
		{provider: "gemini", model: "gemini-1.5-flash"},
		{provider: "openai", model: "gpt-3.5-turbo"},
		{provider: "deepseek", model: "deepseek-chat"},
		{provider: "claude", model: "claude-3-5-haiku-latest"},
		{provider: "ollama", model: "llama3:instruct"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			f := &mockFactory{adapter: echo()}
			d := NewDispatcher(creds, config.ProvidersConfig{}, WithFactory(f.build))

			got := d.Dispatch(context.Background(), Request{Provider: tt.provider, Prompt: "hi"})

			assert.Equal(t, core.TextEnvelope("echo: hi"), got)
			require.Len(t, f.calls, 1)
			assert.Equal(t, tt.model, f.calls[0].model)
		})
	}
}

func TestDispatcher_Timeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	f := &mockFactory{adapter: adapterFunc(func(context.Context, string) (string, error) {
		// ignores ctx on purpose
		<-block
		return "too late", nil
	})}
	d := NewDispatcher(mockCreds{core.ProviderGemini: {APIKey: "g"}}, testProviders(),
		WithFactory(f.build), WithLimit(50*time.Millisecond))

	start := time.Now()
	got := d.Dispatch(context.Background(), Request{Provider: "gemini", Prompt: "hi"})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, core.ErrorEnvelope(core.KindUpstreamTimeout, "Gemini request timed out (50ms)"), got)
}
