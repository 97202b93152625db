package core

import (
	"context"
	"strings"
)

const (
	ArthName          = "ArthPage"
	ArthRepositoryURL = "https://github.com/ndk123-web/arthpage"
	ArthUserAgent     = "Mozilla/5.0 (compatible; ArthPage/1.0; +https://github.com/ndk123-web/arthpage)"
)

// ProviderKind is the closed set of model backends.
type ProviderKind string

const (
	ProviderGemini   ProviderKind = "gemini"
	ProviderOpenAI   ProviderKind = "openai"
	ProviderDeepSeek ProviderKind = "deepseek"
	ProviderClaude   ProviderKind = "claude"
	ProviderOllama   ProviderKind = "ollama"
)

// ProviderKinds lists every known provider in display order.
var ProviderKinds = []ProviderKind{
	ProviderGemini,
	ProviderOpenAI,
	ProviderDeepSeek,
	ProviderClaude,
	ProviderOllama,
}

// ParseProviderKind maps a wire name onto a ProviderKind.
// "local" is accepted as an alias for ollama.
func ParseProviderKind(s string) (ProviderKind, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "local" {
		return ProviderOllama, true
	}
	for _, k := range ProviderKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

func (k ProviderKind) DisplayName() string {
	switch k {
	case ProviderGemini:
		return "Gemini"
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderDeepSeek:
		return "DeepSeek"
	case ProviderClaude:
		return "Claude"
	case ProviderOllama:
		return "Ollama"
	default:
		return string(k)
	}
}

// IsLocal reports whether the provider runs without a cloud API key.
func (k ProviderKind) IsLocal() bool {
	return k == ProviderOllama
}

// Mode selects between remote-service and local-service routing.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeOnline):
		return ModeOnline, true
	case string(ModeOffline):
		return ModeOffline, true
	default:
		return "", false
	}
}

// Credentials are stored per provider in the settings store.
type Credentials struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model,omitempty"`
}

// Adapter is the single capability every provider backend implements.
type Adapter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}
