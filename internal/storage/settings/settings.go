package settings

import (
	"github.com/ndk123-web/arthpage/internal/core"
)

// OllamaSettings is the local server entry; the key is optional.
type OllamaSettings struct {
	URL    string `json:"url,omitempty"`
	APIKey string `json:"apiKey,omitempty"`
	Model  string `json:"model,omitempty"`
}

// Settings mirrors the fast-sync scope: credentials under each provider name plus the
// current selection at the top level.
type Settings struct {
	Gemini   *core.Credentials `json:"gemini,omitempty"`
	OpenAI   *core.Credentials `json:"openai,omitempty"`
	DeepSeek *core.Credentials `json:"deepseek,omitempty"`
	Claude   *core.Credentials `json:"claude,omitempty"`
	Ollama   *OllamaSettings   `json:"ollama,omitempty"`

	core.Selection
}

func (s *Settings) slot(kind core.ProviderKind) **core.Credentials {
	switch kind {
	case core.ProviderGemini:
		return &s.Gemini
	case core.ProviderOpenAI:
		return &s.OpenAI
	case core.ProviderDeepSeek:
		return &s.DeepSeek
	case core.ProviderClaude:
		return &s.Claude
	default:
		return nil
	}
}

// Credentials returns the stored entry for kind and whether one exists.
func (s Settings) Credentials(kind core.ProviderKind) (core.Credentials, bool) {
	if kind == core.ProviderOllama {
		if s.Ollama == nil {
			return core.Credentials{}, false
		}
		return core.Credentials{APIKey: s.Ollama.APIKey, Model: s.Ollama.Model}, true
	}

	slot := s.slot(kind)
	if slot == nil || *slot == nil {
		return core.Credentials{}, false
	}
	return **slot, true
}

func (s *Settings) SetCredentials(kind core.ProviderKind, c core.Credentials) {
	if kind == core.ProviderOllama {
		if s.Ollama == nil {
			s.Ollama = &OllamaSettings{}
		}
		s.Ollama.APIKey = c.APIKey
		s.Ollama.Model = c.Model
		return
	}

	if slot := s.slot(kind); slot != nil {
		cp := c
		*slot = &cp
	}
}

// Redacted drops every secret, for display and the HTTP settings endpoint.
func (s Settings) Redacted() Settings {
	out := Settings{Selection: s.Selection}
	if s.Ollama != nil {
		out.Ollama = &OllamaSettings{URL: s.Ollama.URL, Model: s.Ollama.Model}
	}
	return out
}

// Configured lists providers that have a key, in display order.
func (s Settings) Configured() []core.ProviderKind {
	var out []core.ProviderKind
	for _, k := range core.ProviderKinds {
		if k.IsLocal() {
			continue
		}
		if c, ok := s.Credentials(k); ok && c.APIKey != "" {
			out = append(out, k)
		}
	}
	return out
}

func (s *Settings) clone() Settings {
	out := Settings{Selection: s.Selection}
	for _, k := range core.ProviderKinds {
		if c, ok := s.Credentials(k); ok && !k.IsLocal() {
			out.SetCredentials(k, c)
		}
	}
	if s.Ollama != nil {
		o := *s.Ollama
		out.Ollama = &o
	}
	return out
}
