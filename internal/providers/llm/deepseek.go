package llm

import (
	"github.com/ndk123-web/arthpage/internal/core"
)

const deepSeekBaseURL = "https://api.deepseek.com"

// DeepSeek speaks the OpenAI chat completions dialect.
type DeepSeek struct {
	*OpenAICompatible
}

func NewDeepSeek(apiKey, model string, opts ...Option) *DeepSeek {
	return &DeepSeek{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Kind:       core.ProviderDeepSeek,
			BaseURL:    deepSeekBaseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			RequireKey: true,
			ExtraBody: map[string]any{
				"temperature": 0.7,
			},
		}, opts...),
	}
}
