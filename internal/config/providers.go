package config

// ProvidersConfig holds upstream endpoints and per-provider model defaults.
// Base URLs are overridable for gateways and tests.
type ProvidersConfig struct {
	GeminiBaseURL   string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	DeepSeekBaseURL string `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com"`
	ClaudeBaseURL   string `env:"CLAUDE_BASE_URL" envDefault:"https://api.anthropic.com"`

	GeminiModel   string `env:"GEMINI_DEFAULT_MODEL" envDefault:"gemini-1.5-flash"`
	OpenAIModel   string `env:"OPENAI_DEFAULT_MODEL" envDefault:"gpt-3.5-turbo"`
	DeepSeekModel string `env:"DEEPSEEK_DEFAULT_MODEL" envDefault:"deepseek-chat"`
	ClaudeModel   string `env:"CLAUDE_DEFAULT_MODEL" envDefault:"claude-3-5-haiku-latest"`

	OllamaURL   string `env:"OLLAMA_DEFAULT_URL" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_DEFAULT_MODEL" envDefault:"llama3:instruct"`
}
