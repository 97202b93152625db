package installer

import (
	"context"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
)

// SettingsWriter is the part of the settings store the wizard writes to.
type SettingsWriter interface {
	SetCredentials(ctx context.Context, kind core.ProviderKind, c core.Credentials) error
	SetOllamaURL(ctx context.Context, url string) error
	UpdateSelection(ctx context.Context, fn func(*core.Selection)) error
}

type InstallState struct {
	Provider  core.ProviderKind
	APIKey    string
	OllamaURL string
	Model     string

	// Models already pulled into the local Ollama
	LocalModels []string

	EnableTelegram bool
	Telegram       config.TelegramConfig
	EnvWritten     bool

	providers config.ProvidersConfig
	settings  SettingsWriter
	envPath   string
}

func NewInstallState(cfg *config.AppConfig, settings SettingsWriter) *InstallState {
	return &InstallState{
		OllamaURL: cfg.Providers.OllamaURL,
		providers: cfg.Providers,
		settings:  settings,
		envPath:   cfg.GetEnvPath(),
	}
}

func (s *InstallState) hasLocalModel(name string) bool {
	for _, m := range s.LocalModels {
		if m == name {
			return true
		}
	}
	return false
}
