package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/ndk123-web/arthpage/pkg/log"
)

const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

type AppConfig struct {
	RuntimePath string `env:"ARTHPAGE_RUNTIME_PATH"`

	// Durable chat storage backend: sqlite or bolt
	StoreBackend string `env:"ARTHPAGE_STORE" envDefault:"sqlite"`

	// Transport Flags
	EnableHTTP     bool   `env:"ARTHPAGE_ENABLE_HTTP" envDefault:"true"`
	HTTPAddr       string `env:"ARTHPAGE_HTTP_ADDR" envDefault:"127.0.0.1:8787"`
	EnableTelegram bool   `env:"ARTHPAGE_ENABLE_TELEGRAM" envDefault:"false"`

	// Request handling
	RequestTimeout time.Duration `env:"ARTHPAGE_REQUEST_TIMEOUT" envDefault:"30s"`

	// Conversation bounds
	MaxChats           int `env:"ARTHPAGE_MAX_CHATS" envDefault:"50"`
	MaxMessagesPerChat int `env:"ARTHPAGE_MAX_MESSAGES_PER_CHAT" envDefault:"300"`

	// Page content budget in cl100k tokens
	PageTokenBudget int `env:"ARTHPAGE_PAGE_TOKEN_BUDGET" envDefault:"6000"`

	Providers ProvidersConfig
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

// ParseAppConfig reads the environment without exiting on error.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "arthpage.db")
}

func (c AppConfig) GetBoltPath() string {
	return filepath.Join(c.RuntimePath, "arthpage.bolt")
}

func (c AppConfig) GetSettingsPath() string {
	return filepath.Join(c.RuntimePath, "settings.json")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
