package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/providers/llm"
)

type ModelCommand struct {
	settings  SettingsStore
	providers config.ProvidersConfig
	formatter *ResponseFormatter
}

func NewModelCommand(settings SettingsStore, providers config.ProvidersConfig) *ModelCommand {
	return &ModelCommand{
		settings:  settings,
		providers: providers,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show or change current model"
}

func (c *ModelCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sel := c.settings.Selection(ctx)
	kind := currentProvider(sel)

	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Current Model"),
			c.formatter.Label("Provider", string(kind)),
			c.formatter.Label("Model", effectiveModel(ctx, c.settings, c.providers, sel)),
			c.formatter.Usage("/model [model]"),
			c.formatter.Examples([]string{
				"/model gemini-1.5-pro",
				"/model gpt-4o-mini",
				"/model default",
			}),
		), nil
	}

	model := strings.TrimSpace(args[0])
	if model == "default" {
		model = ""
	}

	err := c.settings.UpdateSelection(ctx, func(s *core.Selection) {
		s.Model = model
	})
	if err != nil {
		return "", fmt.Errorf("failed to set model: %w", err)
	}

	sel.Model = model
	return c.formatter.Combine(
		c.formatter.Success(fmt.Sprintf("Model changed to: `%s/%s`", kind, effectiveModel(ctx, c.settings, c.providers, sel))),
	), nil
}

func currentProvider(sel core.Selection) core.ProviderKind {
	if mode, _ := core.ParseMode(sel.Mode); mode == core.ModeOffline {
		return core.ProviderOllama
	}
	if kind, ok := core.ParseProviderKind(sel.Provider); ok {
		return kind
	}
	return core.ProviderGemini
}

// effectiveModel resolves what the dispatcher will use: the selection, then the
// model stored with the credentials, then the provider default.
func effectiveModel(ctx context.Context, settings SettingsStore, providers config.ProvidersConfig, sel core.Selection) string {
	if sel.Model != "" {
		return sel.Model
	}
	kind := currentProvider(sel)
	if c, ok := settings.Credentials(ctx, kind); ok && c.Model != "" {
		return c.Model
	}
	return llm.DefaultModel(kind, providers)
}
