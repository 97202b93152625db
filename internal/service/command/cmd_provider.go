package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndk123-web/arthpage/internal/core"
)

type ProviderCommand struct {
	settings  SettingsStore
	formatter *ResponseFormatter
}

func NewProviderCommand(settings SettingsStore) *ProviderCommand {
	return &ProviderCommand{
		settings:  settings,
		formatter: NewResponseFormatter(),
	}
}

func (c *ProviderCommand) Name() string {
	return "provider"
}

func (c *ProviderCommand) Description() string {
	return "Show or change the model provider"
}

func (c *ProviderCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		items := make([]string, 0, len(core.ProviderKinds))
		for _, k := range core.ProviderKinds {
			status := "no key"
			if cred, ok := c.settings.Credentials(ctx, k); k.IsLocal() || (ok && cred.APIKey != "") {
				status = "ready"
			}
			items = append(items, fmt.Sprintf("**%s** (%s)", k, status))
		}

		return c.formatter.Combine(
			c.formatter.Info("Providers"),
			c.formatter.Label("Current", string(currentProvider(c.settings.Selection(ctx)))),
			c.formatter.List(items),
			c.formatter.Usage("/provider [name]"),
		), nil
	}

	kind, ok := core.ParseProviderKind(args[0])
	if !ok {
		return "", fmt.Errorf("unknown provider %q, expected one of: %s", args[0], kindNames())
	}

	err := c.settings.UpdateSelection(ctx, func(s *core.Selection) {
		s.Provider = string(kind)
		// a model name rarely carries over between providers
		s.Model = ""
		if kind.IsLocal() {
			s.Mode = string(core.ModeOffline)
		} else {
			s.Mode = string(core.ModeOnline)
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to set provider: %w", err)
	}

	out := []string{c.formatter.Success(fmt.Sprintf("Provider changed to: `%s`", kind))}
	if cred, ok := c.settings.Credentials(ctx, kind); !kind.IsLocal() && (!ok || cred.APIKey == "") {
		out = append(out, c.formatter.Tip("no API key stored yet, run `arthpage setup`"))
	}
	return c.formatter.Combine(out...), nil
}

func kindNames() string {
	names := make([]string, len(core.ProviderKinds))
	for i, k := range core.ProviderKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
