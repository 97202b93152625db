package command

import (
	"context"
	"fmt"

	"github.com/ndk123-web/arthpage/internal/core"
)

type ModeCommand struct {
	settings  SettingsStore
	formatter *ResponseFormatter
}

func NewModeCommand(settings SettingsStore) *ModeCommand {
	return &ModeCommand{
		settings:  settings,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModeCommand) Name() string {
	return "mode"
}

func (c *ModeCommand) Description() string {
	return "Switch between online and offline (local) models"
}

func (c *ModeCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if len(args) == 0 {
		mode, _ := core.ParseMode(c.settings.Selection(ctx).Mode)
		return c.formatter.Combine(
			c.formatter.Info("Mode"),
			c.formatter.Label("Current", string(mode)),
			c.formatter.Usage("/mode [online|offline]"),
		), nil
	}

	mode, ok := core.ParseMode(args[0])
	if !ok {
		return "", fmt.Errorf("unknown mode %q, expected online or offline", args[0])
	}

	err := c.settings.UpdateSelection(ctx, func(s *core.Selection) {
		s.Mode = string(mode)
	})
	if err != nil {
		return "", fmt.Errorf("failed to set mode: %w", err)
	}

	return c.formatter.Success(fmt.Sprintf("Mode changed to: `%s`", mode)), nil
}
