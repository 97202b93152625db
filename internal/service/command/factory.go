package command

import (
	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
)

func NewCommands(
	settings SettingsStore,
	providers config.ProvidersConfig,
	creator ChatCreator,
	chats core.ChatRepository,
) []core.Command {
	return []core.Command{
		NewNewChatCommand(creator),
		NewChatsCommand(chats, settings),
		NewProviderCommand(settings),
		NewModelCommand(settings, providers),
		NewModeCommand(settings),
	}
}

// NewRouterWithHelp builds the command router including /help.
func NewRouterWithHelp(commands []core.Command) *Router {
	r := New(commands)
	r.Register(NewHelpCommand(r))
	return r
}
