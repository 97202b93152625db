package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

var channelChoices = []string{"Browser panel only", "Browser panel + Telegram"}

// ChannelStep decides whether the Telegram bot runs next to the HTTP panel API.
type ChannelStep struct {
	menu menu
}

func NewChannelStep() Step {
	return &ChannelStep{menu: menu{size: len(channelChoices)}}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.menu.handle(msg) {
		state.EnableTelegram = s.menu.cursor == 1
		return nil, nil
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	return s.menu.render("Where do you want to chat?", channelChoices)
}
