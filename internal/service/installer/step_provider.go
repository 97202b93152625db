package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ndk123-web/arthpage/internal/core"
)

// ProviderStep picks the provider the assistant starts with.
type ProviderStep struct {
	choices []core.ProviderKind
	menu    menu
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices: core.ProviderKinds,
		menu:    menu{size: len(core.ProviderKinds)},
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.menu.handle(msg) {
		state.Provider = s.choices[s.menu.cursor]
		return nil, nil
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	labels := make([]string, len(s.choices))
	for i, kind := range s.choices {
		labels[i] = kind.DisplayName()
		if kind.IsLocal() {
			labels[i] += " (local, offline mode)"
		}
	}
	return s.menu.render("Select your model provider:", labels)
}
