package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ndk123-web/arthpage/internal/core"
)

// APIKeyStep collects the provider API key. Optional for Ollama.
type APIKeyStep struct {
	input      textinput.Model
	provider   core.ProviderKind
	isOptional bool
	missing    bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.Provider
	if s.provider == "" {
		return false
	}

	s.input = textinput.New()
	s.input.Focus()
	s.input.CharLimit = 255
	s.input.Width = 40
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'

	switch s.provider {
	case core.ProviderGemini:
		s.input.Placeholder = "AIza..."
	case core.ProviderOpenAI, core.ProviderDeepSeek:
		s.input.Placeholder = "sk-..."
	case core.ProviderClaude:
		s.input.Placeholder = "sk-ant-..."
	case core.ProviderOllama:
		s.isOptional = true
		s.input.Placeholder = "Optional - press Enter to skip"
		s.input.EchoMode = textinput.EchoNormal
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.provider == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			key := strings.TrimSpace(s.input.Value())
			if key == "" && !s.isOptional {
				s.missing = true
				return s, cmd
			}
			state.APIKey = key
			return nil, nil
		}
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.provider == "" {
		if !s.initProvider(state) {
			return "Loading..."
		}
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	out := fmt.Sprintf("Enter your %s API key%s:\n\n%s\n\n", s.provider.DisplayName(), optionalHint, s.input.View())
	if s.missing {
		out += errorStyle.Render("An API key is required for this provider.") + "\n\n"
	}
	return out + "(press enter to confirm)\n"
}
