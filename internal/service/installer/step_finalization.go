package installer

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ndk123-web/arthpage/internal/core"
)

// FinalizationStep writes the chosen provider into the settings store
type FinalizationStep struct {
	err  error
	done bool
}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return advance
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := saveSettings(ctx, state); err != nil {
		s.err = err
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	if s.err != nil {
		return failView("Saving settings failed", s.err)
	}
	return "Saving settings...\n"
}

func saveSettings(ctx context.Context, state *InstallState) error {
	if state.settings == nil || state.Provider == "" {
		return nil
	}

	err := state.settings.SetCredentials(ctx, state.Provider, core.Credentials{
		APIKey: state.APIKey,
		Model:  state.Model,
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	if state.Provider.IsLocal() && state.OllamaURL != "" {
		if err := state.settings.SetOllamaURL(ctx, state.OllamaURL); err != nil {
			return fmt.Errorf("save ollama url: %w", err)
		}
	}

	mode := core.ModeOnline
	if state.Provider.IsLocal() {
		mode = core.ModeOffline
	}
	err = state.settings.UpdateSelection(ctx, func(sel *core.Selection) {
		sel.Provider = string(state.Provider)
		sel.Mode = string(mode)
		sel.Model = ""
	})
	if err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}
