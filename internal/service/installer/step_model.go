package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/providers/llm"
)

// suggestedModels are offered for cloud providers next to the configured default.
var suggestedModels = map[core.ProviderKind][]string{
	core.ProviderGemini:   {"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"},
	core.ProviderOpenAI:   {"gpt-3.5-turbo", "gpt-4o-mini", "gpt-4o"},
	core.ProviderDeepSeek: {"deepseek-chat", "deepseek-reasoner"},
	core.ProviderClaude:   {"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest", "claude-3-opus-latest"},
	core.ProviderOllama:   {llm.DefaultOllamaModel, "mistral", "phi3"},
}

type localModelsMsg []string

// ModelStep lists models for the chosen provider. Ollama models come from the local server.
type ModelStep struct {
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.loading && !s.fetching {
		s.fetching = true
		if state.Provider != core.ProviderOllama {
			s.list.SetItems(modelItems(state, nil))
			s.loading = false
			s.fetching = false
			return s, nil
		}

		url, key := state.OllamaURL, state.APIKey
		return s, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			models, err := llm.NewOllama(url, key, "").Models(ctx)
			if err != nil {
				return errMsg(err)
			}
			return localModelsMsg(models)
		}
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case localModelsMsg:
		state.LocalModels = msg
		s.list.SetItems(modelItems(state, msg))
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil // Return nil command to break the error loop

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				s.fetching = false
			case "s":
				// Continue with suggestions when the server is down
				s.err = nil
				s.list.SetItems(modelItems(state, nil))
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.Model = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nIs Ollama running at " + state.OllamaURL + "?\n\n(press enter to retry, s to pick from suggestions, ctrl+c to quit)\n"
	}
	if s.loading {
		return "Fetching local models...\n"
	}
	return s.list.View()
}

// modelItems puts the configured default first, then installed models, then suggestions.
func modelItems(state *InstallState, local []string) []list.Item {
	seen := map[string]bool{}
	var items []list.Item
	add := func(id, desc string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		items = append(items, item{id: id, title: id, desc: desc})
	}

	add(llm.DefaultModel(state.Provider, state.providers), "default")
	for _, m := range local {
		add(m, "installed")
	}
	for _, m := range suggestedModels[state.Provider] {
		desc := "suggested"
		if state.Provider == core.ProviderOllama {
			desc = "not installed, will be pulled"
		}
		add(m, desc)
	}
	return items
}
