package installer

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
)

// ErrInterrupted is returned when the user leaves the wizard with ctrl+c.
var ErrInterrupted = errors.New("arthpage setup interrupted")

const quitHint = "\n(press ctrl+c to quit)\n"

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the wizard. Update returns nil once the step is done;
// steps that do not apply to the collected state finish on their first message.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func setupSteps() []Step {
	return []Step{
		NewProviderStep(),
		NewAPIKeyStep(),
		NewOllamaURLStep(),
		NewModelStep(),
		NewPullModelStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(),
	}
}

// item is a bubbles/list entry.
type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

// stopper is a step with background work to abort when the wizard exits.
type stopper interface {
	Stop()
}

type errMsg error

// nextMsg wakes up a freshly entered step.
type nextMsg struct{}

func advance() tea.Msg { return nextMsg{} }

// menu is the cursor shared by the single-choice steps.
type menu struct {
	cursor int
	size   int
}

// handle moves the cursor and reports whether the choice was confirmed.
func (m *menu) handle(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.size-1 {
			m.cursor++
		}
	case "enter":
		return true
	}
	return false
}

func (m *menu) render(prompt string, labels []string) string {
	var b strings.Builder
	b.WriteString(prompt + "\n\n")
	for i, label := range labels {
		if i == m.cursor {
			b.WriteString(selStyle.Render("❯ "+label) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+label) + "\n")
		}
	}
	b.WriteString(quitHint)
	return b.String()
}

func failView(prefix string, err error) string {
	return errorStyle.Render(fmt.Sprintf("%s: %v", prefix, err)) + "\n" + quitHint
}

type wizard struct {
	steps    []Step
	current  int
	state    *InstallState
	quitting bool
	width    int
	height   int
}

func newWizard(state *InstallState) wizard {
	return wizard{steps: setupSteps(), state: state}
}

func (w wizard) stop() {
	for _, step := range w.steps {
		if st, ok := step.(stopper); ok {
			st.Stop()
		}
	}
}

func (w wizard) Init() tea.Cmd {
	return w.steps[0].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.quitting = true
			w.stop()
			return w, tea.Quit
		}
	}

	if w.current >= len(w.steps) {
		return w, tea.Quit
	}

	next, cmd := w.steps[w.current].Update(msg, w.state, w.width, w.height)
	if next != nil {
		w.steps[w.current] = next
		return w, cmd
	}

	w.current++
	if w.current >= len(w.steps) {
		return w, tea.Quit
	}
	return w, tea.Batch(w.steps[w.current].Init(), advance)
}

func (w wizard) View() string {
	switch {
	case w.quitting:
		return "Setup cancelled.\n"
	case w.current >= len(w.steps):
		return "Configuration complete!\n"
	}

	header := titleStyle.Render("Setting up "+core.ArthName) + " " +
		stepStyle.Render(fmt.Sprintf("(%d/%d)", w.current+1, len(w.steps)))
	return header + "\n\n" + w.steps[w.current].View(w.state)
}

// RunWizard runs the setup TUI and returns what the user chose.
// Settings are already written when it returns.
func RunWizard(cfg *config.AppConfig, settings SettingsWriter) (*InstallState, error) {
	final, err := tea.NewProgram(newWizard(NewInstallState(cfg, settings)), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("setup wizard: %w", err)
	}

	w := final.(wizard)
	w.stop()
	if w.quitting {
		return nil, ErrInterrupted
	}
	return w.state, nil
}
