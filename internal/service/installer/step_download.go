package installer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/providers/llm"
)

type progressMsg float64
type pullStatusMsg string
type pullDoneMsg struct{}

// PullModelStep pulls the chosen Ollama model when it is not installed yet.
type PullModelStep struct {
	progress progress.Model
	updates  chan tea.Msg
	status   string
	started  bool
	err      error

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
}

func NewPullModelStep() Step {
	ctx, cancel := context.WithCancel(context.Background())
	return &PullModelStep{
		progress: progress.New(progress.WithDefaultGradient()),
		updates:  make(chan tea.Msg),
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan struct{}),
	}
}

func (s *PullModelStep) Init() tea.Cmd {
	return nil
}

// Stop aborts a running pull once nobody reads its progress any more.
func (s *PullModelStep) Stop() {
	s.cancel()
}

func (s *PullModelStep) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.updates:
			return msg
		case <-s.ctx.Done():
			return nil
		}
	}
}

func (s *PullModelStep) send(msg tea.Msg) {
	select {
	case s.updates <- msg:
	case <-s.ctx.Done():
	}
}

func (s *PullModelStep) doPull(url, key, model string) {
	defer close(s.finished)

	err := llm.NewOllama(url, key, "").Pull(s.ctx, model, func(p llm.PullProgress) {
		if p.Total > 0 {
			s.send(progressMsg(float64(p.Completed) / float64(p.Total)))
			return
		}
		s.send(pullStatusMsg(p.Status))
	})
	if err != nil {
		s.send(errMsg(err))
		return
	}
	s.send(pullDoneMsg{})
}

func (s *PullModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.started {
		if state.Provider != core.ProviderOllama || state.Model == "" || state.hasLocalModel(state.Model) {
			return nil, nil
		}
		s.started = true
		go s.doPull(state.OllamaURL, state.APIKey, state.Model)
		return s, s.waitForActivity()
	}

	s.progress.Width = width - 10

	switch msg := msg.(type) {
	case progressMsg:
		return s, tea.Batch(s.waitForActivity(), s.progress.SetPercent(float64(msg)))

	case pullStatusMsg:
		s.status = string(msg)
		return s, s.waitForActivity()

	case pullDoneMsg:
		state.LocalModels = append(state.LocalModels, state.Model)
		return nil, nil

	case errMsg:
		s.err = msg
		return s, nil

	case progress.FrameMsg:
		progressModel, cmd := s.progress.Update(msg)
		s.progress = progressModel.(progress.Model)
		return s, cmd

	case tea.WindowSizeMsg:
		s.progress.Width = msg.Width - 10
	}

	return s, nil
}

func (s *PullModelStep) View(state *InstallState) string {
	if s.err != nil {
		return failView("Pull failed", s.err)
	}

	return fmt.Sprintf("Pulling %s into Ollama...\nThis may take a few minutes depending on your connection.\n\n%s\n%s\n",
		state.Model, s.progress.View(), s.status)
}
