package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/pkg/env"
)

// envFile is what setup writes to the runtime .env; everything else lives in settings.json.
type envFile struct {
	EnableTelegram bool `env:"ARTHPAGE_ENABLE_TELEGRAM"`
	Telegram       config.TelegramConfig
}

// SaveEnvStep writes the transport configuration to the runtime .env file
type SaveEnvStep struct {
	err   error
	saved bool
	kept  bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return advance
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved || s.kept {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	saved, err := writeEnv(state)
	if err != nil {
		s.err = err
		return s, nil
	}
	state.EnvWritten = saved
	s.saved = saved
	s.kept = !saved
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return failView("Writing .env failed", s.err)
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// writeEnv never overwrites an existing .env and skips writing when there is nothing to store.
func writeEnv(state *InstallState) (bool, error) {
	if !state.EnableTelegram {
		return false, nil
	}

	if _, err := os.Stat(state.envPath); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	content, err := env.MarshalEnv(&envFile{
		EnableTelegram: state.EnableTelegram,
		Telegram:       state.Telegram,
	})
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(state.envPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	if err := os.WriteFile(state.envPath, []byte(content), 0600); err != nil {
		return false, err
	}
	return true, nil
}
