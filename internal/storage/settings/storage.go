package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ndk123-web/arthpage/pkg/log"
)

const watchInterval = 1 * time.Second

// FileStorage reads and writes settings.json.
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		path: path,
	}
}

func (c *FileStorage) Path() string {
	return c.path
}

// Load reads the settings. If the file is missing, it creates an empty one.
func (c *FileStorage) Load(ctx context.Context) (*Settings, error) {
	c.mu.RLock()
	data, err := os.ReadFile(c.path)
	c.mu.RUnlock()

	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create settings directory: %w", err)
		}

		log.FromCtx(ctx).Info().Str("path", c.path).Msg("settings.json not found, creating default")

		s := &Settings{}
		if err := c.Save(ctx, s); err != nil {
			return nil, fmt.Errorf("failed to create default settings: %w", err)
		}
		return s, nil
	}

	s := &Settings{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

func (c *FileStorage) Save(ctx context.Context, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Keys live here, keep it private
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Watch polls the file and emits the parsed settings whenever its content changes.
// The bytes decide what is new, not the mtime.
func (c *FileStorage) Watch(ctx context.Context, interval time.Duration) (<-chan Settings, error) {
	updates := make(chan Settings)

	last, err := c.read()
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	go func() {
		defer close(updates)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				data, err := c.read()
				if err != nil || bytes.Equal(data, last) {
					continue
				}

				var s Settings
				if err := json.Unmarshal(data, &s); err != nil {
					// likely a half-written file, retried next tick
					log.FromCtx(ctx).Error().Err(err).Msg("failed to parse settings")
					continue
				}
				last = data

				select {
				case updates <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return updates, nil
}

func (c *FileStorage) read() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return os.ReadFile(c.path)
}
