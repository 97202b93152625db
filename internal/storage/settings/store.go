package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/pkg/log"
)

// Store serves settings from an in-memory snapshot. Writes go straight to disk; edits
// made by another process show up on the next watcher tick.
type Store struct {
	storage  *FileStorage
	interval time.Duration

	mu      sync.RWMutex
	current Settings

	cancel context.CancelFunc
	done   chan struct{}
}

func NewStore(storage *FileStorage) *Store {
	return &Store{
		storage:  storage,
		interval: watchInterval,
	}
}

// Open loads path, creating an empty settings file when needed.
func Open(ctx context.Context, path string) (*Store, error) {
	s := NewStore(NewFileStorage(path))
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = *loaded
	s.mu.Unlock()
	return nil
}

func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Update applies fn to a copy of the current settings and persists the result.
func (s *Store) Update(ctx context.Context, fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	fn(&next)

	if err := s.storage.Save(ctx, &next); err != nil {
		return err
	}
	s.current = next
	return nil
}

func (s *Store) Credentials(_ context.Context, kind core.ProviderKind) (core.Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Credentials(kind)
}

func (s *Store) SetCredentials(ctx context.Context, kind core.ProviderKind, c core.Credentials) error {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Model = strings.TrimSpace(c.Model)
	return s.Update(ctx, func(st *Settings) {
		st.SetCredentials(kind, c)
	})
}

// OllamaURL is the configured local server, or "" to use the env default.
func (s *Store) OllamaURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Ollama == nil {
		return ""
	}
	return s.current.Ollama.URL
}

func (s *Store) SetOllamaURL(ctx context.Context, url string) error {
	return s.Update(ctx, func(st *Settings) {
		if st.Ollama == nil {
			st.Ollama = &OllamaSettings{}
		}
		st.Ollama.URL = strings.TrimSpace(url)
	})
}

func (s *Store) Selection(_ context.Context) core.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Selection
}

func (s *Store) UpdateSelection(ctx context.Context, fn func(*core.Selection)) error {
	return s.Update(ctx, func(st *Settings) {
		fn(&st.Selection)
	})
}

// Start runs the file watcher until Shutdown.
func (s *Store) Start(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)

	updates, err := s.storage.Watch(watchCtx, s.interval)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to watch settings: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	logger := log.FromCtx(ctx)
	logger.Debug().Str("path", s.storage.Path()).Msg("watching settings")

	go func() {
		defer close(done)
		for next := range updates {
			s.mu.Lock()
			s.current = next
			s.mu.Unlock()
			logger.Debug().Msg("settings reloaded")
		}
	}()

	return nil
}

func (s *Store) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
